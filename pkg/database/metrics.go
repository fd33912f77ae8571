package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// PoolStatsCollector exports go-redis connection pool statistics.
type PoolStatsCollector struct {
	pool    interface{ PoolStats() *redis.PoolStats }
	service string

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
	staleConns *prometheus.Desc
}

// NewPoolStatsCollector creates a collector for client's pool.
func NewPoolStatsCollector(client *redis.Client, service string) *PoolStatsCollector {
	labels := []string{"service"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("redis_pool_"+name, help, labels, nil)
	}
	return &PoolStatsCollector{
		pool:       client,
		service:    service,
		hits:       desc("hits_total", "Number of times a free connection was found in the pool"),
		misses:     desc("misses_total", "Number of times a free connection was not found in the pool"),
		timeouts:   desc("timeouts_total", "Number of times a wait for a connection timed out"),
		totalConns: desc("total_connections", "Number of connections in the pool"),
		idleConns:  desc("idle_connections", "Number of idle connections in the pool"),
		staleConns: desc("stale_connections_total", "Number of stale connections removed from the pool"),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.staleConns
}

// Collect implements prometheus.Collector.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.PoolStats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), c.service)
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), c.service)
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(s.Timeouts), c.service)
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns), c.service)
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns), c.service)
	ch <- prometheus.MustNewConstMetric(c.staleConns, prometheus.CounterValue, float64(s.StaleConns), c.service)
}

// RegisterPoolMetrics registers a pool collector for client with reg.
func RegisterPoolMetrics(reg prometheus.Registerer, client *redis.Client, service string) error {
	return reg.Register(NewPoolStatsCollector(client, service))
}
