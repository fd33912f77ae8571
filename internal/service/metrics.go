package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lineItemsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cafe_line_items_added_total",
		Help: "Line items committed to a cart.",
	})

	ordersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cafe_orders_submitted_total",
		Help: "Orders sent to the kitchen.",
	})

	orderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cafe_order_value_cents",
		Help:    "Order total including tax, in cents.",
		Buckets: []float64{500, 1000, 1500, 2000, 3000, 5000, 7500, 10000, 20000},
	})

	assistantReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafe_assistant_replies_total",
		Help: "Assistant replies by outcome.",
	}, []string{"outcome"})
)
