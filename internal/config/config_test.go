package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.SessionStore)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
	assert.Equal(t, 500*time.Millisecond, cfg.CheckoutDelay)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 20*time.Second, cfg.AssistantTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"127.0.0.1/32", "::1/128"}, cfg.PprofAllowedCIDRs)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SESSION_STORE", " Redis ")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"KAFKA_ENABLED":        "true",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
		"CHECKOUT_DELAY":       "0s",
		"ASSISTANT_RATE_RPS":   "0.5",
		"ASSISTANT_RATE_BURST": "1",
		"ENVIRONMENT":          "production",
	})
	require.NoError(t, err)

	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Zero(t, cfg.CheckoutDelay)
	assert.Equal(t, 0.5, cfg.AssistantRateRPS)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"port too high", map[string]string{"HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"port zero", map[string]string{"HTTP_PORT": "0"}, "invalid HTTP port"},
		{"unknown store", map[string]string{"SESSION_STORE": "postgres"}, "invalid SESSION_STORE"},
		{"zero ttl", map[string]string{"SESSION_TTL_HOURS": "0"}, "SESSION_TTL_HOURS"},
		{"negative delay", map[string]string{"CHECKOUT_DELAY": "-1s"}, "CHECKOUT_DELAY"},
		{"zero timeout", map[string]string{"ASSISTANT_TIMEOUT": "0s"}, "ASSISTANT_TIMEOUT"},
		{"zero burst", map[string]string{"ASSISTANT_RATE_BURST": "0"}, "rate limit"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "1.5"}, "OTEL_SAMPLE_RATE"},
		{"unparseable", map[string]string{"HTTP_PORT": "abc"}, "load cafe config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.vars)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
