package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/sipandsavor/cafe/pkg/config"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the ordering service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PprofAllowedCIDRs  []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	// Sessions
	SessionStore    string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTLHours int           `env:"SESSION_TTL_HOURS" envDefault:"12"`
	CheckoutDelay   time.Duration `env:"CHECKOUT_DELAY" envDefault:"500ms"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Assistant
	GeminiAPIKey       string        `env:"GEMINI_API_KEY" envDefault:""`
	GeminiModel        string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL      string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	AssistantTimeout   time.Duration `env:"ASSISTANT_TIMEOUT" envDefault:"20s"`
	AssistantRateRPS   float64       `env:"ASSISTANT_RATE_RPS" envDefault:"2"`
	AssistantRateBurst int           `env:"ASSISTANT_RATE_BURST" envDefault:"5"`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return finish(pkgconfig.Load)
}

// LoadFrom reads configuration from vars, ignoring the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return finish(func(cfg any) error { return pkgconfig.LoadFrom(cfg, vars) })
}

func finish(parse func(any) error) (*Config, error) {
	cfg := &Config{}
	if err := parse(cfg); err != nil {
		return nil, fmt.Errorf("load cafe config: %w", err)
	}
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionTTL is the idle lifetime of a session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE %q: must be %q or %q", c.SessionStore, StoreMemory, StoreRedis)
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.SessionTTLHours)
	}
	if c.CheckoutDelay < 0 {
		return fmt.Errorf("CHECKOUT_DELAY must not be negative, got %s", c.CheckoutDelay)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.AssistantTimeout <= 0 {
		return fmt.Errorf("ASSISTANT_TIMEOUT must be positive, got %s", c.AssistantTimeout)
	}
	if c.AssistantRateRPS <= 0 || c.AssistantRateBurst < 1 {
		return fmt.Errorf("assistant rate limit must be positive (rps=%g burst=%d)", c.AssistantRateRPS, c.AssistantRateBurst)
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be in [0,1], got %g", c.OTelSampleRate)
	}
	return nil
}
