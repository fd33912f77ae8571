package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/sipandsavor/cafe/internal/assistant"
	"github.com/sipandsavor/cafe/internal/catalog"
	"github.com/sipandsavor/cafe/internal/config"
	"github.com/sipandsavor/cafe/internal/event"
	handler "github.com/sipandsavor/cafe/internal/handler/http"
	"github.com/sipandsavor/cafe/internal/repository"
	"github.com/sipandsavor/cafe/internal/repository/memory"
	redisrepo "github.com/sipandsavor/cafe/internal/repository/redis"
	"github.com/sipandsavor/cafe/internal/service"
	"github.com/sipandsavor/cafe/pkg/database"
	"github.com/sipandsavor/cafe/pkg/health"
	"github.com/sipandsavor/cafe/pkg/httpclient"
	pkgkafka "github.com/sipandsavor/cafe/pkg/kafka"
	"github.com/sipandsavor/cafe/pkg/middleware"
	"github.com/sipandsavor/cafe/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics, traces and events.
const ServiceName = "cafe-ordering"

// App wires together all dependencies and runs the ordering service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	publisher      pkgkafka.Publisher
	sessions       *service.SessionService
	shutdownTracer func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger, publisher: pkgkafka.Discard}
	healthHandler := health.NewHandler()

	// Tracing.
	tracingCfg := tracing.DefaultConfig(ServiceName)
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTelEndpoint
	tracingCfg.SampleRate = cfg.OTelSampleRate
	tracingCfg.Enabled = cfg.OTelEnabled
	shutdownTracer, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.shutdownTracer = shutdownTracer

	// Session store.
	repo, err := a.sessionRepository(ctx)
	if err != nil {
		return nil, err
	}
	healthHandler.Register("session_store", repo.Ping)

	// Event bus.
	if cfg.KafkaEnabled {
		producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		healthHandler.RegisterOptional("kafka", producer.Ping)
		a.publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, order events are not published")
	}

	// Build the dependency graph.
	cat := catalog.Default()
	proxy := a.assistantProxy(healthHandler, cat.Context())
	eventProducer := event.NewProducer(a.publisher, logger)
	a.sessions = service.NewSessionService(repo, cat, eventProducer, logger, service.SessionConfig{
		TTL:           cfg.SessionTTL(),
		CheckoutDelay: cfg.CheckoutDelay,
	})
	assistantService := service.NewAssistantService(a.sessions, proxy, logger, cfg.AssistantTimeout)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	if !cfg.IsDevelopment() && slices.Contains(corsCfg.AllowedOrigins, "*") {
		logger.Warn("CORS allows any origin outside development")
	}

	router := handler.NewRouter(cat, a.sessions, assistantService, healthHandler, logger, handler.RouterConfig{
		ServiceName:    ServiceName,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		CORS:           corsCfg,
		AssistantRPS:   cfg.AssistantRateRPS,
		AssistantBurst: cfg.AssistantRateBurst,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// The assistant route waits on the model.
		WriteTimeout: cfg.AssistantTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

func (a *App) sessionRepository(ctx context.Context) (repository.SessionRepository, error) {
	if a.cfg.SessionStore != config.StoreRedis {
		a.logger.Info("using in-memory session store")
		return memory.NewSessionRepository(), nil
	}

	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = a.cfg.RedisAddr
	redisCfg.Password = a.cfg.RedisPass
	redisCfg.DB = a.cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, rdb, ServiceName); err != nil {
		a.logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
	}
	a.rdb = rdb

	a.logger.Info("connected to Redis",
		slog.String("addr", a.cfg.RedisAddr),
		slog.Int("db", a.cfg.RedisDB),
	)
	return redisrepo.NewSessionRepository(rdb), nil
}

func (a *App) assistantProxy(healthHandler *health.Handler, menu string) *assistant.Proxy {
	if strings.TrimSpace(a.cfg.GeminiAPIKey) == "" {
		a.logger.Warn("GEMINI_API_KEY is not set, the assistant will answer with a configuration notice")
		healthHandler.RegisterOptional("assistant", func(context.Context) error {
			return errors.New("GEMINI_API_KEY is not set")
		})
		return assistant.NewProxy(nil, menu, a.cfg.AssistantTimeout, a.logger)
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = a.cfg.AssistantTimeout
	client := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("gemini"), a.logger)

	healthHandler.RegisterOptional("assistant", func(context.Context) error {
		if client.State() == gobreaker.StateOpen {
			return httpclient.ErrCircuitOpen
		}
		return nil
	})

	gen := assistant.NewGeminiGenerator(client, assistant.GeminiConfig{
		BaseURL: a.cfg.GeminiBaseURL,
		Model:   a.cfg.GeminiModel,
		APIKey:  a.cfg.GeminiAPIKey,
	})
	return assistant.NewProxy(gen, menu, a.cfg.AssistantTimeout, a.logger)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Let checkouts in flight reach the kitchen before the bus closes.
	if err := a.sessions.Wait(shutdownCtx); err != nil {
		a.logger.Warn("pending checkouts not completed", slog.String("error", err.Error()))
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
