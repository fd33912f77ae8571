package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sipandsavor/cafe/internal/catalog"
	"github.com/sipandsavor/cafe/internal/service"
	"github.com/sipandsavor/cafe/pkg/health"
	"github.com/sipandsavor/cafe/pkg/middleware"
)

// menuMaxAge is how long clients may cache menu responses.
const menuMaxAge = 5 * time.Minute

// RouterConfig holds the HTTP-level settings of the ordering API.
type RouterConfig struct {
	ServiceName    string
	PprofCIDRs     []string
	CORS           middleware.CORSConfig
	AssistantRPS   float64
	AssistantBurst int
}

// NewRouter creates a chi router with all ordering routes registered.
func NewRouter(
	cat *catalog.Catalog,
	sessionService *service.SessionService,
	assistantService *service.AssistantService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	menuHandler := NewMenuHandler(cat, logger)
	sessionHandler := NewSessionHandler(sessionService, logger)
	assistantHandler := NewAssistantHandler(assistantService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/menu", func(r chi.Router) {
			r.Use(middleware.CacheControl(menuMaxAge))

			r.Get("/", menuHandler.ListProducts)
			r.Get("/options", menuHandler.Options)
			r.Get("/products/{productId}", menuHandler.GetProduct)
		})

		r.With(middleware.NoStore).Post("/sessions", sessionHandler.CreateSession)

		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(RequireSession)

			r.Get("/", sessionHandler.GetSession)

			r.Post("/customization", sessionHandler.OpenCustomization)
			r.Patch("/customization", sessionHandler.UpdateCustomization)
			r.Delete("/customization", sessionHandler.DiscardCustomization)
			r.Post("/customization/toppings/{toppingId}", sessionHandler.ToggleTopping)
			r.Post("/customization/commit", sessionHandler.CommitCustomization)

			r.Get("/cart", sessionHandler.GetCart)
			r.Patch("/cart/items/{itemId}", sessionHandler.UpdateItem)
			r.Delete("/cart/items/{itemId}", sessionHandler.RemoveItem)

			r.Post("/checkout", sessionHandler.Checkout)
			r.Get("/checkout", sessionHandler.GetCheckout)
			r.Delete("/checkout/confirmation", sessionHandler.AcknowledgeConfirmation)

			r.Route("/assistant/messages", func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.AssistantRPS, cfg.AssistantBurst, logger))

				r.Get("/", assistantHandler.ListMessages)
				r.Post("/", assistantHandler.Ask)
			})
		})
	})

	return r
}
