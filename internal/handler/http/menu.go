package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sipandsavor/cafe/internal/catalog"
	"github.com/sipandsavor/cafe/internal/domain"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
	"github.com/sipandsavor/cafe/pkg/httputil"
)

// MenuHandler serves the read-only catalog.
type MenuHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu HTTP handler.
func NewMenuHandler(cat *catalog.Catalog, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		catalog: cat,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/menu?category=&q=
func (h *MenuHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(strings.TrimSpace(r.URL.Query().Get("category")))
	query := r.URL.Query().Get("q")

	httputil.WriteData(w, http.StatusOK, h.catalog.Filter(category, query))
}

// Options handles GET /api/v1/menu/options
func (h *MenuHandler) Options(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, MenuOptions{
		Categories:  h.catalog.Categories(),
		SugarLevels: h.catalog.SugarLevels(),
		IceLevels:   h.catalog.IceLevels(),
		Toppings:    h.catalog.Toppings(),
	})
}

// GetProduct handles GET /api/v1/menu/products/{productId}
func (h *MenuHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	product, ok := h.catalog.Product(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}
