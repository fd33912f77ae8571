package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sipandsavor/cafe/internal/domain"
	"github.com/sipandsavor/cafe/internal/service"
	apperrors "github.com/sipandsavor/cafe/pkg/errors"
	"github.com/sipandsavor/cafe/pkg/httputil"
	"github.com/sipandsavor/cafe/pkg/middleware"
	"github.com/sipandsavor/cafe/pkg/validator"
)

// SessionHandler handles the per-session ordering endpoints.
type SessionHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// OpenCustomizationRequest is the JSON request body for opening the product modal.
type OpenCustomizationRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// UpdateCustomizationRequest is the JSON request body for changing selections.
// At least one field must be set.
type UpdateCustomizationRequest struct {
	Sugar         *string `json:"sugar,omitempty" validate:"omitempty,max=16"`
	Ice           *string `json:"ice,omitempty" validate:"omitempty,max=16"`
	Quantity      *int    `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=999"`
	QuantityDelta *int    `json:"quantity_delta,omitempty" validate:"omitempty,min=-999,max=999"`
}

// UpdateItemRequest is the JSON request body for changing a line item quantity.
type UpdateItemRequest struct {
	Delta int `json:"delta" validate:"ne=0,min=-999,max=999"`
}

// --- Handlers ---

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.CreateSession(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set(middleware.SessionHeader, sess.ID)
	httputil.WriteData(w, http.StatusCreated, newSessionView(sess))
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.GetSession(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newSessionView(sess))
}

// OpenCustomization handles POST /api/v1/session/customization
func (h *SessionHandler) OpenCustomization(w http.ResponseWriter, r *http.Request) {
	var req OpenCustomizationRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.service.OpenCustomization(r.Context(), sessionID(r), req.ProductID)
	h.writeCustomization(w, r, sess, err)
}

// UpdateCustomization handles PATCH /api/v1/session/customization
func (h *SessionHandler) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	var req UpdateCustomizationRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.Sugar == nil && req.Ice == nil && req.Quantity == nil && req.QuantityDelta == nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("one of sugar, ice, quantity or quantity_delta is required"), h.logger)
		return
	}

	sess, err := h.service.UpdateCustomization(r.Context(), sessionID(r), service.UpdateCustomizationInput{
		Sugar:         req.Sugar,
		Ice:           req.Ice,
		Quantity:      req.Quantity,
		QuantityDelta: req.QuantityDelta,
	})
	h.writeCustomization(w, r, sess, err)
}

// ToggleTopping handles POST /api/v1/session/customization/toppings/{toppingId}
func (h *SessionHandler) ToggleTopping(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.ToggleTopping(r.Context(), sessionID(r), chi.URLParam(r, "toppingId"))
	h.writeCustomization(w, r, sess, err)
}

// CommitCustomization handles POST /api/v1/session/customization/commit
func (h *SessionHandler) CommitCustomization(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.CommitCustomization(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, newCartView(&sess.Cart))
}

// DiscardCustomization handles DELETE /api/v1/session/customization
func (h *SessionHandler) DiscardCustomization(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.DiscardCustomization(r.Context(), sessionID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCart handles GET /api/v1/session/cart
func (h *SessionHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.GetSession(r.Context(), sessionID(r))
	h.writeCart(w, r, sess, err)
}

// UpdateItem handles PATCH /api/v1/session/cart/items/{itemId}
func (h *SessionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.service.UpdateItemQuantity(r.Context(), sessionID(r), chi.URLParam(r, "itemId"), req.Delta)
	h.writeCart(w, r, sess, err)
}

// RemoveItem handles DELETE /api/v1/session/cart/items/{itemId}
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.RemoveItem(r.Context(), sessionID(r), chi.URLParam(r, "itemId"))
	h.writeCart(w, r, sess, err)
}

// Checkout handles POST /api/v1/session/checkout
func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Checkout(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusAccepted, newCheckoutView(sess.Checkout))
}

// GetCheckout handles GET /api/v1/session/checkout
func (h *SessionHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.GetSession(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCheckoutView(sess.Checkout))
}

// AcknowledgeConfirmation handles DELETE /api/v1/session/checkout/confirmation
func (h *SessionHandler) AcknowledgeConfirmation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.AcknowledgeConfirmation(r.Context(), sessionID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) writeCustomization(w http.ResponseWriter, r *http.Request, sess *domain.Session, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCustomizationView(sess.Customizing))
}

func (h *SessionHandler) writeCart(w http.ResponseWriter, r *http.Request, sess *domain.Session, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCartView(&sess.Cart))
}
