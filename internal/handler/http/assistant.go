package http

import (
	"log/slog"
	"net/http"

	"github.com/sipandsavor/cafe/internal/service"
	"github.com/sipandsavor/cafe/pkg/httputil"
	"github.com/sipandsavor/cafe/pkg/validator"
)

// AskRequest is the JSON request body for a question to the assistant.
type AskRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// AssistantHandler handles the chat endpoints.
type AssistantHandler struct {
	service *service.AssistantService
	logger  *slog.Logger
}

// NewAssistantHandler creates a new assistant HTTP handler.
func NewAssistantHandler(svc *service.AssistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: svc,
		logger:  logger,
	}
}

// ListMessages handles GET /api/v1/session/assistant/messages
func (h *AssistantHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.History(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, messages)
}

// Ask handles POST /api/v1/session/assistant/messages
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	reply, err := h.service.Ask(r.Context(), sessionID(r), req.Text)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, reply)
}
