package handler

import (
	"encoding/json"
	"net/http"

	"vapemart/internal/mailer"
	"vapemart/internal/model"

	"github.com/rs/zerolog"
)

// NotificationHandler handles abandonment email HTTP requests.
type NotificationHandler struct {
	dispatcher mailer.Dispatcher
	logger     zerolog.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(dispatcher mailer.Dispatcher, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		logger:     logger.With().Str("handler", "notification").Logger(),
	}
}

// SendAbandonment handles POST /api/notifications/abandonment requests.
func (h *NotificationHandler) SendAbandonment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.AbandonmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.dispatcher.SendAbandonmentEmail(r.Context(), req); err != nil {
		status := statusForError(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "failed to send abandonment email"
		}
		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
