package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"vapemart/internal/model"
	"vapemart/internal/service"

	"github.com/rs/zerolog"
)

// callbackTokenHeader carries the shared secret the payment gateway sends
// with every callback.
const callbackTokenHeader = "x-callback-token"

// WebhookHandler handles payment gateway callbacks.
type WebhookHandler struct {
	payments      service.PaymentService
	callbackToken string
	logger        zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(payments service.PaymentService, callbackToken string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments:      payments,
		callbackToken: callbackToken,
		logger:        logger.With().Str("handler", "webhook").Logger(),
	}
}

// HandlePayment handles POST /webhooks/payment requests.
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Token check comes before the body is even looked at; a bad token must
	// never reach order state.
	token := r.Header.Get(callbackTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.callbackToken)) != 1 {
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("webhook with invalid callback token rejected")
		writeError(w, http.StatusUnauthorized, "invalid callback token", h.logger)
		return
	}

	var payload model.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	event, err := service.EventFromWebhook(payload)
	if err != nil {
		writeError(w, statusForError(err), err.Error(), h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", event.OrderID.String()).
		Str("status", payload.Status).
		Str("invoice_id", payload.ID).
		Msg("payment webhook received")

	if _, err := h.payments.ApplyStatus(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process payment status", h.logger)
		return
	}

	// Unknown and already-terminal statuses still acknowledge: the gateway
	// retries anything but a 2xx.
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
