package handler

import (
	"fmt"
	"net/http"

	"vapemart/internal/model"
	"vapemart/internal/service"

	"github.com/rs/zerolog"
)

// ReconcileResponse reports the outcome of a reconciliation sweep.
type ReconcileResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Stats   model.ReconcileStats `json:"stats"`
}

// ReconcileHandler triggers reconciliation sweeps over HTTP.
type ReconcileHandler struct {
	service service.ReconcileService
	logger  zerolog.Logger
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(service service.ReconcileService, logger zerolog.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
		logger:  logger.With().Str("handler", "reconcile").Logger(),
	}
}

// Run handles POST /api/reconcile requests.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	stats, err := h.service.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reconciliation sweep failed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ReconcileResponse{
		Success: true,
		Message: fmt.Sprintf("checked %d pending orders, %d paid", stats.TotalOrdersChecked, stats.PaidOrdersFound),
		Stats:   stats,
	})
}
