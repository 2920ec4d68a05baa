package handler

import (
	"encoding/json"
	"net/http"

	"vapemart/internal/ledger"

	"github.com/rs/zerolog"
)

// ReferralRequest asks for a referral code for an existing user.
type ReferralRequest struct {
	Email string `json:"email"`
}

// ReferralResponse carries the issued (or existing) referral code.
type ReferralResponse struct {
	Success      bool   `json:"success"`
	ReferralCode string `json:"referralCode"`
}

// ReferralHandler handles referral code issuance HTTP requests.
type ReferralHandler struct {
	ledger ledger.Ledger
	logger zerolog.Logger
}

// NewReferralHandler creates a new referral handler.
func NewReferralHandler(l ledger.Ledger, logger zerolog.Logger) *ReferralHandler {
	return &ReferralHandler{
		ledger: l,
		logger: logger.With().Str("handler", "referral").Logger(),
	}
}

// Issue handles POST /api/referrals requests.
func (h *ReferralHandler) Issue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req ReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required", h.logger)
		return
	}

	code, err := h.ledger.IssueReferralCode(r.Context(), req.Email)
	if err != nil {
		status := statusForError(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "failed to issue referral code"
		}
		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ReferralResponse{Success: true, ReferralCode: code})
}
