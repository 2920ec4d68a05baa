// Package mailer dispatches transactional email through an external
// template-based email API. Delivery failures are reported to callers as
// EMAIL_GATEWAY_ERROR domain errors; callers record them and move on, they
// are never fatal to the owning order transition.
package mailer

import (
	"context"
	"regexp"

	"vapemart/internal/model"
)

// emailPattern is a pragmatic address check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Dispatcher defines the interface for sending transactional email.
type Dispatcher interface {
	// SendOrderConfirmation sends the order confirmation template for a
	// paid order.
	SendOrderConfirmation(ctx context.Context, order *model.Order) error

	// SendAbandonmentEmail sends a cart or website abandonment template.
	// The request is validated before any dispatch happens.
	SendAbandonmentEmail(ctx context.Context, req model.AbandonmentRequest) error
}

// ValidateAbandonmentRequest checks an abandonment request before dispatch.
func ValidateAbandonmentRequest(req model.AbandonmentRequest) error {
	if !emailPattern.MatchString(req.Email) {
		return model.ErrInvalidEmail
	}

	switch req.Type {
	case model.CartAbandonment, model.WebsiteAbandonment:
		return nil
	default:
		return model.ErrInvalidEmailType
	}
}
