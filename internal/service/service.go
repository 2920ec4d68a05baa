package service

import (
	"context"

	"vapemart/internal/gateway"
	"vapemart/internal/model"

	"github.com/google/uuid"
)

// CheckoutService defines the interface for order creation.
type CheckoutService interface {
	// CreateOrder prices the cart, persists a pending order and consumes
	// any applied discount code.
	CreateOrder(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)

	// GetOrder retrieves an order by id. Returns nil when absent.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// PaymentEvent is a normalised terminal-status report for one order,
// produced by either the webhook handler or the reconciliation sweep.
type PaymentEvent struct {
	OrderID       uuid.UUID
	Status        gateway.InvoiceStatus
	PaymentData   *model.PaymentData
	FailureReason string
}

// ApplyResult reports what a transition attempt actually did.
type ApplyResult struct {
	// Applied is true when this call performed the pending → terminal
	// transition. False means the order was already terminal (or unknown
	// status), which is not an error.
	Applied bool

	// EmailSent is true when this call dispatched the confirmation email.
	EmailSent bool
}

// PaymentService applies payment-status transitions to orders.
type PaymentService interface {
	// ApplyStatus applies a gateway-reported status to an order. Unknown
	// statuses are logged and ignored. The transition is idempotent and
	// guarded against already-terminal orders.
	ApplyStatus(ctx context.Context, event PaymentEvent) (ApplyResult, error)
}

// ReconcileService re-checks pending orders against the payment gateway.
type ReconcileService interface {
	// Run sweeps pending orders inside the lookback window and applies any
	// terminal status the gateway reports. Per-order failures are recorded
	// in the stats, never aborting the sweep.
	Run(ctx context.Context) (model.ReconcileStats, error)
}
