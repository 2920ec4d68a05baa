package repository

import (
	"context"
	"time"

	"vapemart/internal/model"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data access operations.
// Orders are created once at checkout; afterwards they are only mutated by
// payment-status transitions and email-status updates. The Mark* methods
// apply a transition only while the order is still pending and report
// whether the row was actually updated, so concurrent webhook deliveries
// and reconciliation sweeps cannot corrupt a terminal state.
type OrderRepository interface {
	// Create persists a new pending order.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order by its internal id. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByInvoiceID retrieves an order by the gateway invoice id. Returns nil when absent.
	GetByInvoiceID(ctx context.Context, invoiceID string) (*model.Order, error)

	// MarkPaid transitions a pending order to confirmed/paid.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, data *model.PaymentData) (bool, error)

	// MarkExpired transitions a pending order to expired.
	MarkExpired(ctx context.Context, id uuid.UUID, expiredAt time.Time) (bool, error)

	// MarkFailed transitions a pending order to failed.
	MarkFailed(ctx context.Context, id uuid.UUID, failedAt time.Time, reason string) (bool, error)

	// ListPendingCreatedAfter returns pending orders with an invoice id
	// created after the cutoff, oldest first.
	ListPendingCreatedAfter(ctx context.Context, cutoff time.Time) ([]model.Order, error)

	// UpdateEmailStatus records the outcome of a confirmation email attempt.
	UpdateEmailStatus(ctx context.Context, id uuid.UUID, status model.EmailStatus) error
}

// UserRepository defines the interface for account and discount data access.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// SetReferralCode stores a generated referral code for a user.
	SetReferralCode(ctx context.Context, email, code string) error

	// GetDiscount retrieves one of the user's available discounts by code.
	// Returns nil when the user holds no matching discount.
	GetDiscount(ctx context.Context, email, code string) (*model.Discount, error)

	// RemoveDiscount removes one matching discount from the user's
	// available list, reporting whether an entry was removed.
	RemoveDiscount(ctx context.Context, email, code string) (bool, error)

	// RecordPaidOrder additively updates order count and lifetime spend
	// after a paid order.
	RecordPaidOrder(ctx context.Context, email string, amount int64) error
}

// ReferralRepository defines the interface for referral tracking.
type ReferralRepository interface {
	// Create persists a new referral link.
	Create(ctx context.Context, referral *model.Referral) error

	// GetByCode retrieves referrals issued under a code.
	GetByCode(ctx context.Context, code string) ([]model.Referral, error)

	// MarkAvailed flips refer_availed for the referral matching both code
	// and referred email, reporting whether a row matched.
	MarkAvailed(ctx context.Context, code, referredEmail string) (bool, error)
}
