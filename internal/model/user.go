package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountTier distinguishes retail customers from wholesale accounts.
type AccountTier string

const (
	TierIndividual AccountTier = "individual"
	TierBusiness   AccountTier = "business"
)

// DiscountType classifies how a discount was earned.
type DiscountType string

const (
	DiscountFirstOrder DiscountType = "first-order"
	DiscountReferral   DiscountType = "referral"
	DiscountOther      DiscountType = "other"
)

// Discount describes a single discount available to (or applied by) a user.
// Exactly one of Percentage or Amount is expected to be set.
type Discount struct {
	ID         uuid.UUID    `json:"id"`
	Code       string       `json:"code"`
	Type       DiscountType `json:"type"`
	Name       string       `json:"name"`
	Percentage float64      `json:"percentage,omitempty"`
	Amount     int64        `json:"amount,omitempty"`
}

// User represents a storefront account.
type User struct {
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	AccountType   AccountTier `json:"accountType"`
	OrderCount    int         `json:"orderCount"`
	LifetimeSpend int64       `json:"lifetimeSpend"`
	ReferralCode  *string     `json:"referralCode,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Referral links a referrer's code to the email address it was shared with.
// ReferAvailed flips to true exactly once, when the referred user completes
// a discounted order.
type Referral struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	ReferrerEmail string    `json:"referrerEmail"`
	ReferredEmail string    `json:"referredEmail"`
	ReferAvailed  bool      `json:"referAvailed"`
	CreatedAt     time.Time `json:"createdAt"`
}
