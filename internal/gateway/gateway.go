// Package gateway is a thin client to the external invoicing API. The
// pipeline only needs one call: fetch an invoice's current status.
package gateway

import (
	"context"
	"strings"
)

// InvoiceStatus is the normalised payment status reported by the gateway.
type InvoiceStatus string

const (
	StatusPaid    InvoiceStatus = "PAID"
	StatusSettled InvoiceStatus = "SETTLED"
	StatusExpired InvoiceStatus = "EXPIRED"
	StatusFailed  InvoiceStatus = "FAILED"
	StatusPending InvoiceStatus = "PENDING"
	StatusUnknown InvoiceStatus = "UNKNOWN"
)

// ParseInvoiceStatus normalises a raw gateway status string. The gateway has
// been observed to report both "PAID" and "paid", so matching is
// case-insensitive. Unrecognised values map to StatusUnknown so callers can
// log and ignore them instead of propagating raw strings.
func ParseInvoiceStatus(raw string) InvoiceStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PAID":
		return StatusPaid
	case "SETTLED":
		return StatusSettled
	case "EXPIRED":
		return StatusExpired
	case "FAILED":
		return StatusFailed
	case "PENDING":
		return StatusPending
	default:
		return StatusUnknown
	}
}

// Terminal reports whether the status ends the payment lifecycle.
func (s InvoiceStatus) Terminal() bool {
	switch s {
	case StatusPaid, StatusSettled, StatusExpired, StatusFailed:
		return true
	}
	return false
}

// Invoice is the subset of the gateway's invoice representation the
// reconciliation pipeline consumes.
type Invoice struct {
	ID                 string
	ExternalID         string
	Status             InvoiceStatus
	RawStatus          string
	PaymentMethod      string
	PaidAmount         int64
	PaymentChannel     string
	PaymentDestination string
	FailureReason      string
}

// Client defines the interface for fetching invoice state from the gateway.
type Client interface {
	// GetInvoice returns the current state of an invoice by its gateway id.
	GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error)
}
