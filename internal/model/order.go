package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the gateway-facing payment state of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderExpired   OrderStatus = "expired"
	OrderFailed    OrderStatus = "failed"
)

// OrderProduct is a line item snapshot taken at checkout time.
type OrderProduct struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// ShippingInfo holds the delivery address captured at checkout.
type ShippingInfo struct {
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	PostCode string `json:"postCode,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// EmailStatus tracks transactional email delivery for an order.
type EmailStatus struct {
	OrderConfirmationSent      bool       `json:"orderConfirmationSent"`
	OrderConfirmationSentError string     `json:"orderConfirmationSentError,omitempty"`
	SentAt                     *time.Time `json:"sentAt,omitempty"`
}

// PaymentData holds the metadata the gateway reports with a terminal status.
type PaymentData struct {
	PaymentMethod      string `json:"paymentMethod,omitempty"`
	PaidAmount         int64  `json:"paidAmount,omitempty"`
	PaymentChannel     string `json:"paymentChannel,omitempty"`
	PaymentDestination string `json:"paymentDestination,omitempty"`
}

// Order represents a customer order. It is created once at checkout and
// mutated only by payment-status transitions and email-status updates.
type Order struct {
	ID            uuid.UUID      `json:"id"`
	InvoiceID     string         `json:"invoiceId"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Products      []OrderProduct `json:"products"`
	SubTotal      int64          `json:"subTotal"`
	Discount      *Discount      `json:"discount,omitempty"`
	DiscountTotal int64          `json:"discountTotal"`
	ShippingPrice int64          `json:"shippingPrice"`
	TotalPrice    int64          `json:"totalPrice"`
	Paid          bool           `json:"paid"`
	PaymentStatus PaymentStatus  `json:"paymentStatus"`
	Status        OrderStatus    `json:"status"`
	ShippingInfo  ShippingInfo   `json:"shippingInfo"`
	EmailStatus   EmailStatus    `json:"emailStatus"`
	PaymentData   *PaymentData   `json:"paymentData,omitempty"`
	FailureReason string         `json:"failureReason,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	ExpiredAt     *time.Time     `json:"expiredAt,omitempty"`
	FailedAt      *time.Time     `json:"failedAt,omitempty"`
}

// Terminal reports whether the order has left the pending state.
func (o *Order) Terminal() bool {
	return o.PaymentStatus != PaymentPending
}
