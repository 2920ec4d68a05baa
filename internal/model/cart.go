package model

// CartItem is a single cart line as submitted at checkout. Prices are
// denominated in minor units; SalePrice and BusinessPrice are optional
// overrides of the base Price.
type CartItem struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Price         int64  `json:"price"`
	SalePrice     *int64 `json:"salePrice,omitempty"`
	BusinessPrice *int64 `json:"businessPrice,omitempty"`
}

// Quote is the result of resolving a cart against a tier and discount.
type Quote struct {
	Original        int64     `json:"original"`
	Discount        int64     `json:"discount"`
	DiscountDetails *Discount `json:"discountDetails,omitempty"`
	Total           int64     `json:"total"`
}

// CheckoutRequest is the request payload for creating an order.
type CheckoutRequest struct {
	Email         string       `json:"email"`
	Name          string       `json:"name"`
	Items         []CartItem   `json:"items"`
	DiscountCode  *string      `json:"discountCode,omitempty"`
	ShippingPrice int64        `json:"shippingPrice"`
	ShippingInfo  ShippingInfo `json:"shippingInfo"`
	InvoiceID     string       `json:"invoiceId"`
}

// AbandonmentType classifies an abandonment email.
type AbandonmentType string

const (
	CartAbandonment    AbandonmentType = "cart_abandonment"
	WebsiteAbandonment AbandonmentType = "website_abandonment"
)

// AbandonmentRequest is the request payload for an abandonment email.
type AbandonmentRequest struct {
	Email string          `json:"email"`
	Name  string          `json:"name,omitempty"`
	Type  AbandonmentType `json:"type"`
}
