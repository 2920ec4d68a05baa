package model

// WebhookPayload is the callback body posted by the payment gateway on an
// invoice status change. ExternalID carries our order id; ID is the
// gateway's invoice id.
type WebhookPayload struct {
	Status             string `json:"status"`
	ExternalID         string `json:"external_id"`
	ID                 string `json:"id"`
	PaymentMethod      string `json:"payment_method,omitempty"`
	PaidAmount         int64  `json:"paid_amount,omitempty"`
	PaymentChannel     string `json:"payment_channel,omitempty"`
	PaymentDestination string `json:"payment_destination,omitempty"`
	FailureReason      string `json:"failure_reason,omitempty"`
}

// ReconcileStats summarises a reconciliation sweep.
type ReconcileStats struct {
	TotalOrdersChecked int      `json:"totalOrdersChecked"`
	PaidOrdersFound    int      `json:"paidOrdersFound"`
	EmailsSent         int      `json:"emailsSent"`
	Errors             []string `json:"errors"`
}
