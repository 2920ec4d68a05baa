package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vapemart/internal/model"

	"github.com/rs/zerolog"
)

// httpClient implements Client against the invoicing API over HTTP.
type httpClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
	logger    zerolog.Logger
}

// NewClient creates an invoice gateway client. The secret key is sent as the
// Basic-auth username with an empty password, per the gateway's API contract.
func NewClient(baseURL, secretKey string, timeout time.Duration, logger zerolog.Logger) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With().Str("component", "invoice-gateway").Logger(),
	}
}

// invoiceResponse mirrors the gateway's invoice JSON.
type invoiceResponse struct {
	ID                 string `json:"id"`
	ExternalID         string `json:"external_id"`
	Status             string `json:"status"`
	PaymentMethod      string `json:"payment_method"`
	PaidAmount         int64  `json:"paid_amount"`
	PaymentChannel     string `json:"payment_channel"`
	PaymentDestination string `json:"payment_destination"`
	FailureReason      string `json:"failure_reason"`
}

// GetInvoice fetches the current state of an invoice.
func (c *httpClient) GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	url := fmt.Sprintf("%s/v2/invoices/%s", c.baseURL, invoiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice request: %w", err)
	}
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("invoice_id", invoiceID).
			Msg("invoice request failed")
		return nil, fmt.Errorf("%w: %v", model.NewDomainError(model.ErrCodeUpstreamGateway, "payment gateway unreachable"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug().Str("invoice_id", invoiceID).Msg("invoice not found")
		return nil, model.NewDomainError(model.ErrCodeNotFound, "Invoice not found")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("invoice_id", invoiceID).
			Str("body", string(body)).
			Msg("unexpected gateway response")
		return nil, model.NewDomainError(model.ErrCodeUpstreamGateway,
			fmt.Sprintf("payment gateway returned status %d", resp.StatusCode))
	}

	var payload invoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode invoice response: %w", err)
	}

	status := ParseInvoiceStatus(payload.Status)
	if status == StatusUnknown {
		c.logger.Warn().
			Str("invoice_id", invoiceID).
			Str("raw_status", payload.Status).
			Msg("gateway reported unknown invoice status")
	}

	return &Invoice{
		ID:                 payload.ID,
		ExternalID:         payload.ExternalID,
		Status:             status,
		RawStatus:          payload.Status,
		PaymentMethod:      payload.PaymentMethod,
		PaidAmount:         payload.PaidAmount,
		PaymentChannel:     payload.PaymentChannel,
		PaymentDestination: payload.PaymentDestination,
		FailureReason:      payload.FailureReason,
	}, nil
}
