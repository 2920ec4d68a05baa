package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vapemart/internal/model"

	"github.com/rs/zerolog"
)

// Config holds the email API settings.
type Config struct {
	BaseURL                string
	APIKey                 string
	SenderEmail            string
	SenderName             string
	ConfirmationTemplateID int
	CartAbandonTemplateID  int
	SiteAbandonTemplateID  int
	Timeout                time.Duration
}

// httpDispatcher implements Dispatcher against the transactional email API.
type httpDispatcher struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// NewDispatcher creates an email dispatcher.
func NewDispatcher(cfg Config, logger zerolog.Logger) Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpDispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// recipient is a single to-address in the email API payload.
type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// emailRequest is the transactional email API payload.
type emailRequest struct {
	To         []recipient    `json:"to"`
	TemplateID int            `json:"templateId"`
	Params     map[string]any `json:"params"`
}

// SendOrderConfirmation sends the order confirmation template for a paid order.
func (d *httpDispatcher) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	items := make([]map[string]any, len(order.Products))
	for i, p := range order.Products {
		items[i] = map[string]any{
			"name":      p.Name,
			"quantity":  p.Quantity,
			"unitPrice": p.UnitPrice,
			"lineTotal": p.LineTotal,
		}
	}

	params := map[string]any{
		"orderId":       order.ID.String(),
		"name":          order.Name,
		"items":         items,
		"subTotal":      order.SubTotal,
		"discount":      order.DiscountTotal,
		"shippingPrice": order.ShippingPrice,
		"totalPrice":    order.TotalPrice,
	}
	if order.Discount != nil {
		params["discountName"] = order.Discount.Name
	}

	payload := emailRequest{
		To:         []recipient{{Email: order.Email, Name: order.Name}},
		TemplateID: d.cfg.ConfirmationTemplateID,
		Params:     params,
	}

	if err := d.post(ctx, payload); err != nil {
		return err
	}

	d.logger.Info().
		Str("order_id", order.ID.String()).
		Str("email", order.Email).
		Msg("order confirmation email sent")

	return nil
}

// SendAbandonmentEmail sends a cart or website abandonment template.
func (d *httpDispatcher) SendAbandonmentEmail(ctx context.Context, req model.AbandonmentRequest) error {
	if err := ValidateAbandonmentRequest(req); err != nil {
		return err
	}

	templateID := d.cfg.CartAbandonTemplateID
	if req.Type == model.WebsiteAbandonment {
		templateID = d.cfg.SiteAbandonTemplateID
	}

	payload := emailRequest{
		To:         []recipient{{Email: req.Email, Name: req.Name}},
		TemplateID: templateID,
		Params: map[string]any{
			"name": req.Name,
			"type": string(req.Type),
		},
	}

	if err := d.post(ctx, payload); err != nil {
		return err
	}

	d.logger.Info().
		Str("email", req.Email).
		Str("type", string(req.Type)).
		Msg("abandonment email sent")

	return nil
}

// post sends a payload to the email API, turning any non-2xx response into
// an EMAIL_GATEWAY_ERROR carrying the response body for diagnosis.
func (d *httpDispatcher) post(ctx context.Context, payload emailRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	url := d.cfg.BaseURL + "/v3/smtp/email"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", d.cfg.APIKey)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn().Err(err).Msg("email request failed")
		return fmt.Errorf("%w: %v", model.NewDomainError(model.ErrCodeEmailGateway, "email gateway unreachable"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		d.logger.Warn().
			Int("status", resp.StatusCode).
			Str("body", string(respBody)).
			Msg("email gateway rejected request")
		return model.NewDomainError(model.ErrCodeEmailGateway,
			fmt.Sprintf("email gateway returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	return nil
}
