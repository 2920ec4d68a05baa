package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vapemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `
	id, invoice_id, email, name, products, sub_total, discount, discount_total,
	shipping_price, total_price, paid, payment_status, status, shipping_info,
	confirmation_sent, confirmation_sent_error, confirmation_sent_at,
	payment_data, failure_reason, created_at, paid_at, expired_at, failed_at
`

// Create persists a new pending order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	products, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal order products: %w", err)
	}

	shippingInfo, err := json.Marshal(order.ShippingInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping info: %w", err)
	}

	var discount []byte
	if order.Discount != nil {
		discount, err = json.Marshal(order.Discount)
		if err != nil {
			return fmt.Errorf("failed to marshal discount: %w", err)
		}
	}

	query := `
		INSERT INTO orders (
			id, invoice_id, email, name, products, sub_total, discount,
			discount_total, shipping_price, total_price, paid, payment_status,
			status, shipping_info, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.pool.Exec(ctx, query,
		order.ID,
		order.InvoiceID,
		order.Email,
		order.Name,
		products,
		order.SubTotal,
		discount,
		order.DiscountTotal,
		order.ShippingPrice,
		order.TotalPrice,
		order.Paid,
		order.PaymentStatus,
		order.Status,
		shippingInfo,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("invoice_id", order.InvoiceID).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its internal id.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// GetByInvoiceID retrieves an order by the gateway invoice id.
func (r *orderRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE invoice_id = $1`

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("invoice_id", invoiceID).Msg("order not found for invoice")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("failed to query order by invoice")
		return nil, fmt.Errorf("failed to query order by invoice id: %w", err)
	}

	return order, nil
}

// MarkPaid transitions a pending order to confirmed/paid. The WHERE guard on
// payment_status makes the transition a no-op once the order is terminal.
func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, data *model.PaymentData) (bool, error) {
	var paymentData []byte
	if data != nil {
		var err error
		paymentData, err = json.Marshal(data)
		if err != nil {
			return false, fmt.Errorf("failed to marshal payment data: %w", err)
		}
	}

	query := `
		UPDATE orders
		SET paid = TRUE,
		    payment_status = $2,
		    status = $3,
		    paid_at = $4,
		    payment_data = $5
		WHERE id = $1 AND payment_status = $6
	`

	tag, err := r.pool.Exec(ctx, query, id, model.PaymentPaid, model.OrderConfirmed, paidAt, paymentData, model.PaymentPending)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	applied := tag.RowsAffected() > 0
	r.logger.Debug().
		Str("order_id", id.String()).
		Bool("applied", applied).
		Msg("paid transition attempted")

	return applied, nil
}

// MarkExpired transitions a pending order to expired.
func (r *orderRepository) MarkExpired(ctx context.Context, id uuid.UUID, expiredAt time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET payment_status = $2,
		    status = $3,
		    expired_at = $4
		WHERE id = $1 AND payment_status = $5
	`

	tag, err := r.pool.Exec(ctx, query, id, model.PaymentExpired, model.OrderExpired, expiredAt, model.PaymentPending)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order expired")
		return false, fmt.Errorf("failed to mark order expired: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkFailed transitions a pending order to failed.
func (r *orderRepository) MarkFailed(ctx context.Context, id uuid.UUID, failedAt time.Time, reason string) (bool, error) {
	query := `
		UPDATE orders
		SET payment_status = $2,
		    status = $3,
		    failed_at = $4,
		    failure_reason = $5
		WHERE id = $1 AND payment_status = $6
	`

	tag, err := r.pool.Exec(ctx, query, id, model.PaymentFailed, model.OrderFailed, failedAt, reason, model.PaymentPending)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order failed")
		return false, fmt.Errorf("failed to mark order failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListPendingCreatedAfter returns pending orders with an invoice id created
// after the cutoff, oldest first.
func (r *orderRepository) ListPendingCreatedAfter(ctx context.Context, cutoff time.Time) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_status = $1 AND invoice_id <> '' AND created_at >= $2
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, model.PaymentPending, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query pending orders")
		return nil, fmt.Errorf("failed to query pending orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan pending order row")
			return nil, fmt.Errorf("failed to scan pending order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating pending order rows")
		return nil, fmt.Errorf("error iterating pending orders: %w", err)
	}

	return orders, nil
}

// UpdateEmailStatus records the outcome of a confirmation email attempt.
func (r *orderRepository) UpdateEmailStatus(ctx context.Context, id uuid.UUID, status model.EmailStatus) error {
	query := `
		UPDATE orders
		SET confirmation_sent = $2,
		    confirmation_sent_error = $3,
		    confirmation_sent_at = $4
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, status.OrderConfirmationSent, status.OrderConfirmationSentError, status.SentAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update email status")
		return fmt.Errorf("failed to update email status: %w", err)
	}

	return nil
}

// scanOrder scans a single order row in orderColumns order.
func (r *orderRepository) scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order        model.Order
		products     []byte
		discount     []byte
		shippingInfo []byte
		paymentData  []byte
	)

	err := row.Scan(
		&order.ID,
		&order.InvoiceID,
		&order.Email,
		&order.Name,
		&products,
		&order.SubTotal,
		&discount,
		&order.DiscountTotal,
		&order.ShippingPrice,
		&order.TotalPrice,
		&order.Paid,
		&order.PaymentStatus,
		&order.Status,
		&shippingInfo,
		&order.EmailStatus.OrderConfirmationSent,
		&order.EmailStatus.OrderConfirmationSentError,
		&order.EmailStatus.SentAt,
		&paymentData,
		&order.FailureReason,
		&order.CreatedAt,
		&order.PaidAt,
		&order.ExpiredAt,
		&order.FailedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(products) > 0 {
		if err := json.Unmarshal(products, &order.Products); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order products: %w", err)
		}
	}
	if len(discount) > 0 {
		order.Discount = &model.Discount{}
		if err := json.Unmarshal(discount, order.Discount); err != nil {
			return nil, fmt.Errorf("failed to unmarshal discount: %w", err)
		}
	}
	if len(shippingInfo) > 0 {
		if err := json.Unmarshal(shippingInfo, &order.ShippingInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping info: %w", err)
		}
	}
	if len(paymentData) > 0 {
		order.PaymentData = &model.PaymentData{}
		if err := json.Unmarshal(paymentData, order.PaymentData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment data: %w", err)
		}
	}

	return &order, nil
}
