package repository

import (
	"context"
	"testing"
	"time"

	"vapemart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	createSchema(t, pool)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			account_type TEXT NOT NULL DEFAULT 'individual',
			order_count INTEGER NOT NULL DEFAULT 0,
			lifetime_spend BIGINT NOT NULL DEFAULT 0,
			referral_code TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS user_discounts (
			id UUID PRIMARY KEY,
			user_email TEXT NOT NULL REFERENCES users(email) ON DELETE CASCADE,
			code TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			amount BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_user_discounts_email_code ON user_discounts(user_email, code);

		CREATE TABLE IF NOT EXISTS referrals (
			id UUID PRIMARY KEY,
			code TEXT NOT NULL,
			referrer_email TEXT NOT NULL,
			referred_email TEXT NOT NULL,
			refer_availed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_referrals_code_referred ON referrals(code, referred_email);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			invoice_id TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			products JSONB NOT NULL DEFAULT '[]',
			sub_total BIGINT NOT NULL DEFAULT 0,
			discount JSONB,
			discount_total BIGINT NOT NULL DEFAULT 0,
			shipping_price BIGINT NOT NULL DEFAULT 0,
			total_price BIGINT NOT NULL DEFAULT 0,
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			status TEXT NOT NULL DEFAULT 'pending',
			shipping_info JSONB NOT NULL DEFAULT '{}',
			confirmation_sent BOOLEAN NOT NULL DEFAULT FALSE,
			confirmation_sent_error TEXT NOT NULL DEFAULT '',
			confirmation_sent_at TIMESTAMPTZ,
			payment_data JSONB,
			failure_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			paid_at TIMESTAMPTZ,
			expired_at TIMESTAMPTZ,
			failed_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_orders_payment_status_created ON orders(payment_status, created_at);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// newTestOrder builds a pending order with sensible defaults.
func newTestOrder() *model.Order {
	return &model.Order{
		ID:        uuid.New(),
		InvoiceID: "inv-" + uuid.NewString(),
		Email:     "customer@example.com",
		Name:      "Test Customer",
		Products: []model.OrderProduct{
			{ProductID: "EL-001", Name: "Strawberry Cloud 60ml", Quantity: 2, UnitPrice: 90000, LineTotal: 180000},
		},
		SubTotal:      180000,
		ShippingPrice: 15000,
		TotalPrice:    195000,
		PaymentStatus: model.PaymentPending,
		Status:        model.OrderPending,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	order.Discount = &model.Discount{
		ID:         uuid.New(),
		Code:       "WELCOME10",
		Type:       model.DiscountFirstOrder,
		Name:       "First order 10%",
		Percentage: 10,
	}
	order.DiscountTotal = 18000
	order.TotalPrice = 177000

	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.InvoiceID, got.InvoiceID)
	assert.Equal(t, order.Email, got.Email)
	assert.Equal(t, model.PaymentPending, got.PaymentStatus)
	assert.Equal(t, model.OrderPending, got.Status)
	assert.False(t, got.Paid)
	assert.Len(t, got.Products, 1)
	assert.Equal(t, int64(180000), got.SubTotal)
	assert.Equal(t, int64(177000), got.TotalPrice)
	require.NotNil(t, got.Discount)
	assert.Equal(t, "WELCOME10", got.Discount.Code)
	assert.False(t, got.EmailStatus.OrderConfirmationSent)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_GetByInvoiceID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.GetByInvoiceID(ctx, order.InvoiceID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.ID, got.ID)

	missing, err := repo.GetByInvoiceID(ctx, "inv-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_MarkPaid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	paidAt := time.Now().UTC().Truncate(time.Millisecond)
	data := &model.PaymentData{
		PaymentMethod:  "BANK_TRANSFER",
		PaidAmount:     order.TotalPrice,
		PaymentChannel: "BCA",
	}

	applied, err := repo.MarkPaid(ctx, order.ID, paidAt, data)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Paid)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, model.OrderConfirmed, got.Status)
	require.NotNil(t, got.PaidAt)
	require.NotNil(t, got.PaymentData)
	assert.Equal(t, "BANK_TRANSFER", got.PaymentData.PaymentMethod)
}

func TestOrderRepository_MarkPaid_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	applied, err := repo.MarkPaid(ctx, order.ID, time.Now(), nil)
	require.NoError(t, err)
	assert.True(t, applied)

	// A second delivery of the same event is a no-op.
	applied, err = repo.MarkPaid(ctx, order.ID, time.Now(), nil)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
}

func TestOrderRepository_TerminalStateGuardsConflictingEvents(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	applied, err := repo.MarkPaid(ctx, order.ID, time.Now(), nil)
	require.NoError(t, err)
	assert.True(t, applied)

	// A late FAILED after PAID must not overwrite the terminal state.
	applied, err = repo.MarkFailed(ctx, order.ID, time.Now(), "INSUFFICIENT_BALANCE")
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, model.OrderConfirmed, got.Status)
	assert.Empty(t, got.FailureReason)
}

func TestOrderRepository_MarkExpiredAndFailed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	expired := newTestOrder()
	require.NoError(t, repo.Create(ctx, expired))

	applied, err := repo.MarkExpired(ctx, expired.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentExpired, got.PaymentStatus)
	assert.Equal(t, model.OrderExpired, got.Status)
	require.NotNil(t, got.ExpiredAt)

	failed := newTestOrder()
	require.NoError(t, repo.Create(ctx, failed))

	applied, err = repo.MarkFailed(ctx, failed.ID, time.Now(), "CARD_DECLINED")
	require.NoError(t, err)
	assert.True(t, applied)

	got, err = repo.GetByID(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, model.OrderFailed, got.Status)
	assert.Equal(t, "CARD_DECLINED", got.FailureReason)
	require.NotNil(t, got.FailedAt)
}

func TestOrderRepository_ListPendingCreatedAfter(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	// Recent pending order with an invoice id: should be listed.
	recent := newTestOrder()
	require.NoError(t, repo.Create(ctx, recent))

	// Old pending order outside the lookback window: excluded.
	old := newTestOrder()
	old.CreatedAt = time.Now().AddDate(0, 0, -60)
	require.NoError(t, repo.Create(ctx, old))

	// Pending order without an invoice id: excluded.
	noInvoice := newTestOrder()
	noInvoice.InvoiceID = ""
	require.NoError(t, repo.Create(ctx, noInvoice))

	// Already-paid order: excluded.
	paid := newTestOrder()
	require.NoError(t, repo.Create(ctx, paid))
	_, err := repo.MarkPaid(ctx, paid.ID, time.Now(), nil)
	require.NoError(t, err)

	cutoff := time.Now().AddDate(0, 0, -30)
	orders, err := repo.ListPendingCreatedAfter(ctx, cutoff)
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, recent.ID, orders[0].ID)
}

func TestOrderRepository_UpdateEmailStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, repo.Create(ctx, order))

	sentAt := time.Now().UTC().Truncate(time.Millisecond)
	err := repo.UpdateEmailStatus(ctx, order.ID, model.EmailStatus{
		OrderConfirmationSent: true,
		SentAt:                &sentAt,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailStatus.OrderConfirmationSent)
	assert.Empty(t, got.EmailStatus.OrderConfirmationSentError)
	require.NotNil(t, got.EmailStatus.SentAt)
}
