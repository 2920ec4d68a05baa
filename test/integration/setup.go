package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

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
		CREATE INDEX IF NOT EXISTS idx_orders_invoice_id ON orders(invoice_id);
		CREATE INDEX IF NOT EXISTS idx_orders_payment_status_created ON orders(payment_status, created_at);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedUsers inserts test user data into the database.
func SeedUsers(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	users := []struct {
		email       string
		name        string
		accountType string
	}{
		{"buyer@example.com", "Test Buyer", "individual"},
		{"shop@example.com", "Test Reseller", "business"},
	}

	for _, u := range users {
		_, err := pool.Exec(ctx,
			"INSERT INTO users (email, name, account_type) VALUES ($1, $2, $3)",
			u.email, u.name, u.accountType,
		)
		if err != nil {
			t.Fatalf("failed to seed user %s: %v", u.email, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"orders", "user_discounts", "referrals", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
