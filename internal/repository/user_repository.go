package repository

import (
	"context"
	"fmt"

	"vapemart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT email, name, account_type, order_count, lifetime_spend, referral_code, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.Email,
		&user.Name,
		&user.AccountType,
		&user.OrderCount,
		&user.LifetimeSpend,
		&user.ReferralCode,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("email", email).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("email", email).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// SetReferralCode stores a generated referral code for a user. The unique
// index on referral_code surfaces collisions as an error.
func (r *userRepository) SetReferralCode(ctx context.Context, email, code string) error {
	query := `UPDATE users SET referral_code = $2 WHERE email = $1`

	tag, err := r.pool.Exec(ctx, query, email, code)
	if err != nil {
		r.logger.Error().Err(err).Str("email", email).Msg("failed to set referral code")
		return fmt.Errorf("failed to set referral code: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	r.logger.Debug().Str("email", email).Msg("referral code stored")

	return nil
}

// GetDiscount retrieves one of the user's available discounts by code.
func (r *userRepository) GetDiscount(ctx context.Context, email, code string) (*model.Discount, error) {
	query := `
		SELECT id, code, type, name, percentage, amount
		FROM user_discounts
		WHERE user_email = $1 AND code = $2
		ORDER BY created_at
		LIMIT 1
	`

	var discount model.Discount
	err := r.pool.QueryRow(ctx, query, email, code).Scan(
		&discount.ID,
		&discount.Code,
		&discount.Type,
		&discount.Name,
		&discount.Percentage,
		&discount.Amount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().
				Str("email", email).
				Str("code", code).
				Msg("discount not found for user")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("email", email).Msg("failed to query discount")
		return nil, fmt.Errorf("failed to query discount: %w", err)
	}

	return &discount, nil
}

// RemoveDiscount removes exactly one matching discount from the user's
// available list.
func (r *userRepository) RemoveDiscount(ctx context.Context, email, code string) (bool, error) {
	query := `
		DELETE FROM user_discounts
		WHERE id = (
			SELECT id FROM user_discounts
			WHERE user_email = $1 AND code = $2
			ORDER BY created_at
			LIMIT 1
		)
	`

	tag, err := r.pool.Exec(ctx, query, email, code)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("email", email).
			Str("code", code).
			Msg("failed to remove discount")
		return false, fmt.Errorf("failed to remove discount: %w", err)
	}

	removed := tag.RowsAffected() > 0
	r.logger.Debug().
		Str("email", email).
		Str("code", code).
		Bool("removed", removed).
		Msg("discount removal attempted")

	return removed, nil
}

// RecordPaidOrder additively updates order count and lifetime spend.
func (r *userRepository) RecordPaidOrder(ctx context.Context, email string, amount int64) error {
	query := `
		UPDATE users
		SET order_count = order_count + 1,
		    lifetime_spend = lifetime_spend + $2
		WHERE email = $1
	`

	_, err := r.pool.Exec(ctx, query, email, amount)
	if err != nil {
		r.logger.Error().Err(err).Str("email", email).Msg("failed to record paid order")
		return fmt.Errorf("failed to record paid order: %w", err)
	}

	return nil
}
