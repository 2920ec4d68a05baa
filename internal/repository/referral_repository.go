package repository

import (
	"context"
	"fmt"

	"vapemart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// referralRepository implements the ReferralRepository interface using PostgreSQL.
type referralRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReferralRepository creates a new PostgreSQL-backed referral repository.
func NewReferralRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReferralRepository {
	return &referralRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "referral").Logger(),
	}
}

// Create persists a new referral link.
func (r *referralRepository) Create(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (id, code, referrer_email, referred_email, refer_availed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		referral.ID,
		referral.Code,
		referral.ReferrerEmail,
		referral.ReferredEmail,
		referral.ReferAvailed,
		referral.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("code", referral.Code).
			Msg("failed to create referral")
		return fmt.Errorf("failed to create referral: %w", err)
	}

	return nil
}

// GetByCode retrieves referrals issued under a code.
func (r *referralRepository) GetByCode(ctx context.Context, code string) ([]model.Referral, error) {
	query := `
		SELECT id, code, referrer_email, referred_email, refer_availed, created_at
		FROM referrals
		WHERE code = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query referrals")
		return nil, fmt.Errorf("failed to query referrals: %w", err)
	}
	defer rows.Close()

	var referrals []model.Referral
	for rows.Next() {
		var referral model.Referral
		err := rows.Scan(
			&referral.ID,
			&referral.Code,
			&referral.ReferrerEmail,
			&referral.ReferredEmail,
			&referral.ReferAvailed,
			&referral.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan referral row")
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		referrals = append(referrals, referral)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating referral rows")
		return nil, fmt.Errorf("error iterating referrals: %w", err)
	}

	return referrals, nil
}

// MarkAvailed flips refer_availed for the referral matching both code and
// referred email.
func (r *referralRepository) MarkAvailed(ctx context.Context, code, referredEmail string) (bool, error) {
	query := `
		UPDATE referrals
		SET refer_availed = TRUE
		WHERE code = $1 AND referred_email = $2 AND refer_availed = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, code, referredEmail)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("code", code).
			Str("referred_email", referredEmail).
			Msg("failed to mark referral availed")
		return false, fmt.Errorf("failed to mark referral availed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
