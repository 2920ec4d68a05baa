// Package ledger tracks per-user discounts and referral codes. Its write
// operations are best-effort from the checkout pipeline's point of view:
// callers log failures and carry on with the order.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vapemart/internal/model"
	"vapemart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// referral codes are derived from a uuid; 10 hex chars is comfortably large
// for a storefront and the unique index catches the residual collision risk.
const (
	codePrefix      = "VM-"
	codeLength      = 10
	maxCodeAttempts = 5
)

// Ledger defines the discount/referral bookkeeping operations.
type Ledger interface {
	// IssueReferralCode returns the user's referral code, generating and
	// persisting one the first time. Idempotent: repeat calls return the
	// same code.
	IssueReferralCode(ctx context.Context, email string) (string, error)

	// RegisterReferral records that a referral code was shared with an
	// email address.
	RegisterReferral(ctx context.Context, code, referrerEmail, referredEmail string) error

	// ConsumeDiscount removes one matching discount from the user's
	// available list. Missing discounts are a silent no-op.
	ConsumeDiscount(ctx context.Context, email, code string) error

	// MarkReferralAvailed flips the availed flag for the referral matching
	// both code and referred email. Missing referrals are a silent no-op.
	MarkReferralAvailed(ctx context.Context, code, referredEmail string) error
}

// ledger implements Ledger over the user and referral repositories.
type ledger struct {
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
	logger       zerolog.Logger
}

// New creates a discount/referral ledger.
func New(userRepo repository.UserRepository, referralRepo repository.ReferralRepository, logger zerolog.Logger) Ledger {
	return &ledger{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		logger:       logger.With().Str("service", "ledger").Logger(),
	}
}

// IssueReferralCode returns the user's referral code, generating one on
// first use.
func (l *ledger) IssueReferralCode(ctx context.Context, email string) (string, error) {
	user, err := l.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to load user for referral code: %w", err)
	}
	if user == nil {
		return "", model.ErrUserNotFound
	}

	if user.ReferralCode != nil && *user.ReferralCode != "" {
		l.logger.Debug().
			Str("email", email).
			Msg("referral code already issued")
		return *user.ReferralCode, nil
	}

	// The unique index on users.referral_code rejects a collision; retry
	// with a fresh code a few times before giving up.
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCode()
		if err := l.userRepo.SetReferralCode(ctx, email, code); err != nil {
			lastErr = err
			l.logger.Warn().
				Err(err).
				Str("email", email).
				Int("attempt", attempt+1).
				Msg("failed to store referral code, retrying")
			continue
		}

		l.logger.Info().
			Str("email", email).
			Str("code", code).
			Msg("referral code issued")

		return code, nil
	}

	return "", fmt.Errorf("failed to issue referral code after %d attempts: %w", maxCodeAttempts, lastErr)
}

// RegisterReferral records that a referral code was shared with an email.
func (l *ledger) RegisterReferral(ctx context.Context, code, referrerEmail, referredEmail string) error {
	referral := &model.Referral{
		ID:            uuid.New(),
		Code:          code,
		ReferrerEmail: referrerEmail,
		ReferredEmail: referredEmail,
		CreatedAt:     time.Now().UTC(),
	}

	if err := l.referralRepo.Create(ctx, referral); err != nil {
		return fmt.Errorf("failed to register referral: %w", err)
	}

	return nil
}

// ConsumeDiscount removes one matching discount from the user's available list.
func (l *ledger) ConsumeDiscount(ctx context.Context, email, code string) error {
	removed, err := l.userRepo.RemoveDiscount(ctx, email, code)
	if err != nil {
		return fmt.Errorf("failed to consume discount: %w", err)
	}

	if !removed {
		l.logger.Debug().
			Str("email", email).
			Str("code", code).
			Msg("discount not found, nothing consumed")
		return nil
	}

	l.logger.Info().
		Str("email", email).
		Str("code", code).
		Msg("discount consumed")

	return nil
}

// MarkReferralAvailed flips the availed flag for a (code, referredEmail) pair.
func (l *ledger) MarkReferralAvailed(ctx context.Context, code, referredEmail string) error {
	matched, err := l.referralRepo.MarkAvailed(ctx, code, referredEmail)
	if err != nil {
		return fmt.Errorf("failed to mark referral availed: %w", err)
	}

	if !matched {
		l.logger.Debug().
			Str("code", code).
			Str("referred_email", referredEmail).
			Msg("no matching referral, nothing marked")
		return nil
	}

	l.logger.Info().
		Str("code", code).
		Str("referred_email", referredEmail).
		Msg("referral marked availed")

	return nil
}

// generateCode derives a referral code from a fresh uuid.
func generateCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return codePrefix + raw[:codeLength]
}
