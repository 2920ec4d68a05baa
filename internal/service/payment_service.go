package service

import (
	"context"
	"fmt"
	"time"

	"vapemart/internal/gateway"
	"vapemart/internal/mailer"
	"vapemart/internal/model"
	"vapemart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService. Transitions are applied through
// the order repository's conditional updates, so concurrent webhook
// deliveries and reconciliation sweeps race safely: exactly one caller wins
// the transition, everyone else observes a no-op.
type paymentService struct {
	orderRepo  repository.OrderRepository
	userRepo   repository.UserRepository
	dispatcher mailer.Dispatcher
	logger     zerolog.Logger
}

// NewPaymentService creates a new payment transition service.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	dispatcher mailer.Dispatcher,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "payment").Logger(),
	}
}

// EventFromWebhook converts a webhook payload into a payment event. The
// payload's external_id carries our order id.
func EventFromWebhook(payload model.WebhookPayload) (PaymentEvent, error) {
	orderID, err := uuid.Parse(payload.ExternalID)
	if err != nil {
		return PaymentEvent{}, model.NewDomainError(model.ErrCodeValidation,
			fmt.Sprintf("external_id is not a valid order id: %s", payload.ExternalID))
	}

	event := PaymentEvent{
		OrderID:       orderID,
		Status:        gateway.ParseInvoiceStatus(payload.Status),
		FailureReason: payload.FailureReason,
	}

	if event.Status == gateway.StatusPaid || event.Status == gateway.StatusSettled {
		event.PaymentData = &model.PaymentData{
			PaymentMethod:      payload.PaymentMethod,
			PaidAmount:         payload.PaidAmount,
			PaymentChannel:     payload.PaymentChannel,
			PaymentDestination: payload.PaymentDestination,
		}
	}

	return event, nil
}

// EventFromInvoice converts a polled invoice into a payment event.
func EventFromInvoice(orderID uuid.UUID, invoice *gateway.Invoice) PaymentEvent {
	event := PaymentEvent{
		OrderID:       orderID,
		Status:        invoice.Status,
		FailureReason: invoice.FailureReason,
	}

	if invoice.Status == gateway.StatusPaid || invoice.Status == gateway.StatusSettled {
		event.PaymentData = &model.PaymentData{
			PaymentMethod:      invoice.PaymentMethod,
			PaidAmount:         invoice.PaidAmount,
			PaymentChannel:     invoice.PaymentChannel,
			PaymentDestination: invoice.PaymentDestination,
		}
	}

	return event
}

// ApplyStatus applies a gateway-reported status to an order.
func (s *paymentService) ApplyStatus(ctx context.Context, event PaymentEvent) (ApplyResult, error) {
	now := time.Now().UTC()

	switch event.Status {
	case gateway.StatusPaid, gateway.StatusSettled:
		return s.applyPaid(ctx, event, now)

	case gateway.StatusExpired:
		applied, err := s.orderRepo.MarkExpired(ctx, event.OrderID, now)
		if err != nil {
			return ApplyResult{}, err
		}
		s.logTransition(event.OrderID, "expired", applied)
		return ApplyResult{Applied: applied}, nil

	case gateway.StatusFailed:
		applied, err := s.orderRepo.MarkFailed(ctx, event.OrderID, now, event.FailureReason)
		if err != nil {
			return ApplyResult{}, err
		}
		s.logTransition(event.OrderID, "failed", applied)
		return ApplyResult{Applied: applied}, nil

	default:
		// Forward-compatible with gateway additions: unknown and
		// non-terminal statuses are logged and ignored.
		s.logger.Info().
			Str("order_id", event.OrderID.String()).
			Str("status", string(event.Status)).
			Msg("ignoring non-terminal payment status")
		return ApplyResult{}, nil
	}
}

// applyPaid performs the pending → confirmed transition with its side
// effects: user spend bookkeeping and the confirmation email.
func (s *paymentService) applyPaid(ctx context.Context, event PaymentEvent, now time.Time) (ApplyResult, error) {
	applied, err := s.orderRepo.MarkPaid(ctx, event.OrderID, now, event.PaymentData)
	if err != nil {
		return ApplyResult{}, err
	}
	s.logTransition(event.OrderID, "paid", applied)

	if !applied {
		// Already terminal: the caller that won the transition owns the
		// side effects.
		return ApplyResult{}, nil
	}

	// The transition is durably recorded before any side effect runs.
	order, err := s.orderRepo.GetByID(ctx, event.OrderID)
	if err != nil {
		return ApplyResult{Applied: true}, fmt.Errorf("failed to load order after paid transition: %w", err)
	}
	if order == nil {
		return ApplyResult{Applied: true}, model.ErrOrderNotFound
	}

	if err := s.userRepo.RecordPaidOrder(ctx, order.Email, order.TotalPrice); err != nil {
		// Derived bookkeeping only; the order itself is already confirmed.
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("email", order.Email).
			Msg("failed to record paid order on user account")
	}

	emailSent := s.sendConfirmation(ctx, order)

	return ApplyResult{Applied: true, EmailSent: emailSent}, nil
}

// sendConfirmation dispatches the order confirmation email unless one was
// already sent, recording the outcome on the order. Email failures are
// recorded and logged, never returned: the transition has already happened
// and the gateway expects a fast acknowledgment.
func (s *paymentService) sendConfirmation(ctx context.Context, order *model.Order) bool {
	if order.EmailStatus.OrderConfirmationSent {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Msg("confirmation email already sent, skipping")
		return false
	}

	sentAt := time.Now().UTC()
	if err := s.dispatcher.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("email", order.Email).
			Msg("failed to send order confirmation email")

		status := model.EmailStatus{OrderConfirmationSentError: err.Error()}
		if updateErr := s.orderRepo.UpdateEmailStatus(ctx, order.ID, status); updateErr != nil {
			s.logger.Error().
				Err(updateErr).
				Str("order_id", order.ID.String()).
				Msg("failed to record email error on order")
		}
		return false
	}

	status := model.EmailStatus{OrderConfirmationSent: true, SentAt: &sentAt}
	if err := s.orderRepo.UpdateEmailStatus(ctx, order.ID, status); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to record email status on order")
	}

	return true
}

func (s *paymentService) logTransition(orderID uuid.UUID, target string, applied bool) {
	if applied {
		s.logger.Info().
			Str("order_id", orderID.String()).
			Str("target", target).
			Msg("payment transition applied")
		return
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("target", target).
		Msg("order already terminal, transition skipped")
}
