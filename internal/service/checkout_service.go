package service

import (
	"context"
	"fmt"
	"time"

	"vapemart/internal/ledger"
	"vapemart/internal/model"
	"vapemart/internal/pricing"
	"vapemart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	ledger    ledger.Ledger
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	ledger ledger.Ledger,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		ledger:    ledger,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// CreateOrder prices the cart, persists a pending order and consumes any
// applied discount code.
func (s *checkoutService) CreateOrder(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	// Resolve the purchasing tier. Guest checkout prices as individual.
	tier := model.TierIndividual
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("failed to resolve user tier")
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if user != nil {
		tier = user.AccountType
	}

	// Resolve the discount descriptor from the user's available list. A
	// code the user does not hold prices the cart without a discount
	// rather than failing the checkout.
	var discount *model.Discount
	if req.DiscountCode != nil && *req.DiscountCode != "" && user != nil {
		discount, err = s.userRepo.GetDiscount(ctx, req.Email, *req.DiscountCode)
		if err != nil {
			s.logger.Error().Err(err).Str("email", req.Email).Msg("failed to resolve discount")
			return nil, fmt.Errorf("failed to resolve discount: %w", err)
		}
		if discount == nil {
			s.logger.Warn().
				Str("email", req.Email).
				Str("code", *req.DiscountCode).
				Msg("discount code not available for user, pricing without discount")
		}
	}

	quote := pricing.Quote(req.Items, tier, discount)

	products := make([]model.OrderProduct, len(req.Items))
	for i, item := range req.Items {
		unit := pricing.UnitPrice(item, tier)
		products[i] = model.OrderProduct{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: unit * int64(item.Quantity),
		}
	}

	order := &model.Order{
		ID:            uuid.New(),
		InvoiceID:     req.InvoiceID,
		Email:         req.Email,
		Name:          req.Name,
		Products:      products,
		SubTotal:      quote.Original,
		Discount:      discount,
		DiscountTotal: quote.Discount,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    quote.Total + req.ShippingPrice,
		PaymentStatus: model.PaymentPending,
		Status:        model.OrderPending,
		ShippingInfo:  req.ShippingInfo,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Discount bookkeeping happens only after the order is durably
	// persisted, and only for earned discount types. Failures here are
	// best-effort: the customer's order already exists.
	if discount != nil && (discount.Type == model.DiscountFirstOrder || discount.Type == model.DiscountReferral) {
		if err := s.ledger.ConsumeDiscount(ctx, req.Email, discount.Code); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("code", discount.Code).
				Msg("failed to consume discount after order creation")
		}

		if discount.Type == model.DiscountReferral {
			if err := s.ledger.MarkReferralAvailed(ctx, discount.Code, req.Email); err != nil {
				s.logger.Warn().
					Err(err).
					Str("order_id", order.ID.String()).
					Str("code", discount.Code).
					Msg("failed to mark referral availed")
			}
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("invoice_id", order.InvoiceID).
		Int64("total_price", order.TotalPrice).
		Int("item_count", len(products)).
		Msg("order created successfully")

	return order, nil
}

// GetOrder retrieves an order by id.
func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// validateCheckoutRequest validates the checkout request.
func (s *checkoutService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "checkout request is nil")
	}

	if req.Email == "" {
		return model.NewDomainError(model.ErrCodeValidation, "email is required")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	if req.ShippingPrice < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "shipping price cannot be negative")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeValidation,
				fmt.Sprintf("item %d: product ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}

		if item.Price < 0 {
			return model.NewDomainError(model.ErrCodeValidation,
				fmt.Sprintf("item %d: price cannot be negative", i))
		}
	}

	return nil
}
