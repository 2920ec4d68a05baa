package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vapemart/internal/gateway"
	"vapemart/internal/model"
	"vapemart/internal/report"
	"vapemart/internal/repository"

	"github.com/rs/zerolog"
)

// ReconcileConfig holds reconciliation sweep settings.
type ReconcileConfig struct {
	// LookbackWindow bounds how far back pending orders are re-checked.
	LookbackWindow time.Duration

	// Concurrency is the number of parallel gateway lookups.
	Concurrency int
}

// DefaultReconcileConfig returns the default sweep settings.
func DefaultReconcileConfig() ReconcileConfig {
	return ReconcileConfig{
		LookbackWindow: 30 * 24 * time.Hour,
		Concurrency:    4,
	}
}

// reconcileService implements ReconcileService. It is the safety net for
// missed webhooks: the same transitions, driven by polling instead of a
// callback.
type reconcileService struct {
	orderRepo repository.OrderRepository
	gateway   gateway.Client
	payments  PaymentService
	archiver  report.Archiver
	cfg       ReconcileConfig
	logger    zerolog.Logger
}

// NewReconcileService creates a new reconciliation service. The archiver is
// optional; pass nil to skip report archiving.
func NewReconcileService(
	orderRepo repository.OrderRepository,
	gatewayClient gateway.Client,
	payments PaymentService,
	archiver report.Archiver,
	cfg ReconcileConfig,
	logger zerolog.Logger,
) ReconcileService {
	if cfg.LookbackWindow <= 0 {
		cfg.LookbackWindow = DefaultReconcileConfig().LookbackWindow
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultReconcileConfig().Concurrency
	}

	return &reconcileService{
		orderRepo: orderRepo,
		gateway:   gatewayClient,
		payments:  payments,
		archiver:  archiver,
		cfg:       cfg,
		logger:    logger.With().Str("service", "reconcile").Logger(),
	}
}

// orderResult is the outcome of re-checking a single order.
type orderResult struct {
	paid      bool
	emailSent bool
	err       error
}

// Run sweeps pending orders inside the lookback window.
func (s *reconcileService) Run(ctx context.Context) (model.ReconcileStats, error) {
	ranAt := time.Now().UTC()
	cutoff := ranAt.Add(-s.cfg.LookbackWindow)

	stats := model.ReconcileStats{Errors: []string{}}

	orders, err := s.orderRepo.ListPendingCreatedAfter(ctx, cutoff)
	if err != nil {
		return stats, fmt.Errorf("failed to list pending orders: %w", err)
	}

	stats.TotalOrdersChecked = len(orders)

	s.logger.Info().
		Int("pending_orders", len(orders)).
		Time("cutoff", cutoff).
		Msg("reconciliation sweep started")

	// Bounded worker pool: per-order gateway lookups run in parallel but
	// never more than Concurrency at a time.
	jobs := make(chan model.Order)
	results := make(chan orderResult)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for order := range jobs {
				results <- s.checkOrder(ctx, order)
			}
		}()
	}

	go func() {
		for _, order := range orders {
			jobs <- order
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.err != nil {
			stats.Errors = append(stats.Errors, result.err.Error())
			continue
		}
		if result.paid {
			stats.PaidOrdersFound++
		}
		if result.emailSent {
			stats.EmailsSent++
		}
	}

	s.logger.Info().
		Int("checked", stats.TotalOrdersChecked).
		Int("paid_found", stats.PaidOrdersFound).
		Int("emails_sent", stats.EmailsSent).
		Int("errors", len(stats.Errors)).
		Msg("reconciliation sweep completed")

	s.archive(ctx, ranAt, stats)

	return stats, nil
}

// checkOrder polls the gateway for one order and applies any terminal
// status it reports. Transport and API failures are returned as per-order
// errors; they never abort the sweep.
func (s *reconcileService) checkOrder(ctx context.Context, order model.Order) orderResult {
	invoice, err := s.gateway.GetInvoice(ctx, order.InvoiceID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("invoice_id", order.InvoiceID).
			Msg("skipping order, gateway lookup failed")
		return orderResult{err: fmt.Errorf("order %s: %v", order.ID, err)}
	}

	if !invoice.Status.Terminal() {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("status", string(invoice.Status)).
			Msg("invoice still pending")
		return orderResult{}
	}

	result, err := s.payments.ApplyStatus(ctx, EventFromInvoice(order.ID, invoice))
	if err != nil {
		return orderResult{err: fmt.Errorf("order %s: %v", order.ID, err)}
	}

	paid := result.Applied && (invoice.Status == gateway.StatusPaid || invoice.Status == gateway.StatusSettled)

	return orderResult{paid: paid, emailSent: result.EmailSent}
}

// archive stores the sweep report, best-effort.
func (s *reconcileService) archive(ctx context.Context, ranAt time.Time, stats model.ReconcileStats) {
	if s.archiver == nil {
		return
	}

	rep := report.SweepReport{RanAt: ranAt, Stats: stats}
	if err := s.archiver.Store(ctx, rep); err != nil {
		s.logger.Warn().Err(err).Msg("failed to archive sweep report")
	}
}
