package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vapemart/internal/config"
	"vapemart/internal/database"
	"vapemart/internal/gateway"
	"vapemart/internal/handler"
	"vapemart/internal/ledger"
	"vapemart/internal/mailer"
	"vapemart/internal/report"
	"vapemart/internal/repository"
	"vapemart/internal/router"
	"vapemart/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting vapemart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	referralRepo := repository.NewReferralRepository(pool, logger)

	// Initialize payment gateway client
	gatewayClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.SecretKey, cfg.Gateway.Timeout(), logger)

	// Initialize transactional email dispatcher
	dispatcher := mailer.NewDispatcher(mailer.Config{
		BaseURL:                cfg.Email.BaseURL,
		APIKey:                 cfg.Email.APIKey,
		SenderEmail:            cfg.Email.SenderEmail,
		SenderName:             cfg.Email.SenderName,
		ConfirmationTemplateID: cfg.Email.ConfirmationTemplateID,
		CartAbandonTemplateID:  cfg.Email.CartAbandonTemplateID,
		SiteAbandonTemplateID:  cfg.Email.SiteAbandonTemplateID,
		Timeout:                cfg.Email.Timeout(),
	}, logger)

	// Initialize sweep report archiver with S3 and local fallback
	fileArchiver := report.NewFileArchiver(cfg.Report.LocalDir, logger)
	var archiver report.Archiver

	if cfg.Report.S3Enabled {
		s3Archiver, err := report.NewS3Archiver(ctx, cfg.Report.Bucket, cfg.Report.Region, cfg.Report.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 archiver, falling back to local file system only")
			archiver = fileArchiver
		} else {
			archiver = report.NewFallbackArchiver(s3Archiver, fileArchiver, true, logger)
		}
	} else {
		archiver = fileArchiver
		logger.Info().Msg("using local file system for sweep reports (S3 disabled)")
	}

	// Initialize services
	discountLedger := ledger.New(userRepo, referralRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, userRepo, discountLedger, logger)
	paymentService := service.NewPaymentService(orderRepo, userRepo, dispatcher, logger)
	reconcileService := service.NewReconcileService(orderRepo, gatewayClient, paymentService, archiver, service.ReconcileConfig{
		LookbackWindow: cfg.Reconcile.LookbackWindow(),
		Concurrency:    cfg.Reconcile.Concurrency,
	}, logger)

	// Initialize HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	webhookHandler := handler.NewWebhookHandler(paymentService, cfg.Webhook.CallbackToken, logger)
	reconcileHandler := handler.NewReconcileHandler(reconcileService, logger)
	referralHandler := handler.NewReferralHandler(discountLedger, logger)
	notificationHandler := handler.NewNotificationHandler(dispatcher, logger)

	// Initialize router
	mux := router.New(checkoutHandler, webhookHandler, reconcileHandler, referralHandler, notificationHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
