package router

import (
	"net/http"
	"strings"

	"vapemart/internal/handler"
	"vapemart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	reconcileHandler *handler.ReconcileHandler,
	referralHandler *handler.ReferralHandler,
	notificationHandler *handler.NotificationHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Payment gateway callback (authenticated by its own shared secret)
	mux.HandleFunc("/webhooks/payment", webhookHandler.HandlePayment)

	mux.HandleFunc("/api/checkout", checkoutHandler.Create)
	mux.HandleFunc("/api/reconcile", reconcileHandler.Run)
	mux.HandleFunc("/api/referrals", referralHandler.Issue)
	mux.HandleFunc("/api/notifications/abandonment", notificationHandler.SendAbandonment)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific order ID
		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			checkoutHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
