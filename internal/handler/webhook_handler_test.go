package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vapemart/internal/model"
	"vapemart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPaymentService is a mock implementation of PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ApplyStatus(ctx context.Context, event service.PaymentEvent) (service.ApplyResult, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(service.ApplyResult), args.Error(1)
}

const testCallbackToken = "whsec_test_token"

func webhookBody(t *testing.T, status string, orderID uuid.UUID) []byte {
	t.Helper()
	body, err := json.Marshal(model.WebhookPayload{
		Status:        status,
		ExternalID:    orderID.String(),
		ID:            "inv-123",
		PaymentMethod: "EWALLET",
		PaidAmount:    95000,
	})
	require.NoError(t, err)
	return body
}

func TestWebhookHandler_HandlePayment(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()

	tests := []struct {
		name           string
		token          string
		body           []byte
		mockResult     service.ApplyResult
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Paid applied",
			token:          testCallbackToken,
			body:           webhookBody(t, "PAID", orderID),
			mockResult:     service.ApplyResult{Applied: true, EmailSent: true},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Duplicate delivery still acknowledged",
			token:          testCallbackToken,
			body:           webhookBody(t, "PAID", orderID),
			mockResult:     service.ApplyResult{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Unknown status acknowledged",
			token:          testCallbackToken,
			body:           webhookBody(t, "REFUNDED", orderID),
			mockResult:     service.ApplyResult{},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid token",
			token:          "wrong-token",
			body:           webhookBody(t, "PAID", orderID),
			expectedStatus: http.StatusUnauthorized,
			expectService:  false,
		},
		{
			name:           "Missing token",
			token:          "",
			body:           webhookBody(t, "PAID", orderID),
			expectedStatus: http.StatusUnauthorized,
			expectService:  false,
		},
		{
			name:           "Invalid JSON",
			token:          testCallbackToken,
			body:           []byte("not json"),
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Bad external id",
			token:          testCallbackToken,
			body:           []byte(`{"status":"PAID","external_id":"not-a-uuid"}`),
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Processing failure",
			token:          testCallbackToken,
			body:           webhookBody(t, "PAID", orderID),
			mockError:      errors.New("database connection failed"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPaymentService)
			handler := NewWebhookHandler(mockService, testCallbackToken, logger)

			if tt.expectService {
				mockService.On("ApplyStatus", mock.Anything, mock.AnythingOfType("service.PaymentEvent")).
					Return(tt.mockResult, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewBuffer(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("x-callback-token", tt.token)
			}
			w := httptest.NewRecorder()

			handler.HandlePayment(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if !tt.expectService {
				mockService.AssertNotCalled(t, "ApplyStatus", mock.Anything, mock.Anything)
			} else {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestWebhookHandler_MethodNotAllowed(t *testing.T) {
	mockService := new(MockPaymentService)
	handler := NewWebhookHandler(mockService, testCallbackToken, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/webhooks/payment", nil)
	req.Header.Set("x-callback-token", testCallbackToken)
	w := httptest.NewRecorder()

	handler.HandlePayment(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
