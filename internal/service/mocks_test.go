package service

import (
	"context"
	"time"

	"vapemart/internal/gateway"
	"vapemart/internal/model"
	"vapemart/internal/report"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*model.Order, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, data *model.PaymentData) (bool, error) {
	args := m.Called(ctx, id, paidAt, data)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkExpired(ctx context.Context, id uuid.UUID, expiredAt time.Time) (bool, error) {
	args := m.Called(ctx, id, expiredAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkFailed(ctx context.Context, id uuid.UUID, failedAt time.Time, reason string) (bool, error) {
	args := m.Called(ctx, id, failedAt, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ListPendingCreatedAfter(ctx context.Context, cutoff time.Time) ([]model.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateEmailStatus(ctx context.Context, id uuid.UUID, status model.EmailStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetReferralCode(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockUserRepository) GetDiscount(ctx context.Context, email, code string) (*model.Discount, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockUserRepository) RemoveDiscount(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RecordPaidOrder(ctx context.Context, email string, amount int64) error {
	args := m.Called(ctx, email, amount)
	return args.Error(0)
}

// MockLedger is a mock implementation of ledger.Ledger.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) IssueReferralCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockLedger) RegisterReferral(ctx context.Context, code, referrerEmail, referredEmail string) error {
	args := m.Called(ctx, code, referrerEmail, referredEmail)
	return args.Error(0)
}

func (m *MockLedger) ConsumeDiscount(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockLedger) MarkReferralAvailed(ctx context.Context, code, referredEmail string) error {
	args := m.Called(ctx, code, referredEmail)
	return args.Error(0)
}

// MockDispatcher is a mock implementation of mailer.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockDispatcher) SendAbandonmentEmail(ctx context.Context, req model.AbandonmentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockGatewayClient is a mock implementation of gateway.Client.
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) GetInvoice(ctx context.Context, invoiceID string) (*gateway.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Invoice), args.Error(1)
}

// MockArchiver is a mock implementation of report.Archiver.
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Store(ctx context.Context, rep report.SweepReport) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}
