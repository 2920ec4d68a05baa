package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUpstreamGateway = "UPSTREAM_GATEWAY_ERROR"
	ErrCodeEmailGateway    = "EMAIL_GATEWAY_ERROR"
	ErrCodeOrderNotPending = "ORDER_NOT_PENDING"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOrderNotFound       = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrUserNotFound        = NewDomainError(ErrCodeNotFound, "User not found")
	ErrInvalidWebhookToken = NewDomainError(ErrCodeUnauthorised, "Invalid callback token")
	ErrEmptyCart           = NewDomainError(ErrCodeValidation, "Cart must contain at least one item")
	ErrInvalidQuantity     = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrInvalidEmail        = NewDomainError(ErrCodeValidation, "Invalid email address")
	ErrInvalidEmailType    = NewDomainError(ErrCodeValidation, "Email type must be cart_abandonment or website_abandonment")
	ErrOrderNotPending     = NewDomainError(ErrCodeOrderNotPending, "Order is no longer pending")
)
