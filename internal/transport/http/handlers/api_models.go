package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// CustomerSummary describes a minimal view of a customer returned by the API.
type CustomerSummary struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Cellphone *string    `json:"cellphone,omitempty"`
	Enabled   bool       `json:"enabled"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// LoginRequest defines the payload for the login endpoint. Identifier accepts
// an email address or a phone number interchangeably.
type LoginRequest struct {
	Identifier  string `json:"identifier" binding:"required"`
	Password    string `json:"password"`
	NewCustomer bool   `json:"new_customer"`
	RememberMe  bool   `json:"remember_me"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Customer    CustomerSummary `json:"customer"`
}

// LoginPendingResponse is returned when a login is blocked on account confirmation.
type LoginPendingResponse struct {
	Message  string          `json:"message"`
	Customer CustomerSummary `json:"customer"`
}

// RegistrationRequest defines the account registration payload.
type RegistrationRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Cellphone string `json:"cellphone"`
	Password  string `json:"password" binding:"required,min=8"`
}

// RegistrationResponse contains registration results and next steps.
type RegistrationResponse struct {
	Customer             CustomerSummary `json:"customer"`
	RequiresConfirmation bool            `json:"requires_confirmation"`
	Message              string          `json:"message,omitempty"`
	// SECURITY: DevToken is ONLY exposed in development mode.
	// In production, confirmation tokens are sent via secure channels.
	DevToken *string `json:"dev_token,omitempty"`
}

// ConfirmRequest holds the account confirmation payload.
type ConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// ConfirmResponse is returned after a successful account confirmation.
type ConfirmResponse struct {
	Message  string          `json:"message"`
	Customer CustomerSummary `json:"customer"`
}

// AccountCheckRequest asks whether an identifier already owns an account.
type AccountCheckRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// AccountCheckResponse reports whether an account exists for the identifier.
type AccountCheckResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// newCustomerSummary converts a domain customer to a summary suitable for API responses.
func newCustomerSummary(customer domain.Customer) CustomerSummary {
	customer = customer.Sanitized()

	summary := CustomerSummary{
		ID:        customer.ID,
		Email:     customer.Email,
		Enabled:   customer.Enabled,
		CreatedAt: customer.CreatedAt,
		LastLogin: customer.LastLogin,
	}

	if customer.Phone != nil {
		phone := strings.TrimSpace(*customer.Phone)
		if phone != "" {
			summary.Phone = &phone
		}
	}

	if customer.Cellphone != nil {
		cellphone := strings.TrimSpace(*customer.Cellphone)
		if cellphone != "" {
			summary.Cellphone = &cellphone
		}
	}

	return summary
}
