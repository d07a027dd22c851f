package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
	"github.com/thelia-modules/LoginWithPhone/internal/transport/http/middleware"
	"github.com/thelia-modules/LoginWithPhone/internal/usecase"
)

var (
	registrationErrorCases = []ErrorCase{
		{Err: usecase.ErrAccountAlreadyExists, Status: http.StatusConflict, Message: "an account already exists for this identifier"},
		{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
		{Err: usecase.ErrPasswordRequired, Status: http.StatusBadRequest, Message: "password is required"},
	}

	confirmErrorCases = []ErrorCase{
		{Err: usecase.ErrConfirmationTokenInvalid, Status: http.StatusBadRequest, Message: "confirmation token is invalid"},
	}
)

// CustomerHandler exposes registration, confirmation, and account lookup endpoints.
type CustomerHandler struct {
	registration *usecase.RegistrationService
	checker      *usecase.AccountChecker
	customers    port.CustomerRepository
	dispatcher   NotificationDispatcher
	isDev        bool
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(
	registration *usecase.RegistrationService,
	checker *usecase.AccountChecker,
	customers port.CustomerRepository,
	dispatcher NotificationDispatcher,
	isDev bool,
) *CustomerHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	return &CustomerHandler{
		registration: registration,
		checker:      checker,
		customers:    customers,
		dispatcher:   dispatcher,
		isDev:        isDev,
	}
}

// RegisterRoutes binds the public customer endpoints.
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Register)
	r.POST("/confirm", h.Confirm)
	r.POST("/check", h.Check)
}

// Register creates a new customer account.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	result, err := h.registration.Register(c.Request.Context(), req.Email, req.Phone, req.Cellphone, req.Password)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, NewErrorResponse(c, "an account already exists for this identifier"))
			return
		}
		RespondWithMappedError(c, err, registrationErrorCases, http.StatusInternalServerError, "failed to register customer")
		return
	}

	resp := RegistrationResponse{
		Customer:             newCustomerSummary(result.Customer),
		RequiresConfirmation: result.RequiresConfirmation,
	}

	if result.RequiresConfirmation {
		resp.Message = "confirmation required"

		// SECURITY: only expose the raw token in development mode.
		if h.isDev {
			if token := strings.TrimSpace(result.ConfirmationToken); token != "" {
				resp.DevToken = &token
			}
		}

		payload := ConfirmationNotification{
			CustomerID: result.Customer.ID,
			Email:      result.Customer.Email,
			Requested:  time.Now().UTC(),
		}
		if h.isDev {
			payload.DevToken = strings.TrimSpace(result.ConfirmationToken)
		}
		_ = h.dispatcher.SendConfirmationNotice(c.Request.Context(), payload)
	}

	c.JSON(http.StatusCreated, resp)
}

// Confirm validates a confirmation token and enables the account.
func (h *CustomerHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid confirmation payload"))
		return
	}

	customer, err := h.registration.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		RespondWithMappedError(c, err, confirmErrorCases, http.StatusInternalServerError, "failed to confirm account")
		return
	}

	c.JSON(http.StatusOK, ConfirmResponse{
		Message:  "account confirmed",
		Customer: newCustomerSummary(customer),
	})
}

// Check reports whether an identifier already owns an account.
func (h *CustomerHandler) Check(c *gin.Context) {
	var req AccountCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid check payload"))
		return
	}

	_, err := h.checker.ExistingAccount(c.Request.Context(), strings.TrimSpace(req.Identifier))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, AccountCheckResponse{Exists: true})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusOK, AccountCheckResponse{Exists: false})
	case errors.Is(err, usecase.ErrIdentifierRequired):
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier is required"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "account check failed"))
	}
}

// Me returns the authenticated customer's profile.
func (h *CustomerHandler) Me(c *gin.Context) {
	customerID, ok := middleware.CustomerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "customer not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load customer"))
		return
	}

	c.JSON(http.StatusOK, newCustomerSummary(*customer))
}
