package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/security"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
	"github.com/thelia-modules/LoginWithPhone/internal/usecase"
)

// invalidCredentialsMessage is shared by the unknown-identifier and
// wrong-password branches so responses never reveal which one occurred.
const invalidCredentialsMessage = "invalid identifier or password"

const rememberMeCookieName = "storefront_remember_me"

var loginErrorCases = []ErrorCase{
	{Err: usecase.ErrIdentifierRequired, Status: http.StatusBadRequest, Message: "identifier and password are required"},
	{Err: usecase.ErrPasswordRequired, Status: http.StatusBadRequest, Message: "identifier and password are required"},
}

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth          *usecase.AuthService
	registration  *usecase.RegistrationService
	checker       *usecase.AccountChecker
	tokens        *security.SessionTokenIssuer
	dispatcher    NotificationDispatcher
	logger        *zap.Logger
	rememberTTL   time.Duration
	secureCookies bool
}

// AuthHandlerOption configures optional AuthHandler dependencies.
type AuthHandlerOption func(*AuthHandler)

// WithRegistrationService injects the registration service used to re-request
// confirmation for accounts blocked on the confirmation gate.
func WithRegistrationService(registration *usecase.RegistrationService) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.registration = registration
	}
}

// WithNotificationDispatcher injects the dispatcher used to deliver confirmation notices.
func WithNotificationDispatcher(dispatcher NotificationDispatcher) AuthHandlerOption {
	return func(h *AuthHandler) {
		if dispatcher == nil {
			dispatcher = noopDispatcher{}
		}
		h.dispatcher = dispatcher
	}
}

// WithRememberMeTTL overrides the remember-me cookie lifetime.
func WithRememberMeTTL(ttl time.Duration) AuthHandlerOption {
	return func(h *AuthHandler) {
		if ttl > 0 {
			h.rememberTTL = ttl
		}
	}
}

// WithSecureCookies toggles the Secure flag on issued cookies.
func WithSecureCookies(secure bool) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.secureCookies = secure
	}
}

// WithAuthLogger injects the structured logger.
func WithAuthLogger(logger *zap.Logger) AuthHandlerOption {
	return func(h *AuthHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, checker *usecase.AccountChecker, tokens *security.SessionTokenIssuer, opts ...AuthHandlerOption) *AuthHandler {
	handler := &AuthHandler{
		auth:        auth,
		checker:     checker,
		tokens:      tokens,
		dispatcher:  noopDispatcher{},
		logger:      zap.NewNop(),
		rememberTTL: 30 * 24 * time.Hour,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}

	if handler.dispatcher == nil {
		handler.dispatcher = noopDispatcher{}
	}

	return handler
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of handlers.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	if len(loginMiddlewares) > 0 {
		chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
		chain = append(chain, h.Login)
		r.POST("/login", chain...)
		return
	}

	r.POST("/login", h.Login)
}

// Login authenticates a customer by email or phone number.
//
// When new_customer is set the request is a pre-registration probe: the
// identifier must not belong to an existing account, and no password check
// runs.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	identifier := strings.TrimSpace(req.Identifier)

	if req.NewCustomer {
		h.handleNewCustomer(c, identifier)
		return
	}

	outcome, err := h.auth.Authenticate(c.Request.Context(), identifier, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, loginErrorCases, http.StatusInternalServerError, "authentication failed")
		return
	}

	switch outcome.Status {
	case domain.AuthSuccess:
		h.respondSuccess(c, *outcome.Customer, identifier, req.RememberMe)
	case domain.AuthNotConfirmed:
		h.respondNotConfirmed(c, *outcome.Customer)
	case domain.AuthNotFound, domain.AuthWrongPassword:
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, invalidCredentialsMessage))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "authentication failed"))
	}
}

func (h *AuthHandler) handleNewCustomer(c *gin.Context, identifier string) {
	if h.checker == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "account check unavailable"))
		return
	}

	_, err := h.checker.ExistingAccount(c.Request.Context(), identifier)
	switch {
	case err == nil:
		c.JSON(http.StatusConflict, NewErrorResponse(c, "an account already exists for this identifier"))
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusOK, MessageResponse{Message: "no existing account, continue with registration"})
	case errors.Is(err, usecase.ErrIdentifierRequired):
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier is required"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "account check failed"))
	}
}

func (h *AuthHandler) respondSuccess(c *gin.Context, customer domain.Customer, identifier string, rememberMe bool) {
	ctx := c.Request.Context()

	if err := h.auth.RecordLogin(ctx, customer, identifier, rememberMe, c.ClientIP()); err != nil {
		h.logger.Warn("record login failed", zap.Error(err), zap.String("customer_id", customer.ID))
	}

	if rememberMe {
		serial, token, err := h.auth.IssueRememberMe(ctx, customer.ID)
		if err != nil {
			h.logger.Warn("issue remember-me failed", zap.Error(err), zap.String("customer_id", customer.ID))
		} else {
			maxAge := int(h.rememberTTL / time.Second)
			c.SetCookie(rememberMeCookieName, serial+":"+token, maxAge, "/", "", h.secureCookies, true)
		}
	}

	accessToken, err := h.tokens.Issue(customer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue session token"))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokens.TTL() / time.Second),
		Customer:    newCustomerSummary(customer),
	})
}

func (h *AuthHandler) respondNotConfirmed(c *gin.Context, customer domain.Customer) {
	ctx := c.Request.Context()

	if h.registration != nil {
		if err := h.registration.RequestConfirmation(ctx, customer); err != nil {
			h.logger.Warn("confirmation request failed", zap.Error(err), zap.String("customer_id", customer.ID))
		}
	}

	_ = h.dispatcher.SendConfirmationNotice(ctx, ConfirmationNotification{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Requested:  time.Now().UTC(),
	})

	c.JSON(http.StatusForbidden, LoginPendingResponse{
		Message:  "account pending confirmation",
		Customer: newCustomerSummary(customer),
	})
}
