package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/config"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/logger"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/security"
)

var (
	// ErrIdentifierRequired indicates the caller passed a blank identifier.
	ErrIdentifierRequired = errors.New("identifier is required")
	// ErrPasswordRequired indicates the caller passed a blank password.
	ErrPasswordRequired = errors.New("password is required")
)

// AuthService turns one login attempt into exactly one classified outcome.
//
// Authenticate performs no writes: recording the login, issuing remember-me
// material, and resending confirmation notices are separate operations the
// caller invokes in reaction to the outcome.
type AuthService struct {
	cfg      *config.AppConfig
	resolver *IdentifierResolver
	verifier port.PasswordVerifier

	customers port.CustomerRepository
	events    port.EventPublisher
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	customers port.CustomerRepository,
	verifier port.PasswordVerifier,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		cfg:       cfg,
		resolver:  NewIdentifierResolver(customers),
		verifier:  verifier,
		customers: customers,
		events:    events,
		logger:    log,
	}
}

// Authenticate resolves the identifier, verifies the password against each
// candidate in order, and classifies the result.
//
// The confirmation gate applies only after a password match: a wrong password
// must surface as wrong_password and never leak confirmation state.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (domain.AuthOutcome, error) {
	if identifier == "" {
		return domain.AuthOutcome{}, ErrIdentifierRequired
	}
	if password == "" {
		return domain.AuthOutcome{}, ErrPasswordRequired
	}

	candidates, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return domain.AuthOutcome{}, err
	}

	if len(candidates) == 0 {
		logger.WithContext(ctx, s.logger).Info("login identifier not found",
			zap.String("identifier", logger.MaskIdentifier(identifier)),
		)
		return domain.NotFoundOutcome(), nil
	}

	for _, candidate := range candidates {
		ok, err := s.verifier.Verify(password, candidate.PasswordHash)
		if err != nil {
			return domain.AuthOutcome{}, fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			continue
		}

		if s.cfg.Security.ConfirmationRequired && candidate.AwaitingConfirmation() {
			return domain.NotConfirmedOutcome(candidate), nil
		}

		return domain.SuccessOutcome(candidate), nil
	}

	logger.WithContext(ctx, s.logger).Info("login password rejected",
		zap.String("identifier", logger.MaskIdentifier(identifier)),
		zap.Int("candidates", len(candidates)),
	)
	return domain.WrongPasswordOutcome(), nil
}

// RecordLogin stamps last_login on the customer row and publishes the
// logged-in event. Callers invoke it after a success outcome; failures here
// must not undo an already-classified authentication.
func (s *AuthService) RecordLogin(ctx context.Context, customer domain.Customer, identifier string, rememberMe bool, ip string) error {
	now := time.Now().UTC()
	if err := s.customers.RecordLogin(ctx, customer.ID, now); err != nil {
		return fmt.Errorf("record login: %w", err)
	}

	if s.events != nil {
		event := domain.CustomerLoggedInEvent{
			CustomerID: customer.ID,
			Identifier: logger.MaskIdentifier(identifier),
			LoggedInAt: now,
			RememberMe: rememberMe,
			IPAddress:  logger.MaskIP(ip),
		}
		if err := s.events.PublishCustomerLoggedIn(ctx, event); err != nil {
			s.logger.Warn("publish logged-in event", zap.Error(err))
		}
	}

	return nil
}

// IssueRememberMe generates a fresh serial/token pair, stores the token hash
// on the customer row, and returns the raw values for cookie issuance.
func (s *AuthService) IssueRememberMe(ctx context.Context, customerID string) (serial, token string, err error) {
	serial, err = security.GenerateSecureToken(16)
	if err != nil {
		return "", "", fmt.Errorf("generate remember-me serial: %w", err)
	}
	token, err = security.GenerateSecureToken(32)
	if err != nil {
		return "", "", fmt.Errorf("generate remember-me token: %w", err)
	}

	tokenHash := security.HashToken(token)
	if err := s.customers.UpdateRememberMe(ctx, customerID, &serial, &tokenHash); err != nil {
		return "", "", fmt.Errorf("store remember-me token: %w", err)
	}

	return serial, token, nil
}
