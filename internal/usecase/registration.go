package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/config"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/security"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

var (
	// ErrConfirmationTokenInvalid indicates the provided confirmation token matches no account.
	ErrConfirmationTokenInvalid = errors.New("confirmation token invalid")
	// ErrAccountAlreadyExists indicates an account already owns the identifier.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet requirements")
)

// RegistrationService handles new customer onboarding and account confirmation.
type RegistrationService struct {
	cfg       *config.AppConfig
	customers port.CustomerRepository
	checker   *AccountChecker
	hasher    port.PasswordHasher
	validator *security.PasswordValidator
	events    port.EventPublisher
	logger    *zap.Logger
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	cfg *config.AppConfig,
	customers port.CustomerRepository,
	hasher port.PasswordHasher,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		cfg:       cfg,
		customers: customers,
		checker:   NewAccountChecker(customers),
		hasher:    hasher,
		validator: validator,
		events:    events,
		logger:    log,
	}
}

// RegistrationResult captures the created customer and, when confirmation is
// enforced, the raw confirmation token to deliver out of band.
type RegistrationResult struct {
	Customer             domain.Customer
	RequiresConfirmation bool
	ConfirmationToken    string
}

// Register creates a customer account. When confirmation enforcement is on
// the account starts disabled with a hashed confirmation token at rest.
func (s *RegistrationService) Register(ctx context.Context, email, phone, cellphone, password string) (RegistrationResult, error) {
	var zero RegistrationResult

	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	cellphone = strings.TrimSpace(cellphone)
	if email == "" {
		return zero, fmt.Errorf("email is required")
	}
	if password == "" {
		return zero, ErrPasswordRequired
	}

	if err := s.validator.Validate(password); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	if _, err := s.checker.ExistingAccount(ctx, email); err == nil {
		return zero, ErrAccountAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return zero, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return zero, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		PasswordAlgo: "argon2id",
		Enabled:      true,
		CreatedAt:    now,
	}
	if phone != "" {
		customer.Phone = &phone
	}
	if cellphone != "" {
		customer.Cellphone = &cellphone
	}

	result := RegistrationResult{}
	if s.cfg.Security.ConfirmationRequired {
		rawToken, err := security.GenerateSecureToken(32)
		if err != nil {
			return zero, fmt.Errorf("generate confirmation token: %w", err)
		}
		tokenHash := security.HashToken(rawToken)
		customer.ConfirmationToken = &tokenHash
		customer.Enabled = false
		result.RequiresConfirmation = true
		result.ConfirmationToken = rawToken
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return zero, err
	}

	result.Customer = customer

	if s.events != nil {
		event := domain.CustomerRegisteredEvent{
			CustomerID:           customer.ID,
			Email:                customer.Email,
			Phone:                customer.Phone,
			Cellphone:            customer.Cellphone,
			RequiresConfirmation: result.RequiresConfirmation,
			RegisteredAt:         now,
		}
		if err := s.events.PublishCustomerRegistered(ctx, event); err != nil {
			s.logger.Warn("publish registered event", zap.Error(err))
		}
	}

	return result, nil
}

// Confirm validates the confirmation token and enables the account.
func (s *RegistrationService) Confirm(ctx context.Context, token string) (domain.Customer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Customer{}, fmt.Errorf("confirmation token is required")
	}

	hash := security.HashToken(token)
	customer, err := s.customers.FindByConfirmationToken(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, ErrConfirmationTokenInvalid
		}
		return domain.Customer{}, fmt.Errorf("lookup confirmation token: %w", err)
	}

	if err := s.customers.Enable(ctx, customer.ID); err != nil {
		return domain.Customer{}, fmt.Errorf("enable customer: %w", err)
	}

	customer.Enabled = true
	customer.ConfirmationToken = nil

	return *customer, nil
}

// RequestConfirmation publishes a confirmation-requested event for an account
// still awaiting confirmation, typically after a not_confirmed login outcome.
func (s *RegistrationService) RequestConfirmation(ctx context.Context, customer domain.Customer) error {
	if s.events == nil {
		return nil
	}

	event := domain.ConfirmationRequestedEvent{
		CustomerID:  customer.ID,
		Email:       customer.Email,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.events.PublishConfirmationRequested(ctx, event); err != nil {
		return fmt.Errorf("publish confirmation request: %w", err)
	}

	return nil
}
