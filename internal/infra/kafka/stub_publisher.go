package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, customerID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("customer_id", customerID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishCustomerRegistered logs customer.registered events.
func (p *StubPublisher) PublishCustomerRegistered(_ context.Context, event domain.CustomerRegisteredEvent) error {
	payload := map[string]any{
		"email":                 event.Email,
		"requires_confirmation": event.RequiresConfirmation,
		"registered_at":         event.RegisteredAt,
	}
	p.logEvent(eventCustomerRegistered, event.CustomerID, event.RegisteredAt, payload)
	return nil
}

// PublishCustomerLoggedIn logs customer.logged_in events.
func (p *StubPublisher) PublishCustomerLoggedIn(_ context.Context, event domain.CustomerLoggedInEvent) error {
	payload := map[string]any{
		"identifier":   event.Identifier,
		"logged_in_at": event.LoggedInAt,
		"remember_me":  event.RememberMe,
	}
	p.logEvent(eventCustomerLoggedIn, event.CustomerID, event.LoggedInAt, payload)
	return nil
}

// PublishConfirmationRequested logs customer.confirmation_requested events.
func (p *StubPublisher) PublishConfirmationRequested(_ context.Context, event domain.ConfirmationRequestedEvent) error {
	payload := map[string]any{
		"email":        event.Email,
		"requested_at": event.RequestedAt,
	}
	p.logEvent(eventConfirmationRequested, event.CustomerID, event.RequestedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
