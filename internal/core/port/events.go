package port

import (
	"context"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event domain.CustomerRegisteredEvent) error
	PublishCustomerLoggedIn(ctx context.Context, event domain.CustomerLoggedInEvent) error
	PublishConfirmationRequested(ctx context.Context, event domain.ConfirmationRequestedEvent) error
}
