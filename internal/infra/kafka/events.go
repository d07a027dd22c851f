package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	eventCustomerRegistered    = "customer.registered"
	eventCustomerLoggedIn      = "customer.logged_in"
	eventConfirmationRequested = "customer.confirmation_requested"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID    string            `json:"event_id"`
	EventType  string            `json:"event_type"`
	CustomerID string            `json:"customer_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Version    string            `json:"version"`
	Payload    any               `json:"payload"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType, customerID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	envelope := eventEnvelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		CustomerID: customerID,
		Timestamp:  ts.UTC(),
		Version:    schemaVersion,
		Payload:    payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(customerID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishCustomerRegistered publishes customer.registered events.
func (p *EventPublisher) PublishCustomerRegistered(ctx context.Context, event domain.CustomerRegisteredEvent) error {
	payload := map[string]any{
		"customer_id":           event.CustomerID,
		"email":                 event.Email,
		"phone":                 event.Phone,
		"cellphone":             event.Cellphone,
		"requires_confirmation": event.RequiresConfirmation,
		"registered_at":         event.RegisteredAt,
		"metadata":              event.Metadata,
	}
	return p.publish(ctx, eventCustomerRegistered, event.CustomerID, event.RegisteredAt, payload)
}

// PublishCustomerLoggedIn publishes customer.logged_in events.
func (p *EventPublisher) PublishCustomerLoggedIn(ctx context.Context, event domain.CustomerLoggedInEvent) error {
	payload := map[string]any{
		"customer_id":  event.CustomerID,
		"identifier":   event.Identifier,
		"logged_in_at": event.LoggedInAt,
		"remember_me":  event.RememberMe,
		"ip_address":   event.IPAddress,
		"metadata":     event.Metadata,
	}
	return p.publish(ctx, eventCustomerLoggedIn, event.CustomerID, event.LoggedInAt, payload)
}

// PublishConfirmationRequested publishes customer.confirmation_requested events.
func (p *EventPublisher) PublishConfirmationRequested(ctx context.Context, event domain.ConfirmationRequestedEvent) error {
	payload := map[string]any{
		"customer_id":  event.CustomerID,
		"email":        event.Email,
		"requested_at": event.RequestedAt,
		"metadata":     event.Metadata,
	}
	return p.publish(ctx, eventConfirmationRequested, event.CustomerID, event.RequestedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
