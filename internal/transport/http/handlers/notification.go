package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	appLogger "github.com/thelia-modules/LoginWithPhone/internal/infra/logger"
)

// NotificationDispatcher fans out confirmation delivery to downstream notifiers.
type NotificationDispatcher interface {
	SendConfirmationNotice(ctx context.Context, payload ConfirmationNotification) error
}

// ConfirmationNotification captures data needed to deliver an account confirmation link.
type ConfirmationNotification struct {
	CustomerID string
	Email      string
	DevToken   string
	Requested  time.Time
}

type noopDispatcher struct{}

func (noopDispatcher) SendConfirmationNotice(ctx context.Context, payload ConfirmationNotification) error {
	return nil
}

// LoggingNotificationDispatcher records confirmation dispatch events for observability without delivering them.
type LoggingNotificationDispatcher struct {
	logger *zap.Logger
}

// NewLoggingNotificationDispatcher constructs a notification dispatcher backed by structured logging.
func NewLoggingNotificationDispatcher(logger *zap.Logger) NotificationDispatcher {
	if logger == nil {
		return noopDispatcher{}
	}
	return &LoggingNotificationDispatcher{logger: logger}
}

func (d *LoggingNotificationDispatcher) SendConfirmationNotice(ctx context.Context, payload ConfirmationNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("customer_id", payload.CustomerID),
		zap.String("email", appLogger.MaskEmail(payload.Email)),
		zap.Time("requested_at", payload.Requested),
	}

	if payload.DevToken != "" {
		fields = append(fields, zap.String("dev_token", payload.DevToken))
	}

	d.logger.Info("dispatch account confirmation", fields...)
	return nil
}
