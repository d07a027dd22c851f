package domain

import "time"

// CustomerRegisteredEvent is emitted after a new customer row is created.
type CustomerRegisteredEvent struct {
	CustomerID           string
	Email                string
	Phone                *string
	Cellphone            *string
	RequiresConfirmation bool
	RegisteredAt         time.Time
	Metadata             map[string]string
}

// CustomerLoggedInEvent is emitted after a successful authentication was
// recorded by the caller.
type CustomerLoggedInEvent struct {
	CustomerID string
	Identifier string
	LoggedInAt time.Time
	RememberMe bool
	IPAddress  string
	Metadata   map[string]string
}

// ConfirmationRequestedEvent is emitted when a confirmation notice must be
// (re)sent to a customer that attempted to log in before confirming.
type ConfirmationRequestedEvent struct {
	CustomerID  string
	Email       string
	RequestedAt time.Time
	Metadata    map[string]string
}
