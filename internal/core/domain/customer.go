package domain

import "time"

// Customer mirrors the persisted representation in the customers table.
type Customer struct {
	ID                string
	Email             string
	Phone             *string
	Cellphone         *string
	PasswordHash      string
	PasswordAlgo      string
	ConfirmationToken *string
	Enabled           bool
	RememberMeSerial  *string
	RememberMeToken   *string
	CreatedAt         time.Time
	LastLogin         *time.Time
}

// AwaitingConfirmation reports whether the account was created but never
// confirmed. The gate is only meaningful when confirmation enforcement is
// enabled in configuration.
func (c Customer) AwaitingConfirmation() bool {
	return c.ConfirmationToken != nil && !c.Enabled
}

// Sanitized returns a copy safe to hand back to transport layers.
func (c Customer) Sanitized() Customer {
	out := c
	out.PasswordHash = ""
	out.ConfirmationToken = nil
	out.RememberMeToken = nil
	return out
}
