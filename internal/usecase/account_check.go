package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

// AccountChecker answers "does an account already own this identifier" for
// the new-customer path.
//
// Unlike the authentication resolver, the check runs three sequential
// single-row lookups (email, then cellphone, then phone) and stops at the
// first hit. The stricter sequencing is kept deliberately: for a duplicate
// check one owner is enough, and email must win before any phone match is
// even considered.
type AccountChecker struct {
	customers port.CustomerRepository
}

// NewAccountChecker constructs an AccountChecker.
func NewAccountChecker(customers port.CustomerRepository) *AccountChecker {
	return &AccountChecker{customers: customers}
}

// ExistingAccount returns the first account owning the identifier, or
// repository.ErrNotFound when no account matches.
func (c *AccountChecker) ExistingAccount(ctx context.Context, identifier string) (*domain.Customer, error) {
	if identifier == "" {
		return nil, ErrIdentifierRequired
	}

	lookups := []func(context.Context, string) (*domain.Customer, error){
		c.customers.FindByEmail,
		c.customers.FindByCellphone,
		c.customers.FindByPhone,
	}

	for _, lookup := range lookups {
		customer, err := lookup(ctx, identifier)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("duplicate account lookup: %w", err)
		}
	}

	return nil, repository.ErrNotFound
}
