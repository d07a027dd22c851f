package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

// IdentifierResolver maps one ambiguous identifier string to the ordered set
// of customer accounts that could own it.
//
// Email is assumed unique and is the stronger signal, so an exact email match
// wins outright and suppresses the phone lookup. Phone numbers carry no
// uniqueness guarantee; the fallback OR-query over cellphone and phone may
// legitimately return several candidates, in store order.
type IdentifierResolver struct {
	customers port.CustomerRepository
}

// NewIdentifierResolver constructs a resolver backed by the provided repository.
func NewIdentifierResolver(customers port.CustomerRepository) *IdentifierResolver {
	return &IdentifierResolver{customers: customers}
}

// Resolve returns the candidate accounts for the identifier. An empty slice
// is a valid, non-error result; only infrastructure failures surface as errors.
func (r *IdentifierResolver) Resolve(ctx context.Context, identifier string) ([]domain.Customer, error) {
	customer, err := r.customers.FindByEmail(ctx, identifier)
	if err == nil {
		return []domain.Customer{*customer}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup customer by email: %w", err)
	}

	candidates, err := r.customers.FindByPhoneOrCellphone(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("lookup customers by phone: %w", err)
	}

	return candidates, nil
}
