package port

import (
	"context"
	"time"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
)

// CustomerRepository exposes persistence behavior for customers.
//
// Lookups use exact-match semantics only. FindByEmail returns
// repository.ErrNotFound when no row matches; FindByPhoneOrCellphone returns
// an empty slice instead, because a miss there is an expected outcome of the
// resolver's fallback path.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByCellphone(ctx context.Context, cellphone string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	FindByPhoneOrCellphone(ctx context.Context, number string) ([]domain.Customer, error)
	FindByConfirmationToken(ctx context.Context, tokenHash string) (*domain.Customer, error)
	Enable(ctx context.Context, id string) error
	UpdateRememberMe(ctx context.Context, id string, serial, tokenHash *string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
}
