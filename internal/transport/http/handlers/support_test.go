package handlers

import (
	"context"
	"time"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/config"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

type fakeCustomerRepo struct {
	customers   []domain.Customer
	loginStamps map[string]time.Time
}

func newFakeCustomerRepo(customers ...domain.Customer) *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers:   customers,
		loginStamps: make(map[string]time.Time),
	}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer domain.Customer) error {
	r.customers = append(r.customers, customer)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.ID == id {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByCellphone(_ context.Context, cellphone string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.Cellphone != nil && *c.Cellphone == cellphone {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhoneOrCellphone(_ context.Context, number string) ([]domain.Customer, error) {
	matches := make([]domain.Customer, 0)
	for _, c := range r.customers {
		if (c.Cellphone != nil && *c.Cellphone == number) || (c.Phone != nil && *c.Phone == number) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (r *fakeCustomerRepo) FindByConfirmationToken(_ context.Context, tokenHash string) (*domain.Customer, error) {
	for _, c := range r.customers {
		if c.ConfirmationToken != nil && *c.ConfirmationToken == tokenHash {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) Enable(_ context.Context, id string) error {
	for i, c := range r.customers {
		if c.ID == id {
			r.customers[i].Enabled = true
			r.customers[i].ConfirmationToken = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCustomerRepo) UpdateRememberMe(_ context.Context, id string, serial, tokenHash *string) error {
	for _, c := range r.customers {
		if c.ID == id {
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCustomerRepo) RecordLogin(_ context.Context, id string, at time.Time) error {
	for _, c := range r.customers {
		if c.ID == id {
			r.loginStamps[id] = at
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeHasher treats "hash:<password>" as the stored encoding.
type fakeHasher struct{}

func (fakeHasher) Verify(password, encoded string) (bool, error) {
	return encoded == "hash:"+password, nil
}

func (fakeHasher) Hash(password string) (string, error) {
	return "hash:" + password, nil
}

type capturingPublisher struct {
	registered   []domain.CustomerRegisteredEvent
	loggedIn     []domain.CustomerLoggedInEvent
	confirmation []domain.ConfirmationRequestedEvent
}

func (p *capturingPublisher) PublishCustomerRegistered(_ context.Context, event domain.CustomerRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *capturingPublisher) PublishCustomerLoggedIn(_ context.Context, event domain.CustomerLoggedInEvent) error {
	p.loggedIn = append(p.loggedIn, event)
	return nil
}

func (p *capturingPublisher) PublishConfirmationRequested(_ context.Context, event domain.ConfirmationRequestedEvent) error {
	p.confirmation = append(p.confirmation, event)
	return nil
}

type capturingDispatcher struct {
	notices []ConfirmationNotification
}

func (d *capturingDispatcher) SendConfirmationNotice(_ context.Context, notice ConfirmationNotification) error {
	d.notices = append(d.notices, notice)
	return nil
}

func testConfig(confirmationRequired bool) *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Name: "login-with-phone", Env: "test"},
		Security: config.SecuritySettings{
			ConfirmationRequired: confirmationRequired,
		},
	}
}

func strptr(v string) *string {
	return &v
}

func enabledCustomer(id, email string) domain.Customer {
	return domain.Customer{
		ID:           id,
		Email:        email,
		PasswordHash: "hash:secret",
		PasswordAlgo: "argon2id",
		Enabled:      true,
		CreatedAt:    time.Now().UTC(),
	}
}
