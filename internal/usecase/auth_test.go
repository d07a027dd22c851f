package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/config"
	"github.com/thelia-modules/LoginWithPhone/internal/infra/security"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

type fakeCustomerRepo struct {
	customers []domain.Customer

	lookupCalls []string
	emailErr    error
	phoneOrErr  error

	created      []domain.Customer
	enabledIDs   []string
	loginStamps  map[string]time.Time
	rememberSets map[string][2]*string
}

func newFakeCustomerRepo(customers ...domain.Customer) *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers:    customers,
		loginStamps:  make(map[string]time.Time),
		rememberSets: make(map[string][2]*string),
	}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer domain.Customer) error {
	r.created = append(r.created, customer)
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
	r.lookupCalls = append(r.lookupCalls, "email")
	if r.emailErr != nil {
		return nil, r.emailErr
	}
	for _, c := range r.customers {
		if c.Email == email {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByCellphone(_ context.Context, cellphone string) (*domain.Customer, error) {
	r.lookupCalls = append(r.lookupCalls, "cellphone")
	for _, c := range r.customers {
		if c.Cellphone != nil && *c.Cellphone == cellphone {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	r.lookupCalls = append(r.lookupCalls, "phone")
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhoneOrCellphone(_ context.Context, number string) ([]domain.Customer, error) {
	r.lookupCalls = append(r.lookupCalls, "phone_or_cellphone")
	if r.phoneOrErr != nil {
		return nil, r.phoneOrErr
	}
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
			r.enabledIDs = append(r.enabledIDs, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeCustomerRepo) UpdateRememberMe(_ context.Context, id string, serial, tokenHash *string) error {
	for _, c := range r.customers {
		if c.ID == id {
			r.rememberSets[id] = [2]*string{serial, tokenHash}
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

// fakeVerifier treats "hash:<password>" as the stored encoding.
type fakeVerifier struct{}

func (fakeVerifier) Verify(password, encoded string) (bool, error) {
	return encoded == "hash:"+password, nil
}

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

func confirmedCustomer(id, email string) domain.Customer {
	return domain.Customer{
		ID:           id,
		Email:        email,
		PasswordHash: "hash:secret",
		PasswordAlgo: "argon2id",
		Enabled:      true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAuthenticateEmailMatch(t *testing.T) {
	repo := newFakeCustomerRepo(confirmedCustomer("cust-1", "jane@example.com"))
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "jane@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthSuccess {
		t.Fatalf("expected success outcome, got %s", outcome.Status)
	}
	if outcome.Customer == nil || outcome.Customer.ID != "cust-1" {
		t.Fatalf("expected customer cust-1 on outcome")
	}
	if !outcome.Authenticated() {
		t.Fatalf("expected Authenticated() true for success")
	}
}

func TestAuthenticateUnknownIdentifier(t *testing.T) {
	repo := newFakeCustomerRepo(confirmedCustomer("cust-1", "jane@example.com"))
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "nobody@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthNotFound {
		t.Fatalf("expected not_found outcome, got %s", outcome.Status)
	}
	if outcome.Customer != nil {
		t.Fatalf("not_found outcome must not carry a customer")
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeCustomerRepo(confirmedCustomer("cust-1", "jane@example.com"))
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "jane@example.com", "nope")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthWrongPassword {
		t.Fatalf("expected wrong_password outcome, got %s", outcome.Status)
	}
	if outcome.Customer != nil {
		t.Fatalf("wrong_password outcome must not carry a customer")
	}
}

func TestAuthenticateRepeatedCallsMatch(t *testing.T) {
	customer := confirmedCustomer("cust-1", "jane@example.com")
	customer.Cellphone = strptr("0612345678")

	repo := newFakeCustomerRepo(customer)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	// Authenticate performs no writes, so identical attempts must classify
	// identically no matter how often they run.
	attempts := []struct {
		identifier string
		password   string
	}{
		{"jane@example.com", "secret"},
		{"0612345678", "secret"},
		{"jane@example.com", "nope"},
		{"nobody@example.com", "secret"},
	}

	for _, attempt := range attempts {
		first, err := svc.Authenticate(context.Background(), attempt.identifier, attempt.password)
		if err != nil {
			t.Fatalf("first Authenticate(%s) returned error: %v", attempt.identifier, err)
		}
		second, err := svc.Authenticate(context.Background(), attempt.identifier, attempt.password)
		if err != nil {
			t.Fatalf("second Authenticate(%s) returned error: %v", attempt.identifier, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("outcomes diverged for %s: %+v vs %+v", attempt.identifier, first, second)
		}
	}
}

func TestAuthenticateSecondCandidateMatches(t *testing.T) {
	first := confirmedCustomer("cust-1", "jane@example.com")
	first.Cellphone = strptr("0612345678")
	first.PasswordHash = "hash:janes-password"

	second := confirmedCustomer("cust-2", "john@example.com")
	second.Phone = strptr("0612345678")
	second.PasswordHash = "hash:johns-password"

	repo := newFakeCustomerRepo(first, second)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "0612345678", "johns-password")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthSuccess {
		t.Fatalf("expected success outcome, got %s", outcome.Status)
	}
	if outcome.Customer.ID != "cust-2" {
		t.Fatalf("expected second candidate to win, got %s", outcome.Customer.ID)
	}
}

func TestAuthenticateSharedNumberNoMatch(t *testing.T) {
	first := confirmedCustomer("cust-1", "jane@example.com")
	first.Cellphone = strptr("0612345678")
	second := confirmedCustomer("cust-2", "john@example.com")
	second.Phone = strptr("0612345678")

	repo := newFakeCustomerRepo(first, second)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "0612345678", "stranger")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthWrongPassword {
		t.Fatalf("expected wrong_password when no candidate verifies, got %s", outcome.Status)
	}
}

func TestAuthenticateConfirmationGate(t *testing.T) {
	pending := confirmedCustomer("cust-1", "jane@example.com")
	pending.Enabled = false
	pending.ConfirmationToken = strptr("token-hash")

	repo := newFakeCustomerRepo(pending)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "jane@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthNotConfirmed {
		t.Fatalf("expected not_confirmed outcome, got %s", outcome.Status)
	}
	if outcome.Customer == nil || outcome.Customer.ID != "cust-1" {
		t.Fatalf("not_confirmed outcome must carry the customer")
	}
}

func TestAuthenticateConfirmationNotEnforced(t *testing.T) {
	pending := confirmedCustomer("cust-1", "jane@example.com")
	pending.Enabled = false
	pending.ConfirmationToken = strptr("token-hash")

	repo := newFakeCustomerRepo(pending)
	svc := NewAuthService(testConfig(false), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "jane@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthSuccess {
		t.Fatalf("expected success when enforcement is off, got %s", outcome.Status)
	}
}

func TestAuthenticateWrongPasswordHidesConfirmationState(t *testing.T) {
	pending := confirmedCustomer("cust-1", "jane@example.com")
	pending.Enabled = false
	pending.ConfirmationToken = strptr("token-hash")

	repo := newFakeCustomerRepo(pending)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "jane@example.com", "nope")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if outcome.Status != domain.AuthWrongPassword {
		t.Fatalf("wrong password must not surface confirmation state, got %s", outcome.Status)
	}
}

func TestAuthenticateEmailWinsOverPhone(t *testing.T) {
	// One customer's email collides with another customer's phone number.
	byEmail := confirmedCustomer("cust-email", "0612345678")
	byEmail.PasswordHash = "hash:email-password"

	byPhone := confirmedCustomer("cust-phone", "john@example.com")
	byPhone.Phone = strptr("0612345678")
	byPhone.PasswordHash = "hash:phone-password"

	repo := newFakeCustomerRepo(byEmail, byPhone)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	outcome, err := svc.Authenticate(context.Background(), "0612345678", "phone-password")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	// The email match suppresses the phone lookup entirely, so the phone
	// owner's password must not authenticate.
	if outcome.Status != domain.AuthWrongPassword {
		t.Fatalf("expected wrong_password, got %s", outcome.Status)
	}
}

func TestAuthenticateBlankInputs(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	if _, err := svc.Authenticate(context.Background(), "", "secret"); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("expected ErrIdentifierRequired, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "jane@example.com", ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if len(repo.lookupCalls) != 0 {
		t.Fatalf("blank inputs must not hit the repository, got calls %v", repo.lookupCalls)
	}
}

func TestRecordLogin(t *testing.T) {
	customer := confirmedCustomer("cust-1", "jane@example.com")
	repo := newFakeCustomerRepo(customer)
	events := &capturingPublisher{}
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, events, zaptest.NewLogger(t))

	if err := svc.RecordLogin(context.Background(), customer, "jane@example.com", true, "203.0.113.7"); err != nil {
		t.Fatalf("RecordLogin returned error: %v", err)
	}

	if _, ok := repo.loginStamps["cust-1"]; !ok {
		t.Fatalf("expected last_login stamp for cust-1")
	}

	if len(events.loggedIn) != 1 {
		t.Fatalf("expected one logged-in event, got %d", len(events.loggedIn))
	}
	event := events.loggedIn[0]
	if event.CustomerID != "cust-1" || !event.RememberMe {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if strings.Contains(event.Identifier, "jane@example.com") {
		t.Fatalf("event identifier must be masked, got %q", event.Identifier)
	}
	if event.IPAddress == "203.0.113.7" {
		t.Fatalf("event IP must be masked, got %q", event.IPAddress)
	}
}

func TestIssueRememberMe(t *testing.T) {
	customer := confirmedCustomer("cust-1", "jane@example.com")
	repo := newFakeCustomerRepo(customer)
	svc := NewAuthService(testConfig(true), repo, fakeVerifier{}, nil, zaptest.NewLogger(t))

	serial, token, err := svc.IssueRememberMe(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("IssueRememberMe returned error: %v", err)
	}
	if serial == "" || token == "" {
		t.Fatalf("expected non-empty serial and token")
	}

	stored, ok := repo.rememberSets["cust-1"]
	if !ok {
		t.Fatalf("expected remember-me pair stored for cust-1")
	}
	if stored[0] == nil || *stored[0] != serial {
		t.Fatalf("stored serial does not match issued serial")
	}
	if stored[1] == nil || *stored[1] == token {
		t.Fatalf("raw token must never be stored, only its hash")
	}
	if *stored[1] != security.HashToken(token) {
		t.Fatalf("stored value is not the token hash")
	}
}
