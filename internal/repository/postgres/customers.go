package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/thelia-modules/LoginWithPhone/internal/core/domain"
	"github.com/thelia-modules/LoginWithPhone/internal/core/port"
	"github.com/thelia-modules/LoginWithPhone/internal/repository"
)

const customersTable = "storefront.customers"

var customerColumns = []string{
	"id",
	"email",
	"phone",
	"cellphone",
	"password_hash",
	"password_algo",
	"confirmation_token",
	"enabled",
	"remember_me_serial",
	"remember_me_token",
	"created_at",
	"last_login",
}

// CustomerRepository implements port.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCustomerRepository wires a PostgreSQL-backed customer repository.
func NewCustomerRepository(exec pgExecutor) *CustomerRepository {
	return &CustomerRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new customer row.
func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) error {
	stmt, args, err := r.builder.Insert(customersTable).
		Columns(customerColumns...).
		Values(
			customer.ID,
			customer.Email,
			customer.Phone,
			customer.Cellphone,
			customer.PasswordHash,
			customer.PasswordAlgo,
			customer.ConfirmationToken,
			customer.Enabled,
			customer.RememberMeSerial,
			customer.RememberMeToken,
			customer.CreatedAt,
			customer.LastLogin,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert customer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id}, "scan customer")
}

// FindByEmail retrieves the single customer owning the email address.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email}, "scan customer by email")
}

// FindByCellphone retrieves the first customer whose cellphone matches exactly.
func (r *CustomerRepository) FindByCellphone(ctx context.Context, cellphone string) (*domain.Customer, error) {
	return r.findOne(ctx, squirrel.Eq{"cellphone": cellphone}, "scan customer by cellphone")
}

// FindByPhone retrieves the first customer whose phone matches exactly.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return r.findOne(ctx, squirrel.Eq{"phone": phone}, "scan customer by phone")
}

// FindByConfirmationToken retrieves the customer holding the hashed
// confirmation token.
func (r *CustomerRepository) FindByConfirmationToken(ctx context.Context, tokenHash string) (*domain.Customer, error) {
	return r.findOne(ctx, squirrel.Eq{"confirmation_token": tokenHash}, "scan customer by confirmation token")
}

// FindByPhoneOrCellphone retrieves every customer matching the number on
// either phone field. A single OR-query guarantees each account appears once
// even when both fields hold the same value.
func (r *CustomerRepository) FindByPhoneOrCellphone(ctx context.Context, number string) ([]domain.Customer, error) {
	stmt, args, err := r.builder.
		Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Or{
			squirrel.Eq{"cellphone": number},
			squirrel.Eq{"phone": number},
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select customers by phone sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers by phone: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer by phone: %w", err)
		}
		customers = append(customers, *customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers by phone: %w", err)
	}

	return customers, nil
}

// Enable marks the account as confirmed: enabled, confirmation token cleared.
func (r *CustomerRepository) Enable(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update(customersTable).
		Set("enabled", true).
		Set("confirmation_token", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build enable customer sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("enable customer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateRememberMe replaces the remember-me serial and token hash. Passing
// nils clears the pair.
func (r *CustomerRepository) UpdateRememberMe(ctx context.Context, id string, serial, tokenHash *string) error {
	stmt, args, err := r.builder.Update(customersTable).
		Set("remember_me_serial", serial).
		Set("remember_me_token", tokenHash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update remember-me sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update remember-me: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// RecordLogin stamps the last successful login time.
func (r *CustomerRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update(customersTable).
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record login sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *CustomerRepository) findOne(ctx context.Context, where squirrel.Eq, scanLabel string) (*domain.Customer, error) {
	stmt, args, err := r.builder.
		Select(customerColumns...).
		From(customersTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select customer sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	customer, err := scanCustomer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", scanLabel, err)
	}

	return customer, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		customer          domain.Customer
		phone             sql.NullString
		cellphone         sql.NullString
		confirmationToken sql.NullString
		rememberMeSerial  sql.NullString
		rememberMeToken   sql.NullString
		lastLogin         *time.Time
	)

	if err := row.Scan(
		&customer.ID,
		&customer.Email,
		&phone,
		&cellphone,
		&customer.PasswordHash,
		&customer.PasswordAlgo,
		&confirmationToken,
		&customer.Enabled,
		&rememberMeSerial,
		&rememberMeToken,
		&customer.CreatedAt,
		&lastLogin,
	); err != nil {
		return nil, err
	}

	customer.LastLogin = lastLogin
	if phone.Valid {
		val := phone.String
		customer.Phone = &val
	}
	if cellphone.Valid {
		val := cellphone.String
		customer.Cellphone = &val
	}
	if confirmationToken.Valid {
		val := confirmationToken.String
		customer.ConfirmationToken = &val
	}
	if rememberMeSerial.Valid {
		val := rememberMeSerial.String
		customer.RememberMeSerial = &val
	}
	if rememberMeToken.Valid {
		val := rememberMeToken.String
		customer.RememberMeToken = &val
	}

	return &customer, nil
}

var _ port.CustomerRepository = (*CustomerRepository)(nil)
