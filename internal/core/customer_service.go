package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService handles customer CRUD. Email addresses are unique;
// customers referenced by orders are deactivated rather than deleted.
type CustomerService interface {
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, int, error)
	CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int, update CustomerUpdate) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int) (bool, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by the given pool.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

const customerColumns = `id, name, email, phone, address, city, country,
	is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.Country, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "customer", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(name ILIKE $"+n+" OR email ILIKE $"+n+")")
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM customers WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	args = append(args, filter.Page.Size, filter.Page.Offset())
	rows, err := s.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE "+cond+
			" ORDER BY name ASC LIMIT $"+strconv.Itoa(len(args)-1)+
			" OFFSET $"+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, total, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" {
		return nil, fmt.Errorf("customer name and email are required")
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, address, city, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		input.Name, email, toPtr(input.Phone), toPtr(input.Address),
		toPtr(input.City), toPtr(input.Country)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "customer", Field: "email", Value: email}
		}
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int, update CustomerUpdate) (*Customer, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Email != nil {
		add("email", strings.ToLower(strings.TrimSpace(*update.Email)))
	}
	if update.Phone != nil {
		add("phone", *update.Phone)
	}
	if update.Address != nil {
		add("address", *update.Address)
	}
	if update.City != nil {
		add("city", *update.City)
	}
	if update.Country != nil {
		add("country", *update.Country)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}

	args = append(args, id)
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"UPDATE customers SET "+strings.Join(sets, ", ")+
			" WHERE id = $"+strconv.Itoa(len(args))+" RETURNING "+customerColumns,
		args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "customer", Ref: strconv.Itoa(id)}
		}
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "customer", Field: "email", Value: deref(update.Email)}
		}
		return nil, fmt.Errorf("failed to update customer %d: %w", id, err)
	}
	return c, nil
}

// DeleteCustomer removes a customer. A customer with orders is deactivated
// instead; the bool reports whether the row was actually deleted.
func (s *customerService) DeleteCustomer(ctx context.Context, id int) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check customer %d: %w", id, err)
	}
	if !exists {
		return false, &NotFoundError{Entity: "customer", Ref: strconv.Itoa(id)}
	}

	var refs int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders WHERE customer_id = $1", id).Scan(&refs); err != nil {
		return false, fmt.Errorf("failed to count customer references: %w", err)
	}

	hard := refs == 0
	if hard {
		_, err = tx.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE customers SET is_active = false, updated_at = NOW() WHERE id = $1", id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete customer %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit customer delete: %w", err)
	}
	return hard, nil
}
