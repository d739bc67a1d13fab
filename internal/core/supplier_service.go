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

// SupplierService handles supplier CRUD. Suppliers referenced by inventory
// items or purchase orders are deactivated rather than deleted.
type SupplierService interface {
	GetSupplier(ctx context.Context, id int) (*Supplier, error)
	ListSuppliers(ctx context.Context, filter SupplierFilter) ([]Supplier, int, error)
	CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error)
	UpdateSupplier(ctx context.Context, id int, update SupplierUpdate) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id int) (bool, error)
}

type supplierService struct {
	pool *pgxpool.Pool
}

// NewSupplierService constructs a SupplierService backed by the given pool.
func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

const supplierColumns = `id, name, contact_person, email, phone, address,
	is_active, created_at, updated_at`

func scanSupplier(row pgx.Row) (*Supplier, error) {
	var sp Supplier
	err := row.Scan(&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Email, &sp.Phone,
		&sp.Address, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	sp, err := scanSupplier(s.pool.QueryRow(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "supplier", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}
	return sp, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, filter SupplierFilter) ([]Supplier, int, error) {
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
		"SELECT COUNT(*) FROM suppliers WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	args = append(args, filter.Page.Size, filter.Page.Offset())
	rows, err := s.pool.Query(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE "+cond+
			" ORDER BY name ASC LIMIT $"+strconv.Itoa(len(args)-1)+
			" OFFSET $"+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		sp, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, *sp)
	}
	return suppliers, total, nil
}

func (s *supplierService) CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" {
		return nil, fmt.Errorf("supplier name and email are required")
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	sp, err := scanSupplier(s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_person, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+supplierColumns,
		input.Name, toPtr(input.ContactPerson), email, toPtr(input.Phone), toPtr(input.Address)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "supplier", Field: "email", Value: email}
		}
		return nil, fmt.Errorf("failed to insert supplier: %w", err)
	}
	return sp, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id int, update SupplierUpdate) (*Supplier, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.ContactPerson != nil {
		add("contact_person", *update.ContactPerson)
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
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}

	args = append(args, id)
	sp, err := scanSupplier(s.pool.QueryRow(ctx,
		"UPDATE suppliers SET "+strings.Join(sets, ", ")+
			" WHERE id = $"+strconv.Itoa(len(args))+" RETURNING "+supplierColumns,
		args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "supplier", Ref: strconv.Itoa(id)}
		}
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "supplier", Field: "email", Value: deref(update.Email)}
		}
		return nil, fmt.Errorf("failed to update supplier %d: %w", id, err)
	}
	return sp, nil
}

// DeleteSupplier removes a supplier. A supplier referenced by items or
// purchase orders is deactivated instead; the bool reports whether the row
// was actually deleted.
func (s *supplierService) DeleteSupplier(ctx context.Context, id int) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check supplier %d: %w", id, err)
	}
	if !exists {
		return false, &NotFoundError{Entity: "supplier", Ref: strconv.Itoa(id)}
	}

	var refs int
	err = tx.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM inventory_items WHERE supplier_id = $1)
		     + (SELECT COUNT(*) FROM purchase_orders WHERE supplier_id = $1)`, id,
	).Scan(&refs)
	if err != nil {
		return false, fmt.Errorf("failed to count supplier references: %w", err)
	}

	hard := refs == 0
	if hard {
		_, err = tx.Exec(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE suppliers SET is_active = false, updated_at = NOW() WHERE id = $1", id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete supplier %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit supplier delete: %w", err)
	}
	return hard, nil
}
