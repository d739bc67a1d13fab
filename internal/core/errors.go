package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain error kinds surfaced to callers. The web layer maps these to HTTP
// status codes; none of them are transient, so nothing retries them except
// the order-number collision handled inside CreateOrder.

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string // "inventory item", "customer", "order", ...
	Ref    string // id or business key as shown to the caller
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

// InsufficientStockError reports a decrement that would drive an item's
// quantity negative. It carries enough detail to render a user-facing message.
type InsufficientStockError struct {
	ItemID    int
	SKU       string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s (%s): available %d, requested %d",
		e.SKU, e.Name, e.Available, e.Requested)
}

// InvalidStateError reports an illegal status transition.
type InvalidStateError struct {
	Entity string
	Ref    string
	Status string
	Action string
}

func (e *InvalidStateError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("cannot %s %s %s", e.Action, e.Entity, e.Ref)
	}
	return fmt.Sprintf("cannot %s %s %s: status is %s", e.Action, e.Entity, e.Ref, e.Status)
}

// ConflictError reports a unique-key collision such as a duplicate SKU or email.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err is (or wraps) an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError.
func IsInvalidState(err error) bool {
	var iv *InvalidStateError
	return errors.As(err, &iv)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). Used both to map racing inserts to
// ConflictError and to drive the order-number retry loop.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
