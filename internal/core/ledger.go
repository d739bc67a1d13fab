package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockMovement is one immutable entry in the stock ledger. Quantity is a
// signed delta; PreviousQuantity/NewQuantity snapshot the item's stock level
// around it, so NewQuantity = PreviousQuantity + Quantity always holds.
type StockMovement struct {
	ID               int              `json:"id"`
	InventoryItemID  int              `json:"inventory_item_id"`
	MovementType     MovementType     `json:"movement_type"`
	Quantity         int              `json:"quantity"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType    *string          `json:"reference_type,omitempty"`
	ReferenceID      *int             `json:"reference_id,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	CreatedBy        *string          `json:"created_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// MovementInput holds the fields for recording a stock movement.
type MovementInput struct {
	ItemID        int
	Type          MovementType
	Quantity      int // signed delta; positive increases stock
	ReferenceType string
	ReferenceID   *int
	Notes         string
	UnitCost      *decimal.Decimal
	CreatedBy     string
}

// MovementFilter selects and pages ledger listings.
type MovementFilter struct {
	ItemID *int
	Type   *MovementType
	From   *time.Time
	To     *time.Time
	Page   Page
}

// StockLedger is the single path through which an inventory item's quantity
// may change. Every change lands as a stock_movements row plus the quantity
// update, committed together; a movement that would drive the quantity
// negative is rejected entirely.
type StockLedger struct {
	pool *pgxpool.Pool
}

// NewStockLedger constructs a StockLedger backed by the given pool.
func NewStockLedger(pool *pgxpool.Pool) *StockLedger {
	return &StockLedger{pool: pool}
}

// RecordMovement records a movement in its own transaction.
func (l *StockLedger) RecordMovement(ctx context.Context, input MovementInput) (*StockMovement, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	mv, err := l.RecordMovementTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return mv, nil
}

// RecordMovementTx records a movement within the caller's transaction.
// Used by the order and purchase-order flows to keep their ledger entries
// atomic with the rest of their writes.
//
// The item row is locked FOR UPDATE, so concurrent movements against the same
// item serialize and cannot both pass the negative-stock guard.
func (l *StockLedger) RecordMovementTx(ctx context.Context, tx pgx.Tx, input MovementInput) (*StockMovement, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("invalid movement type %q", input.Type)
	}

	var sku, name string
	var previous int
	err := tx.QueryRow(ctx,
		"SELECT sku, name, quantity FROM inventory_items WHERE id = $1 FOR UPDATE",
		input.ItemID,
	).Scan(&sku, &name, &previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "inventory item", Ref: strconv.Itoa(input.ItemID)}
		}
		return nil, fmt.Errorf("failed to lock inventory item %d: %w", input.ItemID, err)
	}

	next := previous + input.Quantity
	if next < 0 {
		return nil, &InsufficientStockError{
			ItemID:    input.ItemID,
			SKU:       sku,
			Name:      name,
			Available: previous,
			Requested: -input.Quantity,
		}
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	var mv StockMovement
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_movements (inventory_item_id, movement_type, quantity,
		                             previous_quantity, new_quantity, unit_cost,
		                             reference_type, reference_id, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, inventory_item_id, movement_type, quantity, previous_quantity,
		          new_quantity, unit_cost, reference_type, reference_id, notes,
		          created_by, created_at`,
		input.ItemID, input.Type, input.Quantity, previous, next, input.UnitCost,
		toPtr(input.ReferenceType), input.ReferenceID, toPtr(input.Notes), toPtr(input.CreatedBy),
	).Scan(
		&mv.ID, &mv.InventoryItemID, &mv.MovementType, &mv.Quantity, &mv.PreviousQuantity,
		&mv.NewQuantity, &mv.UnitCost, &mv.ReferenceType, &mv.ReferenceID, &mv.Notes,
		&mv.CreatedBy, &mv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE inventory_items SET quantity = $1, updated_at = NOW() WHERE id = $2",
		next, input.ItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity for item %d: %w", input.ItemID, err)
	}

	return &mv, nil
}

// ListMovements returns ledger entries matching the filter, newest first,
// plus the total match count for pagination.
func (l *StockLedger) ListMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.ItemID != nil {
		args = append(args, *filter.ItemID)
		where = append(where, "inventory_item_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where = append(where, "movement_type = $"+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, "created_at <= $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := l.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM stock_movements WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}

	args = append(args, filter.Page.Size, filter.Page.Offset())
	rows, err := l.pool.Query(ctx, `
		SELECT id, inventory_item_id, movement_type, quantity, previous_quantity,
		       new_quantity, unit_cost, reference_type, reference_id, notes,
		       created_by, created_at
		FROM stock_movements
		WHERE `+cond+`
		ORDER BY created_at DESC, id DESC
		LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var mv StockMovement
		if err := rows.Scan(
			&mv.ID, &mv.InventoryItemID, &mv.MovementType, &mv.Quantity, &mv.PreviousQuantity,
			&mv.NewQuantity, &mv.UnitCost, &mv.ReferenceType, &mv.ReferenceID, &mv.Notes,
			&mv.CreatedBy, &mv.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, mv)
	}
	return movements, total, nil
}
