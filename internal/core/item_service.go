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

// ItemService manages the inventory item catalog. It never touches
// inventory_items.quantity beyond the opening value at creation; every later
// change goes through StockLedger.
type ItemService interface {
	GetItem(ctx context.Context, itemID int) (*InventoryItem, error)
	GetItemBySKU(ctx context.Context, sku string) (*InventoryItem, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]InventoryItem, int, error)
	CreateItem(ctx context.Context, input ItemInput) (*InventoryItem, error)
	UpdateItem(ctx context.Context, itemID int, update ItemUpdate) (*InventoryItem, error)
	// DeleteItem soft-disables the item when it is referenced by order lines,
	// purchase order lines, or movements; otherwise it deletes the row.
	// Returns true when the row was hard-deleted.
	DeleteItem(ctx context.Context, itemID int) (bool, error)
}

type itemService struct {
	pool *pgxpool.Pool
}

// NewItemService constructs an ItemService backed by PostgreSQL.
func NewItemService(pool *pgxpool.Pool) ItemService {
	return &itemService{pool: pool}
}

const itemColumns = `id, sku, name, description, category, quantity, price, cost_price,
       barcode, supplier_id, min_stock_level, max_stock_level, location, is_active,
       created_at, updated_at`

func scanItem(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Description, &it.Category, &it.Quantity,
		&it.Price, &it.CostPrice, &it.Barcode, &it.SupplierID,
		&it.MinStockLevel, &it.MaxStockLevel, &it.Location, &it.IsActive,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *itemService) GetItem(ctx context.Context, itemID int) (*InventoryItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM inventory_items WHERE id = $1", itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "inventory item", Ref: strconv.Itoa(itemID)}
		}
		return nil, fmt.Errorf("failed to fetch inventory item %d: %w", itemID, err)
	}
	return it, nil
}

func (s *itemService) GetItemBySKU(ctx context.Context, sku string) (*InventoryItem, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	it, err := scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM inventory_items WHERE sku = $1", sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "inventory item", Ref: sku}
		}
		return nil, fmt.Errorf("failed to fetch inventory item %s: %w", sku, err)
	}
	return it, nil
}

func (s *itemService) ListItems(ctx context.Context, filter ItemFilter) ([]InventoryItem, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(name ILIKE $"+n+" OR sku ILIKE $"+n+" OR description ILIKE $"+n+")")
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM inventory_items WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	args = append(args, filter.Page.Size, filter.Page.Offset())
	q := "SELECT " + itemColumns + " FROM inventory_items WHERE " + cond +
		" ORDER BY created_at DESC, id DESC LIMIT $" + strconv.Itoa(len(args)-1) +
		" OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *it)
	}
	return items, total, nil
}

func (s *itemService) CreateItem(ctx context.Context, input ItemInput) (*InventoryItem, error) {
	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		return nil, fmt.Errorf("sku is required")
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("invalid category %q", input.Category)
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("opening quantity cannot be negative")
	}
	if input.MinStockLevel == 0 {
		input.MinStockLevel = 10
	}
	if input.MaxStockLevel == 0 {
		input.MaxStockLevel = 100
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	it, err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (sku, name, description, category, quantity, price, cost_price,
		                             barcode, supplier_id, min_stock_level, max_stock_level, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+itemColumns,
		sku, input.Name, toPtr(input.Description), input.Category, input.Quantity,
		input.Price, input.CostPrice, toPtr(input.Barcode), input.SupplierID,
		input.MinStockLevel, input.MaxStockLevel, toPtr(input.Location),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "inventory item", Field: "sku", Value: sku}
		}
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return it, nil
}

func (s *itemService) UpdateItem(ctx context.Context, itemID int, update ItemUpdate) (*InventoryItem, error) {
	if update.Category != nil && !update.Category.Valid() {
		return nil, fmt.Errorf("invalid category %q", *update.Category)
	}

	set := []string{"updated_at = NOW()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Category != nil {
		add("category", *update.Category)
	}
	if update.Price != nil {
		add("price", *update.Price)
	}
	if update.CostPrice != nil {
		add("cost_price", *update.CostPrice)
	}
	if update.Barcode != nil {
		add("barcode", *update.Barcode)
	}
	if update.SupplierID != nil {
		add("supplier_id", *update.SupplierID)
	}
	if update.MinStockLevel != nil {
		add("min_stock_level", *update.MinStockLevel)
	}
	if update.MaxStockLevel != nil {
		add("max_stock_level", *update.MaxStockLevel)
	}
	if update.Location != nil {
		add("location", *update.Location)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}

	args = append(args, itemID)
	it, err := scanItem(s.pool.QueryRow(ctx,
		"UPDATE inventory_items SET "+strings.Join(set, ", ")+
			" WHERE id = $"+strconv.Itoa(len(args))+" RETURNING "+itemColumns,
		args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "inventory item", Ref: strconv.Itoa(itemID)}
		}
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "inventory item", Field: "barcode", Value: deref(update.Barcode)}
		}
		return nil, fmt.Errorf("failed to update inventory item %d: %w", itemID, err)
	}
	return it, nil
}

func (s *itemService) DeleteItem(ctx context.Context, itemID int) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)", itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check inventory item %d: %w", itemID, err)
	}
	if !exists {
		return false, &NotFoundError{Entity: "inventory item", Ref: strconv.Itoa(itemID)}
	}

	// Reference-count check decides the delete strategy: rows referenced by
	// orders, purchase orders, or the movement ledger are only disabled.
	var refs int
	err = tx.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM order_items          WHERE inventory_item_id = $1)
		     + (SELECT COUNT(*) FROM purchase_order_items WHERE inventory_item_id = $1)
		     + (SELECT COUNT(*) FROM stock_movements      WHERE inventory_item_id = $1)
	`, itemID).Scan(&refs)
	if err != nil {
		return false, fmt.Errorf("failed to count references for item %d: %w", itemID, err)
	}

	hard := refs == 0
	if hard {
		_, err = tx.Exec(ctx, "DELETE FROM inventory_items WHERE id = $1", itemID)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE inventory_items SET is_active = false, updated_at = NOW() WHERE id = $1", itemID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete inventory item %d: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit item delete: %w", err)
	}
	return hard, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
