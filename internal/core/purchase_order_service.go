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

// PurchaseOrderService handles replenishment orders against suppliers.
// Receiving stock books IN movements through the stock ledger in the same
// transaction that updates the received counters.
type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filter PurchaseOrderFilter) ([]PurchaseOrder, int, error)
	ReceivePurchaseOrder(ctx context.Context, id int, receipts []ReceiptLine, receivedBy string) (*PurchaseOrder, error)
	CancelPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error)
}

type purchaseOrderService struct {
	pool   *pgxpool.Pool
	ledger *StockLedger
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by the
// given pool.
func NewPurchaseOrderService(pool *pgxpool.Pool, ledger *StockLedger) PurchaseOrderService {
	return &purchaseOrderService{pool: pool, ledger: ledger}
}

const poColumns = `id, po_number, supplier_id, status, total_amount, notes,
	order_date, expected_date, received_date, created_at, updated_at`

func scanPurchaseOrder(row pgx.Row) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := row.Scan(
		&po.ID, &po.PONumber, &po.SupplierID, &po.Status, &po.TotalAmount, &po.Notes,
		&po.OrderDate, &po.ExpectedDate, &po.ReceivedDate, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func nextPONumber(ctx context.Context, tx pgx.Tx) (string, error) {
	prefix := "PO-" + time.Now().Format("20060102")
	var count int
	err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM purchase_orders WHERE po_number LIKE $1", prefix+"-%",
	).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count today's purchase orders: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// CreatePurchaseOrder creates a purchase order with its lines. No stock moves
// at creation; stock arrives through ReceivePurchaseOrder.
func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("purchase order must have at least one line")
	}

	var po *PurchaseOrder
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		po, err = s.createOnce(ctx, input)
		if err != nil && isUniqueViolation(err) {
			continue
		}
		break
	}
	return po, err
}

func (s *purchaseOrderService) createOnce(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var supplierID int
	err = tx.QueryRow(ctx, "SELECT id FROM suppliers WHERE id = $1", input.SupplierID).Scan(&supplierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "supplier", Ref: strconv.Itoa(input.SupplierID)}
		}
		return nil, fmt.Errorf("failed to look up supplier %d: %w", input.SupplierID, err)
	}

	total := decimal.Zero
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("purchase order line quantity must be positive")
		}
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)", line.ItemID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check inventory item %d: %w", line.ItemID, err)
		}
		if !exists {
			return nil, &NotFoundError{Entity: "inventory item", Ref: strconv.Itoa(line.ItemID)}
		}
		total = total.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	number, err := nextPONumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	po, err := scanPurchaseOrder(tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (po_number, supplier_id, status, total_amount, notes, expected_date)
		VALUES ($1, $2, 'pending', $3, $4, $5)
		RETURNING `+poColumns,
		number, input.SupplierID, total, toPtr(input.Notes), input.ExpectedDate))
	if err != nil {
		return nil, fmt.Errorf("failed to insert purchase order: %w", err)
	}

	for _, line := range input.Lines {
		lineTotal := line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
		var item PurchaseOrderItem
		err := tx.QueryRow(ctx, `
			INSERT INTO purchase_order_items (purchase_order_id, inventory_item_id,
			                                  quantity_ordered, quantity_received, unit_cost, line_total)
			VALUES ($1, $2, $3, 0, $4, $5)
			RETURNING id, purchase_order_id, inventory_item_id, quantity_ordered,
			          quantity_received, unit_cost, line_total`,
			po.ID, line.ItemID, line.Quantity, line.UnitCost, lineTotal,
		).Scan(&item.ID, &item.PurchaseOrderID, &item.InventoryItemID,
			&item.QuantityOrdered, &item.QuantityReceived, &item.UnitCost, &item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert purchase order line: %w", err)
		}
		po.Items = append(po.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase order: %w", err)
	}
	return po, nil
}

// GetPurchaseOrder returns a purchase order with its lines.
func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	po, err := scanPurchaseOrder(s.pool.QueryRow(ctx,
		"SELECT "+poColumns+" FROM purchase_orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "purchase order", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get purchase order %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, purchase_order_id, inventory_item_id, quantity_ordered,
		       quantity_received, unit_cost, line_total
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.PurchaseOrderID, &item.InventoryItemID,
			&item.QuantityOrdered, &item.QuantityReceived, &item.UnitCost, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order line: %w", err)
		}
		po.Items = append(po.Items, item)
	}
	return po, nil
}

// ListPurchaseOrders returns purchase-order headers matching the filter,
// newest first, plus the total match count.
func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderFilter) ([]PurchaseOrder, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		where = append(where, "supplier_id = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM purchase_orders WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	args = append(args, filter.Page.Size, filter.Page.Offset())
	rows, err := s.pool.Query(ctx,
		"SELECT "+poColumns+" FROM purchase_orders WHERE "+cond+
			" ORDER BY order_date DESC, id DESC LIMIT $"+strconv.Itoa(len(args)-1)+
			" OFFSET $"+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		pos = append(pos, *po)
	}
	return pos, total, nil
}

// ReceivePurchaseOrder books a delivery against a purchase order. Each
// receipt line books an IN movement at the line's unit cost and bumps the
// line's received counter, all in one transaction. When every line is fully
// received the order moves to delivered and the received date is stamped;
// a partial delivery leaves it confirmed.
func (s *purchaseOrderService) ReceivePurchaseOrder(ctx context.Context, id int, receipts []ReceiptLine, receivedBy string) (*PurchaseOrder, error) {
	if len(receipts) == 0 {
		return nil, fmt.Errorf("receipt must have at least one line")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := scanPurchaseOrder(tx.QueryRow(ctx,
		"SELECT "+poColumns+" FROM purchase_orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "purchase order", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to lock purchase order %d: %w", id, err)
	}
	if po.Status == POStatusCancelled || po.Status == POStatusDelivered {
		return nil, &InvalidStateError{
			Entity: "purchase order",
			Ref:    po.PONumber,
			Status: string(po.Status),
			Action: "receive",
		}
	}

	for _, r := range receipts {
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("receipt quantity must be positive")
		}
		var itemID, ordered, received int
		var unitCost decimal.Decimal
		err := tx.QueryRow(ctx, `
			SELECT inventory_item_id, quantity_ordered, quantity_received, unit_cost
			FROM purchase_order_items WHERE id = $1 AND purchase_order_id = $2 FOR UPDATE`,
			r.LineID, id,
		).Scan(&itemID, &ordered, &received, &unitCost)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &NotFoundError{Entity: "purchase order line", Ref: strconv.Itoa(r.LineID)}
			}
			return nil, fmt.Errorf("failed to lock purchase order line %d: %w", r.LineID, err)
		}
		if received+r.Quantity > ordered {
			return nil, fmt.Errorf("receipt for line %d exceeds quantity ordered (%d of %d already received)",
				r.LineID, received, ordered)
		}

		refID := po.ID
		cost := unitCost
		_, err = s.ledger.RecordMovementTx(ctx, tx, MovementInput{
			ItemID:        itemID,
			Type:          MovementIn,
			Quantity:      r.Quantity,
			ReferenceType: "purchase_order",
			ReferenceID:   &refID,
			Notes:         "Received against " + po.PONumber,
			UnitCost:      &cost,
			CreatedBy:     receivedBy,
		})
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx,
			"UPDATE purchase_order_items SET quantity_received = quantity_received + $1 WHERE id = $2",
			r.Quantity, r.LineID)
		if err != nil {
			return nil, fmt.Errorf("failed to update received quantity for line %d: %w", r.LineID, err)
		}
	}

	var outstanding int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM purchase_order_items
		WHERE purchase_order_id = $1 AND quantity_received < quantity_ordered`, id,
	).Scan(&outstanding)
	if err != nil {
		return nil, fmt.Errorf("failed to check outstanding lines: %w", err)
	}

	if outstanding == 0 {
		po, err = scanPurchaseOrder(tx.QueryRow(ctx, `
			UPDATE purchase_orders SET status = 'delivered', received_date = NOW(), updated_at = NOW()
			WHERE id = $1 RETURNING `+poColumns, id))
	} else {
		po, err = scanPurchaseOrder(tx.QueryRow(ctx, `
			UPDATE purchase_orders SET status = 'confirmed', updated_at = NOW()
			WHERE id = $1 RETURNING `+poColumns, id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase order %d status: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase order receipt: %w", err)
	}
	return po, nil
}

// CancelPurchaseOrder cancels a purchase order. Once any stock has been
// received against it the order can no longer be cancelled.
func (s *purchaseOrderService) CancelPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := scanPurchaseOrder(tx.QueryRow(ctx,
		"SELECT "+poColumns+" FROM purchase_orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "purchase order", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to lock purchase order %d: %w", id, err)
	}
	if po.Status == POStatusCancelled || po.Status == POStatusDelivered {
		return nil, &InvalidStateError{
			Entity: "purchase order",
			Ref:    po.PONumber,
			Status: string(po.Status),
			Action: "cancel",
		}
	}

	var receivedAny bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchase_order_items
		               WHERE purchase_order_id = $1 AND quantity_received > 0)`, id,
	).Scan(&receivedAny)
	if err != nil {
		return nil, fmt.Errorf("failed to check received lines: %w", err)
	}
	if receivedAny {
		return nil, &InvalidStateError{
			Entity: "purchase order",
			Ref:    po.PONumber,
			Status: "partially received",
			Action: "cancel",
		}
	}

	po, err = scanPurchaseOrder(tx.QueryRow(ctx, `
		UPDATE purchase_orders SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 RETURNING `+poColumns, id))
	if err != nil {
		return nil, fmt.Errorf("failed to mark purchase order %d cancelled: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase order cancellation: %w", err)
	}
	return po, nil
}
