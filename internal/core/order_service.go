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

// OrderService handles the customer order lifecycle. All stock effects of an
// order go through the stock ledger inside the order's own transaction, so an
// order either lands completely (header, lines, movements, quantities) or not
// at all.
type OrderService interface {
	CreateOrder(ctx context.Context, input OrderInput) (*Order, error)
	GetOrder(ctx context.Context, id int) (*Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, int, error)
	UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error)
	CancelOrder(ctx context.Context, id int, cancelledBy string) (*Order, error)
}

type orderService struct {
	pool   *pgxpool.Pool
	ledger *StockLedger
}

// NewOrderService constructs an OrderService backed by the given pool.
func NewOrderService(pool *pgxpool.Pool, ledger *StockLedger) OrderService {
	return &orderService{pool: pool, ledger: ledger}
}

const orderColumns = `id, order_number, customer_id, status, subtotal, tax_rate,
	tax_amount, shipping_cost, total_amount, notes, shipping_address,
	order_date, shipped_date, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.Subtotal, &o.TaxRate,
		&o.TaxAmount, &o.ShippingCost, &o.TotalAmount, &o.Notes, &o.ShippingAddress,
		&o.OrderDate, &o.ShippedDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// nextOrderNumber builds the next sequential number for today, e.g.
// ORD-20260830-0001. The UNIQUE index on order_number is the real guard;
// callers retry on a duplicate.
func nextOrderNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	prefix := "ORD-" + time.Now().Format("20060102")
	var count int
	err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders WHERE order_number LIKE $1", prefix+"-%",
	).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count today's orders: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// CreateOrder creates an order and ships its stock in one transaction.
//
// Every referenced item is locked and checked before any write: if any line
// exceeds available stock the whole order is rejected with an
// InsufficientStockError naming that item. Two concurrent orders can race the
// count-based order number, so creation retries a few times when the unique
// index rejects the generated number.
func (s *orderService) CreateOrder(ctx context.Context, input OrderInput) (*Order, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("order must have at least one line")
	}

	var order *Order
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		order, err = s.createOrderOnce(ctx, input)
		if err != nil && isUniqueViolation(err) {
			continue
		}
		break
	}
	return order, err
}

func (s *orderService) createOrderOnce(ctx context.Context, input OrderInput) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerID int
	err = tx.QueryRow(ctx, "SELECT id FROM customers WHERE id = $1", input.CustomerID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "customer", Ref: strconv.Itoa(input.CustomerID)}
		}
		return nil, fmt.Errorf("failed to look up customer %d: %w", input.CustomerID, err)
	}

	// Lock and preflight every line before writing anything.
	type pricedLine struct {
		itemID    int
		quantity  int
		unitPrice decimal.Decimal
	}
	lines := make([]pricedLine, 0, len(input.Lines))
	subtotal := decimal.Zero
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("order line quantity must be positive")
		}
		var sku, name string
		var available int
		var price decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT sku, name, quantity, price FROM inventory_items WHERE id = $1 FOR UPDATE",
			line.ItemID,
		).Scan(&sku, &name, &available, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &NotFoundError{Entity: "inventory item", Ref: strconv.Itoa(line.ItemID)}
			}
			return nil, fmt.Errorf("failed to lock inventory item %d: %w", line.ItemID, err)
		}
		if available < line.Quantity {
			return nil, &InsufficientStockError{
				ItemID:    line.ItemID,
				SKU:       sku,
				Name:      name,
				Available: available,
				Requested: line.Quantity,
			}
		}
		unitPrice := price
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		lines = append(lines, pricedLine{itemID: line.ItemID, quantity: line.Quantity, unitPrice: unitPrice})
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	taxAmount := subtotal.Mul(input.TaxRate).Round(2)
	total := subtotal.Add(taxAmount).Add(input.ShippingCost)

	number, err := nextOrderNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	order, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, customer_id, status, subtotal, tax_rate,
		                    tax_amount, shipping_cost, total_amount, notes, shipping_address)
		VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns,
		number, input.CustomerID, subtotal, input.TaxRate, taxAmount,
		input.ShippingCost, total, toPtr(input.Notes), toPtr(input.ShippingAddress)))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range lines {
		lineTotal := line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity)))
		var item OrderItem
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, inventory_item_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, order_id, inventory_item_id, quantity, unit_price, line_total`,
			order.ID, line.itemID, line.quantity, line.unitPrice, lineTotal,
		).Scan(&item.ID, &item.OrderID, &item.InventoryItemID, &item.Quantity, &item.UnitPrice, &item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
		order.Items = append(order.Items, item)

		refID := order.ID
		_, err = s.ledger.RecordMovementTx(ctx, tx, MovementInput{
			ItemID:        line.itemID,
			Type:          MovementOut,
			Quantity:      -line.quantity,
			ReferenceType: "order",
			ReferenceID:   &refID,
			Notes:         "Sold via order " + order.OrderNumber,
			CreatedBy:     input.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, nil
}

// GetOrder returns an order with its lines.
func (s *orderService) GetOrder(ctx context.Context, id int) (*Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, inventory_item_id, quantity, unit_price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.InventoryItemID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

// ListOrders returns order headers matching the filter, newest first, plus
// the total match count.
func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]Order, int, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where = append(where, "customer_id = $"+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, "order_date >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, "order_date <= $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	args = append(args, filter.Page.Size, filter.Page.Offset())
	rows, err := s.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE "+cond+
			" ORDER BY order_date DESC, id DESC LIMIT $"+strconv.Itoa(len(args)-1)+
			" OFFSET $"+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, total, nil
}

// UpdateOrderStatus moves an order to a new status. Moving to shipped stamps
// the shipped date. Cancellation must go through CancelOrder so the stock
// comes back; this method rejects it.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid order status %q", status)
	}
	if status == StatusCancelled {
		return nil, &InvalidStateError{
			Entity: "order",
			Ref:    strconv.Itoa(id),
			Action: "cancel via a status update; use the cancellation flow for",
		}
	}

	query := "UPDATE orders SET status = $1, updated_at = NOW()"
	if status == StatusShipped {
		query += ", shipped_date = NOW()"
	}
	query += " WHERE id = $2 RETURNING " + orderColumns

	order, err := scanOrder(s.pool.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to update order %d status: %w", id, err)
	}
	return order, nil
}

// CancelOrder cancels an order and returns its stock to inventory through
// compensating RETURN movements, all in one transaction. Orders already
// shipped, delivered, or cancelled cannot be cancelled.
func (s *orderService) CancelOrder(ctx context.Context, id int, cancelledBy string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", id, err)
	}

	switch order.Status {
	case StatusShipped, StatusDelivered, StatusCancelled:
		return nil, &InvalidStateError{
			Entity: "order",
			Ref:    order.OrderNumber,
			Status: string(order.Status),
			Action: "cancel",
		}
	}

	rows, err := tx.Query(ctx,
		"SELECT inventory_item_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	type line struct{ itemID, quantity int }
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.itemID, &l.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()

	for _, l := range lines {
		refID := order.ID
		_, err := s.ledger.RecordMovementTx(ctx, tx, MovementInput{
			ItemID:        l.itemID,
			Type:          MovementReturn,
			Quantity:      l.quantity,
			ReferenceType: "order_cancellation",
			ReferenceID:   &refID,
			Notes:         "Returned from cancelled order " + order.OrderNumber,
			CreatedBy:     cancelledBy,
		})
		if err != nil {
			return nil, err
		}
	}

	order, err = scanOrder(tx.QueryRow(ctx,
		"UPDATE orders SET status = 'cancelled', updated_at = NOW() WHERE id = $1 RETURNING "+orderColumns, id))
	if err != nil {
		return nil, fmt.Errorf("failed to mark order %d cancelled: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order cancellation: %w", err)
	}
	return order, nil
}
