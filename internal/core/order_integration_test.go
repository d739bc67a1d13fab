package core_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"inventory-backend/internal/core"

	"github.com/shopspring/decimal"
)

func TestOrder_CreateComputesTotalsAndShipsStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	itemID := seedItem(t, pool, "GADGET-1", 10, "10.00", "4.00")

	order, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID:   customerID,
		Lines:        []core.OrderLineInput{{ItemID: itemID, Quantity: 3}},
		TaxRate:      decimal.RequireFromString("0.08"),
		ShippingCost: decimal.RequireFromString("0.00"),
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if !order.Subtotal.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("Subtotal = %s, want 30.00", order.Subtotal)
	}
	if !order.TaxAmount.Equal(decimal.RequireFromString("2.40")) {
		t.Errorf("TaxAmount = %s, want 2.40", order.TaxAmount)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("32.40")) {
		t.Errorf("TotalAmount = %s, want 32.40", order.TotalAmount)
	}
	if order.Status != core.StatusPending {
		t.Errorf("Status = %s, want pending", order.Status)
	}

	if got := itemQuantity(t, pool, itemID); got != 7 {
		t.Errorf("Item quantity after order = %d, want 7", got)
	}

	var mvQty int
	var refType string
	var refID int
	err = pool.QueryRow(ctx, `
		SELECT quantity, reference_type, reference_id FROM stock_movements
		WHERE inventory_item_id = $1 AND movement_type = 'out'`, itemID,
	).Scan(&mvQty, &refType, &refID)
	if err != nil {
		t.Fatalf("Failed to read OUT movement: %v", err)
	}
	if mvQty != -3 || refType != "order" || refID != order.ID {
		t.Errorf("OUT movement = (%d, %s, %d), want (-3, order, %d)", mvQty, refType, refID, order.ID)
	}
}

func TestOrder_NumberFormat(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	itemID := seedItem(t, pool, "GADGET-2", 10, "5.00", "2.00")

	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{4}$`)
	var numbers []string
	for i := 0; i < 2; i++ {
		order, err := orders.CreateOrder(ctx, core.OrderInput{
			CustomerID: customerID,
			Lines:      []core.OrderLineInput{{ItemID: itemID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
		if !pattern.MatchString(order.OrderNumber) {
			t.Errorf("Order number %q does not match ORD-YYYYMMDD-NNNN", order.OrderNumber)
		}
		numbers = append(numbers, order.OrderNumber)
	}
	if numbers[0] == numbers[1] {
		t.Errorf("Consecutive orders share number %s", numbers[0])
	}
}

func TestOrder_InsufficientStockRejectsWholeOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	okItem := seedItem(t, pool, "GADGET-3A", 100, "1.00", "0.50")
	shortItem := seedItem(t, pool, "GADGET-3B", 2, "1.00", "0.50")

	_, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: customerID,
		Lines: []core.OrderLineInput{
			{ItemID: okItem, Quantity: 10},
			{ItemID: shortItem, Quantity: 5},
		},
	})
	if !core.IsInsufficientStock(err) {
		t.Fatalf("Expected InsufficientStockError, got %v", err)
	}
	var stockErr *core.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Could not unwrap InsufficientStockError from %v", err)
	}
	if stockErr.SKU != "GADGET-3B" || stockErr.Available != 2 || stockErr.Requested != 5 {
		t.Errorf("Error detail = (%s, %d, %d), want (GADGET-3B, 2, 5)",
			stockErr.SKU, stockErr.Available, stockErr.Requested)
	}

	// Nothing may have been written: no order rows, no movements, no
	// quantity change on the line that had enough stock.
	var orderCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&orderCount); err != nil {
		t.Fatalf("Failed to count orders: %v", err)
	}
	if orderCount != 0 {
		t.Errorf("Order count after rejected order = %d, want 0", orderCount)
	}
	if got := itemQuantity(t, pool, okItem); got != 100 {
		t.Errorf("Quantity of in-stock line = %d, want 100", got)
	}
}

func TestOrder_CancelRestocksAndMarksCancelled(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	itemID := seedItem(t, pool, "GADGET-4", 10, "10.00", "4.00")

	order, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: customerID,
		Lines:      []core.OrderLineInput{{ItemID: itemID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	cancelled, err := orders.CancelOrder(ctx, order.ID, "tester")
	if err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if cancelled.Status != core.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", cancelled.Status)
	}
	if got := itemQuantity(t, pool, itemID); got != 10 {
		t.Errorf("Item quantity after cancellation = %d, want 10", got)
	}

	var mvQty int
	var refType string
	err = pool.QueryRow(ctx, `
		SELECT quantity, reference_type FROM stock_movements
		WHERE inventory_item_id = $1 AND movement_type = 'return'`, itemID,
	).Scan(&mvQty, &refType)
	if err != nil {
		t.Fatalf("Failed to read RETURN movement: %v", err)
	}
	if mvQty != 3 || refType != "order_cancellation" {
		t.Errorf("RETURN movement = (%d, %s), want (3, order_cancellation)", mvQty, refType)
	}
}

func TestOrder_CancelBlockedAfterShipment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	itemID := seedItem(t, pool, "GADGET-5", 10, "10.00", "4.00")

	order, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: customerID,
		Lines:      []core.OrderLineInput{{ItemID: itemID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	shipped, err := orders.UpdateOrderStatus(ctx, order.ID, core.StatusShipped)
	if err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if shipped.ShippedDate == nil {
		t.Error("ShippedDate not stamped on shipment")
	}

	_, err = orders.CancelOrder(ctx, order.ID, "tester")
	if !core.IsInvalidState(err) {
		t.Fatalf("Expected InvalidStateError cancelling shipped order, got %v", err)
	}
	if got := itemQuantity(t, pool, itemID); got != 8 {
		t.Errorf("Item quantity after blocked cancellation = %d, want 8", got)
	}
}

func TestOrder_CancelCancelledRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	itemID := seedItem(t, pool, "GADGET-6", 10, "10.00", "4.00")

	order, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: customerID,
		Lines:      []core.OrderLineInput{{ItemID: itemID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := orders.CancelOrder(ctx, order.ID, "tester"); err != nil {
		t.Fatalf("First CancelOrder failed: %v", err)
	}

	_, err = orders.CancelOrder(ctx, order.ID, "tester")
	if !core.IsInvalidState(err) {
		t.Fatalf("Expected InvalidStateError cancelling twice, got %v", err)
	}
	// A second cancellation must not restock again.
	if got := itemQuantity(t, pool, itemID); got != 10 {
		t.Errorf("Item quantity after double cancellation = %d, want 10", got)
	}
}

func TestOrder_StatusUpdateRejectsCancellation(t *testing.T) {
	// The rejection happens before any query, so no database is needed.
	orders := core.NewOrderService(nil, nil)

	_, err := orders.UpdateOrderStatus(context.Background(), 1, core.StatusCancelled)
	if !core.IsInvalidState(err) {
		t.Fatalf("Expected InvalidStateError setting status to cancelled, got %v", err)
	}
}

func TestOrder_UnknownCustomer(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)

	itemID := seedItem(t, pool, "GADGET-7", 10, "10.00", "4.00")
	_, err := orders.CreateOrder(context.Background(), core.OrderInput{
		CustomerID: 999999,
		Lines:      []core.OrderLineInput{{ItemID: itemID, Quantity: 1}},
	})
	if !core.IsNotFound(err) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
