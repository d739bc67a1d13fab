package core_test

import (
	"context"
	"testing"

	"inventory-backend/internal/core"
)

func TestLedger_SnapshotPair(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "WIDGET-1", 10, "19.99", "8.50")

	mv, err := ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:   itemID,
		Type:     core.MovementIn,
		Quantity: 5,
		Notes:    "restock",
	})
	if err != nil {
		t.Fatalf("RecordMovement failed: %v", err)
	}

	if mv.PreviousQuantity != 10 || mv.NewQuantity != 15 {
		t.Errorf("Snapshot pair = (%d, %d), want (10, 15)", mv.PreviousQuantity, mv.NewQuantity)
	}
	if mv.NewQuantity != mv.PreviousQuantity+mv.Quantity {
		t.Errorf("NewQuantity %d != PreviousQuantity %d + Quantity %d",
			mv.NewQuantity, mv.PreviousQuantity, mv.Quantity)
	}
	if got := itemQuantity(t, pool, itemID); got != 15 {
		t.Errorf("Item quantity = %d, want 15", got)
	}
}

func TestLedger_RejectsNegativeStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "WIDGET-2", 3, "9.99", "4.00")

	_, err := ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:   itemID,
		Type:     core.MovementOut,
		Quantity: -5,
	})
	if !core.IsInsufficientStock(err) {
		t.Fatalf("Expected InsufficientStockError, got %v", err)
	}

	// Rejection must leave both the quantity and the ledger untouched.
	if got := itemQuantity(t, pool, itemID); got != 3 {
		t.Errorf("Item quantity after rejected movement = %d, want 3", got)
	}
	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM stock_movements WHERE inventory_item_id = $1", itemID).Scan(&count); err != nil {
		t.Fatalf("Failed to count movements: %v", err)
	}
	if count != 0 {
		t.Errorf("Movement count after rejection = %d, want 0", count)
	}
}

func TestLedger_DrainToZeroThenFail(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "WIDGET-3", 4, "5.00", "2.00")

	mv, err := ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:   itemID,
		Type:     core.MovementOut,
		Quantity: -4,
	})
	if err != nil {
		t.Fatalf("Drain to zero failed: %v", err)
	}
	if mv.NewQuantity != 0 {
		t.Errorf("NewQuantity = %d, want 0", mv.NewQuantity)
	}

	_, err = ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:   itemID,
		Type:     core.MovementOut,
		Quantity: -1,
	})
	if !core.IsInsufficientStock(err) {
		t.Fatalf("Expected InsufficientStockError at zero stock, got %v", err)
	}
	if got := itemQuantity(t, pool, itemID); got != 0 {
		t.Errorf("Item quantity = %d, want 0", got)
	}
}

func TestLedger_ReferenceFieldsRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "WIDGET-7", 5, "2.00", "1.00")

	refID := 42
	mv, err := ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:        itemID,
		Type:          core.MovementIn,
		Quantity:      1,
		ReferenceType: "stocktake",
		ReferenceID:   &refID,
	})
	if err != nil {
		t.Fatalf("RecordMovement failed: %v", err)
	}
	if mv.ReferenceType == nil || *mv.ReferenceType != "stocktake" {
		t.Errorf("ReferenceType = %v, want stocktake", mv.ReferenceType)
	}
	if mv.ReferenceID == nil || *mv.ReferenceID != 42 {
		t.Errorf("ReferenceID = %v, want 42", mv.ReferenceID)
	}
}

func TestLedger_ZeroDeltaLeavesQuantityUnchanged(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "WIDGET-6", 8, "3.00", "1.00")

	mv, err := ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:   itemID,
		Type:     core.MovementAdjustment,
		Quantity: 0,
		Notes:    "cycle count, no variance",
	})
	if err != nil {
		t.Fatalf("Zero-delta movement failed: %v", err)
	}
	if mv.PreviousQuantity != 8 || mv.NewQuantity != 8 {
		t.Errorf("Snapshot pair = (%d, %d), want (8, 8)", mv.PreviousQuantity, mv.NewQuantity)
	}
	if got := itemQuantity(t, pool, itemID); got != 8 {
		t.Errorf("Item quantity = %d, want 8", got)
	}
}

func TestLedger_UnknownItem(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	_, err := ledger.RecordMovement(context.Background(), core.MovementInput{
		ItemID:   999999,
		Type:     core.MovementIn,
		Quantity: 1,
	})
	if !core.IsNotFound(err) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestLedger_QuantityEqualsSumOfDeltas(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "WIDGET-4", 20, "12.00", "6.00")

	deltas := []struct {
		mt  core.MovementType
		qty int
	}{
		{core.MovementIn, 10},
		{core.MovementOut, -7},
		{core.MovementAdjustment, -3},
		{core.MovementReturn, 2},
		{core.MovementDamage, -1},
	}
	for _, d := range deltas {
		if _, err := ledger.RecordMovement(ctx, core.MovementInput{
			ItemID:   itemID,
			Type:     d.mt,
			Quantity: d.qty,
		}); err != nil {
			t.Fatalf("RecordMovement(%s, %d) failed: %v", d.mt, d.qty, err)
		}
	}

	var sum int
	if err := pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE inventory_item_id = $1",
		itemID).Scan(&sum); err != nil {
		t.Fatalf("Failed to sum deltas: %v", err)
	}
	if got := itemQuantity(t, pool, itemID); got != 20+sum {
		t.Errorf("Quantity = %d, want initial 20 + sum of deltas %d = %d", got, sum, 20+sum)
	}
}

func TestLedger_ListMovementsFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	ctx := context.Background()
	itemA := seedItem(t, pool, "WIDGET-5A", 10, "1.00", "0.50")
	itemB := seedItem(t, pool, "WIDGET-5B", 10, "1.00", "0.50")

	for _, in := range []core.MovementInput{
		{ItemID: itemA, Type: core.MovementIn, Quantity: 1},
		{ItemID: itemA, Type: core.MovementOut, Quantity: -1},
		{ItemID: itemB, Type: core.MovementIn, Quantity: 2},
	} {
		if _, err := ledger.RecordMovement(ctx, in); err != nil {
			t.Fatalf("RecordMovement failed: %v", err)
		}
	}

	movements, total, err := ledger.ListMovements(ctx, core.MovementFilter{
		ItemID: &itemA,
		Page:   core.NormalizePage(1, 50),
	})
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if total != 2 || len(movements) != 2 {
		t.Errorf("Item filter returned %d/%d movements, want 2/2", len(movements), total)
	}

	in := core.MovementIn
	movements, total, err = ledger.ListMovements(ctx, core.MovementFilter{
		Type: &in,
		Page: core.NormalizePage(1, 50),
	})
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Type filter returned %d movements, want 2", total)
	}
	for _, mv := range movements {
		if mv.MovementType != core.MovementIn {
			t.Errorf("Type filter returned movement of type %s", mv.MovementType)
		}
	}
}
