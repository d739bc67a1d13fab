package core_test

import (
	"context"
	"testing"

	"inventory-backend/internal/core"

	"github.com/shopspring/decimal"
)

func TestItem_CreateNormalizesSKU(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	items := core.NewItemService(pool)
	ctx := context.Background()

	item, err := items.CreateItem(ctx, core.ItemInput{
		SKU:      "  abc-123 ",
		Name:     "USB Cable",
		Category: core.CategoryElectronics,
		Quantity: 7,
		Price:    decimal.RequireFromString("9.99"),
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.SKU != "ABC-123" {
		t.Errorf("SKU = %q, want ABC-123", item.SKU)
	}
	if item.Quantity != 7 {
		t.Errorf("Opening quantity = %d, want 7", item.Quantity)
	}
	if item.MinStockLevel != 10 || item.MaxStockLevel != 100 {
		t.Errorf("Stock levels = (%d, %d), want defaults (10, 100)",
			item.MinStockLevel, item.MaxStockLevel)
	}

	// Lookup by SKU is case-insensitive.
	found, err := items.GetItemBySKU(ctx, "abc-123")
	if err != nil {
		t.Fatalf("GetItemBySKU failed: %v", err)
	}
	if found.ID != item.ID {
		t.Errorf("GetItemBySKU returned item %d, want %d", found.ID, item.ID)
	}
}

func TestItem_DuplicateSKUConflict(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	items := core.NewItemService(pool)
	ctx := context.Background()

	input := core.ItemInput{
		SKU:      "DUP-1",
		Name:     "First",
		Category: core.CategoryOther,
		Price:    decimal.RequireFromString("1.00"),
	}
	if _, err := items.CreateItem(ctx, input); err != nil {
		t.Fatalf("First CreateItem failed: %v", err)
	}

	input.Name = "Second"
	_, err := items.CreateItem(ctx, input)
	if !core.IsConflict(err) {
		t.Fatalf("Expected ConflictError for duplicate SKU, got %v", err)
	}
}

func TestItem_UpdateCannotTouchQuantity(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	items := core.NewItemService(pool)
	ctx := context.Background()
	itemID := seedItem(t, pool, "UPD-1", 42, "10.00", "5.00")

	name := "Renamed"
	price := decimal.RequireFromString("12.50")
	item, err := items.UpdateItem(ctx, itemID, core.ItemUpdate{Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if item.Name != "Renamed" || !item.Price.Equal(price) {
		t.Errorf("Update not applied: name=%q price=%s", item.Name, item.Price)
	}
	if item.Quantity != 42 {
		t.Errorf("Quantity changed by update: %d, want 42", item.Quantity)
	}
}

func TestItem_DeleteSoftWhenReferenced(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	items := core.NewItemService(pool)
	ledger := core.NewStockLedger(pool)
	ctx := context.Background()

	// Unreferenced item is hard-deleted.
	freeID := seedItem(t, pool, "DEL-1", 0, "1.00", "0.50")
	hard, err := items.DeleteItem(ctx, freeID)
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if !hard {
		t.Error("Expected hard delete for unreferenced item")
	}
	if _, err := items.GetItem(ctx, freeID); !core.IsNotFound(err) {
		t.Errorf("Expected NotFound after hard delete, got %v", err)
	}

	// An item with ledger history is deactivated instead.
	usedID := seedItem(t, pool, "DEL-2", 5, "1.00", "0.50")
	if _, err := ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:   usedID,
		Type:     core.MovementOut,
		Quantity: -1,
	}); err != nil {
		t.Fatalf("RecordMovement failed: %v", err)
	}
	hard, err = items.DeleteItem(ctx, usedID)
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if hard {
		t.Error("Expected soft delete for item with movement history")
	}
	item, err := items.GetItem(ctx, usedID)
	if err != nil {
		t.Fatalf("GetItem after soft delete failed: %v", err)
	}
	if item.IsActive {
		t.Error("Soft-deleted item still active")
	}
}

func TestItem_ListSearchAndPaging(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	items := core.NewItemService(pool)
	ctx := context.Background()

	seedItem(t, pool, "LIST-1", 1, "1.00", "0.50")
	seedItem(t, pool, "LIST-2", 1, "1.00", "0.50")
	seedItem(t, pool, "OTHER-1", 1, "1.00", "0.50")

	found, total, err := items.ListItems(ctx, core.ItemFilter{
		Search: "list",
		Page:   core.NormalizePage(1, 50),
	})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if total != 2 || len(found) != 2 {
		t.Errorf("Search returned %d/%d items, want 2/2", len(found), total)
	}

	page, total, err := items.ListItems(ctx, core.ItemFilter{Page: core.NormalizePage(2, 2)})
	if err != nil {
		t.Fatalf("ListItems page 2 failed: %v", err)
	}
	if total != 3 || len(page) != 1 {
		t.Errorf("Page 2 of size 2 returned %d items (total %d), want 1 (total 3)", len(page), total)
	}
}
