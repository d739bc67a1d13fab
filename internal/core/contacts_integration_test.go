package core_test

import (
	"context"
	"testing"

	"inventory-backend/internal/core"

	"github.com/shopspring/decimal"
)

func TestCustomer_DuplicateEmailConflict(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	customers := core.NewCustomerService(pool)
	ctx := context.Background()

	if _, err := customers.CreateCustomer(ctx, core.CustomerInput{
		Name:  "Sam Ortiz",
		Email: "Sam@Example.Test",
	}); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	// Emails are lowercased, so a different-cased duplicate still conflicts.
	_, err := customers.CreateCustomer(ctx, core.CustomerInput{
		Name:  "Other Sam",
		Email: "sam@example.test",
	})
	if !core.IsConflict(err) {
		t.Fatalf("Expected ConflictError for duplicate email, got %v", err)
	}
}

func TestCustomer_DeleteSoftWhenOrdersExist(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	customers := core.NewCustomerService(pool)
	ledger := core.NewStockLedger(pool)
	orders := core.NewOrderService(pool, ledger)
	ctx := context.Background()

	customerID := seedCustomer(t, pool)
	itemID := seedItem(t, pool, "CUST-1", 10, "1.00", "0.50")
	if _, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: customerID,
		Lines:      []core.OrderLineInput{{ItemID: itemID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	hard, err := customers.DeleteCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if hard {
		t.Error("Expected soft delete for customer with orders")
	}
	c, err := customers.GetCustomer(ctx, customerID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if c.IsActive {
		t.Error("Customer with orders still active after delete")
	}

	// A customer without orders is removed outright.
	fresh, err := customers.CreateCustomer(ctx, core.CustomerInput{
		Name:  "Temp",
		Email: "temp@example.test",
	})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	hard, err = customers.DeleteCustomer(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if !hard {
		t.Error("Expected hard delete for customer without orders")
	}
}

func TestSupplier_DeleteSoftWhenReferenced(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	suppliers := core.NewSupplierService(pool)
	items := core.NewItemService(pool)
	ctx := context.Background()

	supplierID := seedSupplier(t, pool)
	if _, err := items.CreateItem(ctx, core.ItemInput{
		SKU:        "SUPP-1",
		Name:       "Sourced Part",
		Category:   core.CategoryOther,
		Price:      decimal.RequireFromString("3.00"),
		SupplierID: &supplierID,
	}); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	hard, err := suppliers.DeleteSupplier(ctx, supplierID)
	if err != nil {
		t.Fatalf("DeleteSupplier failed: %v", err)
	}
	if hard {
		t.Error("Expected soft delete for supplier referenced by an item")
	}
	sp, err := suppliers.GetSupplier(ctx, supplierID)
	if err != nil {
		t.Fatalf("GetSupplier failed: %v", err)
	}
	if sp.IsActive {
		t.Error("Referenced supplier still active after delete")
	}
}

func TestSupplier_SearchMatchesNameAndEmail(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	suppliers := core.NewSupplierService(pool)
	ctx := context.Background()

	if _, err := suppliers.CreateSupplier(ctx, core.SupplierInput{
		Name:  "Northern Parts Co",
		Email: "orders@northern.test",
	}); err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}

	found, total, err := suppliers.ListSuppliers(ctx, core.SupplierFilter{
		Search: "northern",
		Page:   core.NormalizePage(1, 50),
	})
	if err != nil {
		t.Fatalf("ListSuppliers failed: %v", err)
	}
	if total != 1 || found[0].Name != "Northern Parts Co" {
		t.Errorf("Search returned %d suppliers, want the Northern Parts Co row", total)
	}
}
