package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE stock_movements, order_items, orders, purchase_order_items,
			purchase_orders, inventory_items, customers, suppliers, users CASCADE;

		INSERT INTO suppliers (name, email) VALUES ('Acme Wholesale', 'sales@acme.test');
		INSERT INTO customers (name, email) VALUES ('Jordan Reyes', 'jordan@example.test');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

// seedItem inserts an inventory item directly and returns its ID.
func seedItem(t *testing.T, pool *pgxpool.Pool, sku string, quantity int, price, costPrice string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO inventory_items (sku, name, category, quantity, price, cost_price)
		VALUES ($1, $2, 'electronics', $3, $4, $5)
		RETURNING id`,
		sku, "Item "+sku, quantity, decimal.RequireFromString(price), decimal.RequireFromString(costPrice),
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed item %s: %v", sku, err)
	}
	return id
}

// seedCustomer returns the ID of the customer seeded by setupTestDB.
func seedCustomer(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var id int
	if err := pool.QueryRow(context.Background(),
		"SELECT id FROM customers LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("Failed to look up seeded customer: %v", err)
	}
	return id
}

// seedSupplier returns the ID of the supplier seeded by setupTestDB.
func seedSupplier(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var id int
	if err := pool.QueryRow(context.Background(),
		"SELECT id FROM suppliers LIMIT 1").Scan(&id); err != nil {
		t.Fatalf("Failed to look up seeded supplier: %v", err)
	}
	return id
}

// itemQuantity reads an item's current stock level.
func itemQuantity(t *testing.T, pool *pgxpool.Pool, id int) int {
	t.Helper()
	var qty int
	if err := pool.QueryRow(context.Background(),
		"SELECT quantity FROM inventory_items WHERE id = $1", id).Scan(&qty); err != nil {
		t.Fatalf("Failed to read quantity for item %d: %v", id, err)
	}
	return qty
}
