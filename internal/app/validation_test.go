package app_test

import (
	"context"
	"testing"

	"inventory-backend/internal/app"

	"github.com/shopspring/decimal"
)

// Validation failures are rejected before any service call, so a facade with
// nil services is enough to exercise them.
func newBareService() app.ApplicationService {
	return app.NewAppService(nil, nil, nil, nil, nil, nil, nil, nil)
}

func TestCreateItemValidation(t *testing.T) {
	svc := newBareService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  app.CreateItemRequest
	}{
		{"missing sku", app.CreateItemRequest{Name: "X", Category: "other", Price: decimal.NewFromInt(1)}},
		{"missing name", app.CreateItemRequest{SKU: "A", Category: "other", Price: decimal.NewFromInt(1)}},
		{"bad category", app.CreateItemRequest{SKU: "A", Name: "X", Category: "furniture", Price: decimal.NewFromInt(1)}},
		{"zero price", app.CreateItemRequest{SKU: "A", Name: "X", Category: "other"}},
		{"negative quantity", app.CreateItemRequest{SKU: "A", Name: "X", Category: "other", Price: decimal.NewFromInt(1), Quantity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tt.req)
			if !app.IsValidation(err) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestRecordMovementValidation(t *testing.T) {
	svc := newBareService()
	ctx := context.Background()

	_, err := svc.RecordMovement(ctx, app.RecordMovementRequest{ItemID: 1, Type: "restock", Quantity: 1})
	if !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for bad movement type, got %v", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newBareService()
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, app.CreateOrderRequest{CustomerID: 1})
	if !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for empty lines, got %v", err)
	}

	_, err = svc.CreateOrder(ctx, app.CreateOrderRequest{
		CustomerID: 1,
		Lines:      []app.OrderLineRequest{{ItemID: 1, Quantity: 0}},
	})
	if !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for zero line quantity, got %v", err)
	}

	_, err = svc.CreateOrder(ctx, app.CreateOrderRequest{
		CustomerID: 1,
		Lines:      []app.OrderLineRequest{{ItemID: 1, Quantity: 1}},
		TaxRate:    decimal.RequireFromString("-0.1"),
	})
	if !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for negative tax rate, got %v", err)
	}
}

func TestListRequestValidation(t *testing.T) {
	svc := newBareService()
	ctx := context.Background()

	if _, err := svc.ListItems(ctx, app.ListItemsRequest{Category: "furniture"}); !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for unknown category, got %v", err)
	}
	if _, err := svc.ListMovements(ctx, app.ListMovementsRequest{Type: "restock"}); !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for unknown movement type, got %v", err)
	}
	if _, err := svc.ListOrders(ctx, app.ListOrdersRequest{Status: "argh"}); !app.IsValidation(err) {
		t.Errorf("Expected ValidationError for unknown status, got %v", err)
	}
}
