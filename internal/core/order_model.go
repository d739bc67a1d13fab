package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer order header. Totals are computed once at creation and
// never recomputed; status transitions do not touch the money columns.
type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      int             `json:"customer_id"`
	Status          OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Notes           *string         `json:"notes,omitempty"`
	ShippingAddress *string         `json:"shipping_address,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	ShippedDate     *time.Time      `json:"shipped_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is one line of an order. UnitPrice is captured at order time and
// does not follow later changes to the inventory item's price.
type OrderItem struct {
	ID              int             `json:"id"`
	OrderID         int             `json:"order_id"`
	InventoryItemID int             `json:"inventory_item_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OrderLineInput is one requested line on a new order.
type OrderLineInput struct {
	ItemID    int
	Quantity  int
	UnitPrice *decimal.Decimal // nil means use the item's current price
}

// OrderInput holds the fields for creating an order.
type OrderInput struct {
	CustomerID      int
	Lines           []OrderLineInput
	TaxRate         decimal.Decimal
	ShippingCost    decimal.Decimal
	Notes           string
	ShippingAddress string
	CreatedBy       string
}

// OrderFilter selects and pages order listings.
type OrderFilter struct {
	Status     *OrderStatus
	CustomerID *int
	From       *time.Time
	To         *time.Time
	Page       Page
}
