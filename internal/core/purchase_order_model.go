package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus tracks a purchase order from draft to received.
type PurchaseOrderStatus string

const (
	POStatusPending   PurchaseOrderStatus = "pending"
	POStatusConfirmed PurchaseOrderStatus = "confirmed"
	POStatusDelivered PurchaseOrderStatus = "delivered"
	POStatusCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrder is a replenishment order against a supplier. Receiving stock
// against it books IN movements through the ledger.
type PurchaseOrder struct {
	ID           int                 `json:"id"`
	PONumber     string              `json:"po_number"`
	SupplierID   int                 `json:"supplier_id"`
	Status       PurchaseOrderStatus `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Notes        *string             `json:"notes,omitempty"`
	OrderDate    time.Time           `json:"order_date"`
	ExpectedDate *time.Time          `json:"expected_date,omitempty"`
	ReceivedDate *time.Time          `json:"received_date,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Items []PurchaseOrderItem `json:"items,omitempty"`
}

// PurchaseOrderItem is one line of a purchase order. QuantityReceived tracks
// partial deliveries; the line is complete when it reaches QuantityOrdered.
type PurchaseOrderItem struct {
	ID               int             `json:"id"`
	PurchaseOrderID  int             `json:"purchase_order_id"`
	InventoryItemID  int             `json:"inventory_item_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// POLineInput is one requested line on a new purchase order.
type POLineInput struct {
	ItemID   int
	Quantity int
	UnitCost decimal.Decimal
}

// PurchaseOrderInput holds the fields for creating a purchase order.
type PurchaseOrderInput struct {
	SupplierID   int
	Lines        []POLineInput
	Notes        string
	ExpectedDate *time.Time
}

// ReceiptLine records how many units arrived for one purchase-order line.
type ReceiptLine struct {
	LineID   int
	Quantity int
}

// PurchaseOrderFilter selects and pages purchase-order listings.
type PurchaseOrderFilter struct {
	Status     *PurchaseOrderStatus
	SupplierID *int
	Page       Page
}
