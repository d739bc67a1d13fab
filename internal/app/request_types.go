package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest is the input for creating an inventory item. Quantity
// seeds the opening stock level.
type CreateItemRequest struct {
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Barcode       string           `json:"barcode"`
	SupplierID    *int             `json:"supplier_id"`
	MinStockLevel *int             `json:"min_stock_level"`
	MaxStockLevel *int             `json:"max_stock_level"`
	Location      string           `json:"location"`
}

// UpdateItemRequest carries a partial item update; nil fields are left
// unchanged. Quantity is deliberately absent.
type UpdateItemRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Barcode       *string          `json:"barcode"`
	SupplierID    *int             `json:"supplier_id"`
	MinStockLevel *int             `json:"min_stock_level"`
	MaxStockLevel *int             `json:"max_stock_level"`
	Location      *string          `json:"location"`
	IsActive      *bool            `json:"is_active"`
}

// ListItemsRequest filters and pages item listings.
type ListItemsRequest struct {
	Search   string
	Category string
	IsActive *bool
	Page     int
	PageSize int
}

// RecordMovementRequest is the input for a manual stock movement. Quantity is
// a signed delta. ReferenceType and ReferenceID let the caller tie the
// movement to an external document; ReferenceType defaults to "manual".
type RecordMovementRequest struct {
	ItemID        int              `json:"inventory_item_id"`
	Type          string           `json:"movement_type"`
	Quantity      int              `json:"quantity"`
	ReferenceType string           `json:"reference_type"`
	ReferenceID   *int             `json:"reference_id"`
	Notes         string           `json:"notes"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	CreatedBy     string           `json:"-"`
}

// ListMovementsRequest filters and pages ledger listings.
type ListMovementsRequest struct {
	ItemID   *int
	Type     string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// OrderLineRequest is one requested line on a new order.
type OrderLineRequest struct {
	ItemID    int              `json:"inventory_item_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest is the input for creating a customer order.
type CreateOrderRequest struct {
	CustomerID      int                `json:"customer_id"`
	Lines           []OrderLineRequest `json:"items"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost"`
	Notes           string             `json:"notes"`
	ShippingAddress string             `json:"shipping_address"`
	CreatedBy       string             `json:"-"`
}

// ListOrdersRequest filters and pages order listings.
type ListOrdersRequest struct {
	Status     string
	CustomerID *int
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// POLineRequest is one requested line on a new purchase order.
type POLineRequest struct {
	ItemID   int             `json:"inventory_item_id"`
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest is the input for creating a purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierID   int             `json:"supplier_id"`
	Lines        []POLineRequest `json:"items"`
	Notes        string          `json:"notes"`
	ExpectedDate *time.Time      `json:"expected_date"`
}

// ReceiptLineRequest records arrived units for one purchase-order line.
type ReceiptLineRequest struct {
	LineID   int `json:"line_id"`
	Quantity int `json:"quantity"`
}

// ReceivePurchaseOrderRequest is the input for booking a delivery.
type ReceivePurchaseOrderRequest struct {
	Lines      []ReceiptLineRequest `json:"items"`
	ReceivedBy string               `json:"-"`
}

// ListPurchaseOrdersRequest filters and pages purchase-order listings.
type ListPurchaseOrdersRequest struct {
	Status     string
	SupplierID *int
	Page       int
	PageSize   int
}

// CreateCustomerRequest is the input for creating a customer.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// UpdateCustomerRequest carries a partial customer update.
type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
	IsActive *bool   `json:"is_active"`
}

// ListCustomersRequest filters and pages customer listings.
type ListCustomersRequest struct {
	Search   string
	IsActive *bool
	Page     int
	PageSize int
}

// CreateSupplierRequest is the input for creating a supplier.
type CreateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// UpdateSupplierRequest carries a partial supplier update.
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	IsActive      *bool   `json:"is_active"`
}

// ListSuppliersRequest filters and pages supplier listings.
type ListSuppliersRequest struct {
	Search   string
	IsActive *bool
	Page     int
	PageSize int
}
