package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one stock-keeping unit. Quantity is owned by the stock
// ledger: nothing outside StockLedger writes it.
type InventoryItem struct {
	ID            int              `json:"id"`
	SKU           string           `json:"sku"` // uppercase, immutable business key
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	Category      Category         `json:"category"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	SupplierID    *int             `json:"supplier_id,omitempty"`
	MinStockLevel int              `json:"min_stock_level"`
	MaxStockLevel int              `json:"max_stock_level"`
	Location      *string          `json:"location,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ItemInput holds the fields for creating an inventory item.
// Quantity is the opening stock level; later changes go through the ledger.
type ItemInput struct {
	SKU           string
	Name          string
	Description   string
	Category      Category
	Quantity      int
	Price         decimal.Decimal
	CostPrice     *decimal.Decimal
	Barcode       string
	SupplierID    *int
	MinStockLevel int
	MaxStockLevel int
	Location      string
}

// ItemUpdate carries optional field updates. Nil fields are left unchanged.
// Quantity is deliberately absent: it can only move through the ledger.
type ItemUpdate struct {
	Name          *string
	Description   *string
	Category      *Category
	Price         *decimal.Decimal
	CostPrice     *decimal.Decimal
	Barcode       *string
	SupplierID    *int
	MinStockLevel *int
	MaxStockLevel *int
	Location      *string
	IsActive      *bool
}

// ItemFilter selects and pages inventory item listings.
type ItemFilter struct {
	Search   string // matches name, SKU, or description, case-insensitive
	Category *Category
	IsActive *bool
	Page     Page
}
