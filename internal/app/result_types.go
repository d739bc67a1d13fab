package app

import "inventory-backend/internal/core"

// ItemListResult is returned by ListItems.
type ItemListResult struct {
	Items []core.InventoryItem `json:"items"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
	Pages int                  `json:"pages"`
}

// MovementListResult is returned by ListMovements.
type MovementListResult struct {
	Movements []core.StockMovement `json:"movements"`
	Total     int                  `json:"total"`
	Page      int                  `json:"page"`
	Size      int                  `json:"size"`
	Pages     int                  `json:"pages"`
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
	Total  int          `json:"total"`
	Page   int          `json:"page"`
	Size   int          `json:"size"`
	Pages  int          `json:"pages"`
}

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	PurchaseOrders []core.PurchaseOrder `json:"purchase_orders"`
	Total          int                  `json:"total"`
	Page           int                  `json:"page"`
	Size           int                  `json:"size"`
	Pages          int                  `json:"pages"`
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer `json:"customers"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	Size      int             `json:"size"`
	Pages     int             `json:"pages"`
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier `json:"suppliers"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	Size      int             `json:"size"`
	Pages     int             `json:"pages"`
}

// DeleteResult reports whether a delete removed the row or deactivated it.
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
