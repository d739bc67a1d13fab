package app

import (
	"context"
	"time"

	"inventory-backend/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic: implementations must contain no
// HTTP types and no display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies a username/password pair and returns the user
	// on success.
	AuthenticateUser(ctx context.Context, username, password string) (*core.User, error)

	// GetItem returns an inventory item by numeric ID.
	GetItem(ctx context.Context, id int) (*core.InventoryItem, error)

	// GetItemBySKU returns an inventory item by SKU (case-insensitive).
	GetItemBySKU(ctx context.Context, sku string) (*core.InventoryItem, error)

	// ListItems returns a page of inventory items matching the request.
	ListItems(ctx context.Context, req ListItemsRequest) (*ItemListResult, error)

	// CreateItem creates an inventory item. Quantity seeds the opening stock.
	CreateItem(ctx context.Context, req CreateItemRequest) (*core.InventoryItem, error)

	// UpdateItem applies a partial update. Quantity cannot be changed here;
	// stock moves only through RecordMovement and the order flows.
	UpdateItem(ctx context.Context, id int, req UpdateItemRequest) (*core.InventoryItem, error)

	// DeleteItem removes an item, or deactivates it when history references it.
	DeleteItem(ctx context.Context, id int) (*DeleteResult, error)

	// RecordMovement books a manual stock movement through the ledger.
	RecordMovement(ctx context.Context, req RecordMovementRequest) (*core.StockMovement, error)

	// ListMovements returns a page of ledger entries matching the request.
	ListMovements(ctx context.Context, req ListMovementsRequest) (*MovementListResult, error)

	// CreateOrder creates a customer order, shipping stock atomically.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error)

	// GetOrder returns an order with its lines.
	GetOrder(ctx context.Context, id int) (*core.Order, error)

	// ListOrders returns a page of order headers matching the request.
	ListOrders(ctx context.Context, req ListOrdersRequest) (*OrderListResult, error)

	// UpdateOrderStatus moves an order along its lifecycle. Cancellation is
	// rejected here; use CancelOrder.
	UpdateOrderStatus(ctx context.Context, id int, status string) (*core.Order, error)

	// CancelOrder cancels an order and restocks its lines.
	CancelOrder(ctx context.Context, id int, cancelledBy string) (*core.Order, error)

	// CreatePurchaseOrder creates a replenishment order against a supplier.
	CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*core.PurchaseOrder, error)

	// GetPurchaseOrder returns a purchase order with its lines.
	GetPurchaseOrder(ctx context.Context, id int) (*core.PurchaseOrder, error)

	// ListPurchaseOrders returns a page of purchase-order headers.
	ListPurchaseOrders(ctx context.Context, req ListPurchaseOrdersRequest) (*PurchaseOrderListResult, error)

	// ReceivePurchaseOrder books a delivery against a purchase order.
	ReceivePurchaseOrder(ctx context.Context, id int, req ReceivePurchaseOrderRequest) (*core.PurchaseOrder, error)

	// CancelPurchaseOrder cancels a purchase order before any receipt.
	CancelPurchaseOrder(ctx context.Context, id int) (*core.PurchaseOrder, error)

	// GetCustomer returns a customer by ID.
	GetCustomer(ctx context.Context, id int) (*core.Customer, error)

	// ListCustomers returns a page of customers matching the request.
	ListCustomers(ctx context.Context, req ListCustomersRequest) (*CustomerListResult, error)

	// CreateCustomer creates a customer.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*core.Customer, error)

	// UpdateCustomer applies a partial update to a customer.
	UpdateCustomer(ctx context.Context, id int, req UpdateCustomerRequest) (*core.Customer, error)

	// DeleteCustomer removes a customer, or deactivates one with orders.
	DeleteCustomer(ctx context.Context, id int) (*DeleteResult, error)

	// GetSupplier returns a supplier by ID.
	GetSupplier(ctx context.Context, id int) (*core.Supplier, error)

	// ListSuppliers returns a page of suppliers matching the request.
	ListSuppliers(ctx context.Context, req ListSuppliersRequest) (*SupplierListResult, error)

	// CreateSupplier creates a supplier.
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*core.Supplier, error)

	// UpdateSupplier applies a partial update to a supplier.
	UpdateSupplier(ctx context.Context, id int, req UpdateSupplierRequest) (*core.Supplier, error)

	// DeleteSupplier removes a supplier, or deactivates a referenced one.
	DeleteSupplier(ctx context.Context, id int) (*DeleteResult, error)

	// GetLowStockReport lists active items at or below their reorder point.
	GetLowStockReport(ctx context.Context, threshold *int) ([]core.LowStockItem, error)

	// GetInventoryValuation values active stock at cost and retail.
	GetInventoryValuation(ctx context.Context) (*core.ValuationReport, error)

	// GetSalesSummary aggregates shipped and delivered orders over a period.
	// Nil bounds leave the period open on that side.
	GetSalesSummary(ctx context.Context, from, to *time.Time) (*core.SalesSummary, error)

	// GetStockLevels lists active items with low/normal/high stock bands.
	GetStockLevels(ctx context.Context, lowOnly bool) ([]core.StockLevel, error)

	// GetDashboard assembles the landing-page snapshot.
	GetDashboard(ctx context.Context) (*core.DashboardSummary, error)
}
