package app

import (
	"context"
	"fmt"
	"time"

	"inventory-backend/internal/core"

	"golang.org/x/crypto/bcrypt"
)

type appService struct {
	users          core.UserService
	items          core.ItemService
	ledger         *core.StockLedger
	orders         core.OrderService
	purchaseOrders core.PurchaseOrderService
	customers      core.CustomerService
	suppliers      core.SupplierService
	reports        core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	users core.UserService,
	items core.ItemService,
	ledger *core.StockLedger,
	orders core.OrderService,
	purchaseOrders core.PurchaseOrderService,
	customers core.CustomerService,
	suppliers core.SupplierService,
	reports core.ReportingService,
) ApplicationService {
	return &appService{
		users:          users,
		items:          items,
		ledger:         ledger,
		orders:         orders,
		purchaseOrders: purchaseOrders,
		customers:      customers,
		suppliers:      suppliers,
		reports:        reports,
	}
}

// ── Auth ──────────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*core.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// ── Inventory items ───────────────────────────────────────────────────────

func (s *appService) GetItem(ctx context.Context, id int) (*core.InventoryItem, error) {
	return s.items.GetItem(ctx, id)
}

func (s *appService) GetItemBySKU(ctx context.Context, sku string) (*core.InventoryItem, error) {
	return s.items.GetItemBySKU(ctx, sku)
}

func (s *appService) ListItems(ctx context.Context, req ListItemsRequest) (*ItemListResult, error) {
	filter := core.ItemFilter{
		Search:   req.Search,
		IsActive: req.IsActive,
		Page:     core.NormalizePage(req.Page, req.PageSize),
	}
	if req.Category != "" {
		cat := core.Category(req.Category)
		if !cat.Valid() {
			return nil, &ValidationError{Field: "category", Message: "unknown category"}
		}
		filter.Category = &cat
	}

	items, total, err := s.items.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{
		Items: items,
		Total: total,
		Page:  filter.Page.Number,
		Size:  filter.Page.Size,
		Pages: filter.Page.PageCount(total),
	}, nil
}

func (s *appService) CreateItem(ctx context.Context, req CreateItemRequest) (*core.InventoryItem, error) {
	if req.SKU == "" {
		return nil, &ValidationError{Field: "sku", Message: "required"}
	}
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "required"}
	}
	if !core.Category(req.Category).Valid() {
		return nil, &ValidationError{Field: "category", Message: "unknown category"}
	}
	if req.Quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must not be negative"}
	}
	if !req.Price.IsPositive() {
		return nil, &ValidationError{Field: "price", Message: "must be positive"}
	}
	if req.CostPrice != nil && req.CostPrice.IsNegative() {
		return nil, &ValidationError{Field: "cost_price", Message: "must not be negative"}
	}

	input := core.ItemInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    core.Category(req.Category),
		Quantity:    req.Quantity,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Barcode:     req.Barcode,
		SupplierID:  req.SupplierID,
		Location:    req.Location,
	}
	if req.MinStockLevel != nil {
		input.MinStockLevel = *req.MinStockLevel
	}
	if req.MaxStockLevel != nil {
		input.MaxStockLevel = *req.MaxStockLevel
	}
	return s.items.CreateItem(ctx, input)
}

func (s *appService) UpdateItem(ctx context.Context, id int, req UpdateItemRequest) (*core.InventoryItem, error) {
	update := core.ItemUpdate{
		Name:          req.Name,
		Description:   req.Description,
		CostPrice:     req.CostPrice,
		Barcode:       req.Barcode,
		SupplierID:    req.SupplierID,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		Location:      req.Location,
		IsActive:      req.IsActive,
	}
	if req.Category != nil {
		cat := core.Category(*req.Category)
		if !cat.Valid() {
			return nil, &ValidationError{Field: "category", Message: "unknown category"}
		}
		update.Category = &cat
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, &ValidationError{Field: "price", Message: "must be positive"}
		}
		update.Price = req.Price
	}
	return s.items.UpdateItem(ctx, id, update)
}

func (s *appService) DeleteItem(ctx context.Context, id int) (*DeleteResult, error) {
	hard, err := s.items.DeleteItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: hard, Deactivated: !hard}, nil
}

// ── Stock ledger ──────────────────────────────────────────────────────────

func (s *appService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*core.StockMovement, error) {
	mt := core.MovementType(req.Type)
	if !mt.Valid() {
		return nil, &ValidationError{Field: "movement_type", Message: "unknown movement type"}
	}
	refType := req.ReferenceType
	if refType == "" {
		refType = "manual"
	}

	// A zero delta is pointless but legal; it still leaves an audit row.
	return s.ledger.RecordMovement(ctx, core.MovementInput{
		ItemID:        req.ItemID,
		Type:          mt,
		Quantity:      req.Quantity,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
		UnitCost:      req.UnitCost,
		CreatedBy:     req.CreatedBy,
	})
}

func (s *appService) ListMovements(ctx context.Context, req ListMovementsRequest) (*MovementListResult, error) {
	filter := core.MovementFilter{
		ItemID: req.ItemID,
		From:   req.From,
		To:     req.To,
		Page:   core.NormalizePage(req.Page, req.PageSize),
	}
	if req.Type != "" {
		mt := core.MovementType(req.Type)
		if !mt.Valid() {
			return nil, &ValidationError{Field: "movement_type", Message: "unknown movement type"}
		}
		filter.Type = &mt
	}

	movements, total, err := s.ledger.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &MovementListResult{
		Movements: movements,
		Total:     total,
		Page:      filter.Page.Number,
		Size:      filter.Page.Size,
		Pages:     filter.Page.PageCount(total),
	}, nil
}

// ── Orders ────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error) {
	if len(req.Lines) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one line required"}
	}
	if req.TaxRate.IsNegative() {
		return nil, &ValidationError{Field: "tax_rate", Message: "must not be negative"}
	}
	if req.ShippingCost.IsNegative() {
		return nil, &ValidationError{Field: "shipping_cost", Message: "must not be negative"}
	}
	lines := make([]core.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, &ValidationError{Field: "items", Message: "line quantity must be positive"}
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return nil, &ValidationError{Field: "items", Message: "line unit price must not be negative"}
		}
		lines[i] = core.OrderLineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	return s.orders.CreateOrder(ctx, core.OrderInput{
		CustomerID:      req.CustomerID,
		Lines:           lines,
		TaxRate:         req.TaxRate,
		ShippingCost:    req.ShippingCost,
		Notes:           req.Notes,
		ShippingAddress: req.ShippingAddress,
		CreatedBy:       req.CreatedBy,
	})
}

func (s *appService) GetOrder(ctx context.Context, id int) (*core.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *appService) ListOrders(ctx context.Context, req ListOrdersRequest) (*OrderListResult, error) {
	filter := core.OrderFilter{
		CustomerID: req.CustomerID,
		From:       req.From,
		To:         req.To,
		Page:       core.NormalizePage(req.Page, req.PageSize),
	}
	if req.Status != "" {
		st := core.OrderStatus(req.Status)
		if !st.Valid() {
			return nil, &ValidationError{Field: "status", Message: "unknown order status"}
		}
		filter.Status = &st
	}

	orders, total, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{
		Orders: orders,
		Total:  total,
		Page:   filter.Page.Number,
		Size:   filter.Page.Size,
		Pages:  filter.Page.PageCount(total),
	}, nil
}

func (s *appService) UpdateOrderStatus(ctx context.Context, id int, status string) (*core.Order, error) {
	st := core.OrderStatus(status)
	if !st.Valid() {
		return nil, &ValidationError{Field: "status", Message: "unknown order status"}
	}
	return s.orders.UpdateOrderStatus(ctx, id, st)
}

func (s *appService) CancelOrder(ctx context.Context, id int, cancelledBy string) (*core.Order, error) {
	return s.orders.CancelOrder(ctx, id, cancelledBy)
}

// ── Purchase orders ───────────────────────────────────────────────────────

func (s *appService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*core.PurchaseOrder, error) {
	if len(req.Lines) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one line required"}
	}
	lines := make([]core.POLineInput, len(req.Lines))
	for i, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, &ValidationError{Field: "items", Message: "line quantity must be positive"}
		}
		if l.UnitCost.IsNegative() {
			return nil, &ValidationError{Field: "items", Message: "line unit cost must not be negative"}
		}
		lines[i] = core.POLineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost}
	}

	return s.purchaseOrders.CreatePurchaseOrder(ctx, core.PurchaseOrderInput{
		SupplierID:   req.SupplierID,
		Lines:        lines,
		Notes:        req.Notes,
		ExpectedDate: req.ExpectedDate,
	})
}

func (s *appService) GetPurchaseOrder(ctx context.Context, id int) (*core.PurchaseOrder, error) {
	return s.purchaseOrders.GetPurchaseOrder(ctx, id)
}

func (s *appService) ListPurchaseOrders(ctx context.Context, req ListPurchaseOrdersRequest) (*PurchaseOrderListResult, error) {
	filter := core.PurchaseOrderFilter{
		SupplierID: req.SupplierID,
		Page:       core.NormalizePage(req.Page, req.PageSize),
	}
	if req.Status != "" {
		st := core.PurchaseOrderStatus(req.Status)
		switch st {
		case core.POStatusPending, core.POStatusConfirmed, core.POStatusDelivered, core.POStatusCancelled:
		default:
			return nil, &ValidationError{Field: "status", Message: "unknown purchase order status"}
		}
		filter.Status = &st
	}

	pos, total, err := s.purchaseOrders.ListPurchaseOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderListResult{
		PurchaseOrders: pos,
		Total:          total,
		Page:           filter.Page.Number,
		Size:           filter.Page.Size,
		Pages:          filter.Page.PageCount(total),
	}, nil
}

func (s *appService) ReceivePurchaseOrder(ctx context.Context, id int, req ReceivePurchaseOrderRequest) (*core.PurchaseOrder, error) {
	if len(req.Lines) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one line required"}
	}
	receipts := make([]core.ReceiptLine, len(req.Lines))
	for i, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, &ValidationError{Field: "items", Message: "receipt quantity must be positive"}
		}
		receipts[i] = core.ReceiptLine{LineID: l.LineID, Quantity: l.Quantity}
	}
	return s.purchaseOrders.ReceivePurchaseOrder(ctx, id, receipts, req.ReceivedBy)
}

func (s *appService) CancelPurchaseOrder(ctx context.Context, id int) (*core.PurchaseOrder, error) {
	return s.purchaseOrders.CancelPurchaseOrder(ctx, id)
}

// ── Customers ─────────────────────────────────────────────────────────────

func (s *appService) GetCustomer(ctx context.Context, id int) (*core.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *appService) ListCustomers(ctx context.Context, req ListCustomersRequest) (*CustomerListResult, error) {
	filter := core.CustomerFilter{
		Search:   req.Search,
		IsActive: req.IsActive,
		Page:     core.NormalizePage(req.Page, req.PageSize),
	}
	customers, total, err := s.customers.ListCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{
		Customers: customers,
		Total:     total,
		Page:      filter.Page.Number,
		Size:      filter.Page.Size,
		Pages:     filter.Page.PageCount(total),
	}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*core.Customer, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "required"}
	}
	if req.Email == "" {
		return nil, &ValidationError{Field: "email", Message: "required"}
	}
	return s.customers.CreateCustomer(ctx, core.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	})
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, req UpdateCustomerRequest) (*core.Customer, error) {
	return s.customers.UpdateCustomer(ctx, id, core.CustomerUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
		IsActive: req.IsActive,
	})
}

func (s *appService) DeleteCustomer(ctx context.Context, id int) (*DeleteResult, error) {
	hard, err := s.customers.DeleteCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: hard, Deactivated: !hard}, nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────

func (s *appService) GetSupplier(ctx context.Context, id int) (*core.Supplier, error) {
	return s.suppliers.GetSupplier(ctx, id)
}

func (s *appService) ListSuppliers(ctx context.Context, req ListSuppliersRequest) (*SupplierListResult, error) {
	filter := core.SupplierFilter{
		Search:   req.Search,
		IsActive: req.IsActive,
		Page:     core.NormalizePage(req.Page, req.PageSize),
	}
	suppliers, total, err := s.suppliers.ListSuppliers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{
		Suppliers: suppliers,
		Total:     total,
		Page:      filter.Page.Number,
		Size:      filter.Page.Size,
		Pages:     filter.Page.PageCount(total),
	}, nil
}

func (s *appService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*core.Supplier, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "required"}
	}
	if req.Email == "" {
		return nil, &ValidationError{Field: "email", Message: "required"}
	}
	return s.suppliers.CreateSupplier(ctx, core.SupplierInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
}

func (s *appService) UpdateSupplier(ctx context.Context, id int, req UpdateSupplierRequest) (*core.Supplier, error) {
	return s.suppliers.UpdateSupplier(ctx, id, core.SupplierUpdate{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		IsActive:      req.IsActive,
	})
}

func (s *appService) DeleteSupplier(ctx context.Context, id int) (*DeleteResult, error) {
	hard, err := s.suppliers.DeleteSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: hard, Deactivated: !hard}, nil
}

// ── Reports ───────────────────────────────────────────────────────────────

func (s *appService) GetLowStockReport(ctx context.Context, threshold *int) ([]core.LowStockItem, error) {
	if threshold != nil && *threshold < 0 {
		return nil, &ValidationError{Field: "threshold", Message: "must not be negative"}
	}
	return s.reports.LowStockItems(ctx, threshold)
}

func (s *appService) GetInventoryValuation(ctx context.Context) (*core.ValuationReport, error) {
	return s.reports.InventoryValuation(ctx)
}

func (s *appService) GetSalesSummary(ctx context.Context, from, to *time.Time) (*core.SalesSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, &ValidationError{Field: "to", Message: "must not be before from"}
	}
	return s.reports.SalesSummaryReport(ctx, from, to)
}

func (s *appService) GetStockLevels(ctx context.Context, lowOnly bool) ([]core.StockLevel, error) {
	return s.reports.StockLevels(ctx, lowOnly)
}

func (s *appService) GetDashboard(ctx context.Context) (*core.DashboardSummary, error) {
	return s.reports.Dashboard(ctx)
}
