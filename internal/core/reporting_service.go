package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LowStockItem is an active item at or below its reorder point.
type LowStockItem struct {
	ID            int     `json:"id"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	MinStockLevel int     `json:"min_stock_level"`
	Shortfall     int     `json:"shortfall"`
	SupplierID    *int    `json:"supplier_id,omitempty"`
	SupplierName  *string `json:"supplier_name,omitempty"`
}

// ValuationReport values active stock at cost and at retail.
type ValuationReport struct {
	TotalItems      int             `json:"total_items"`
	TotalUnits      int             `json:"total_units"`
	CostValue       decimal.Decimal `json:"cost_value"`
	RetailValue     decimal.Decimal `json:"retail_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}

// SalesSummary aggregates shipped and delivered orders over a period. A nil
// bound means the period is open on that side.
type SalesSummary struct {
	From              *time.Time      `json:"from,omitempty"`
	To                *time.Time      `json:"to,omitempty"`
	OrderCount        int             `json:"order_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	ItemsSold         int             `json:"items_sold"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// StockLevel is one item's current level with a low/normal/high band relative
// to its min and max stock levels.
type StockLevel struct {
	ID            int    `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
	Band          string `json:"band"`
}

// DashboardSummary is the landing-page snapshot.
type DashboardSummary struct {
	TotalItems      int             `json:"total_items"`
	TotalCustomers  int             `json:"total_customers"`
	TotalSuppliers  int             `json:"total_suppliers"`
	PendingOrders   int             `json:"pending_orders"`
	LowStockCount   int             `json:"low_stock_count"`
	RetailValue     decimal.Decimal `json:"retail_value"`
	RecentOrders    []Order         `json:"recent_orders"`
	RecentMovements []StockMovement `json:"recent_movements"`
}

// ReportingService aggregates read-only views over inventory, orders, and the
// stock ledger. It never writes.
type ReportingService interface {
	LowStockItems(ctx context.Context, threshold *int) ([]LowStockItem, error)
	InventoryValuation(ctx context.Context) (*ValuationReport, error)
	SalesSummaryReport(ctx context.Context, from, to *time.Time) (*SalesSummary, error)
	StockLevels(ctx context.Context, lowOnly bool) ([]StockLevel, error)
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

// LowStockItems lists active items whose quantity is at or below the
// threshold. A nil threshold uses each item's own min_stock_level.
func (s *reportingService) LowStockItems(ctx context.Context, threshold *int) ([]LowStockItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.sku, i.name, i.quantity, i.min_stock_level,
		       i.supplier_id, sp.name
		FROM inventory_items i
		LEFT JOIN suppliers sp ON sp.id = i.supplier_id
		WHERE i.is_active AND i.quantity <= COALESCE($1, i.min_stock_level)
		ORDER BY i.quantity ASC, i.name ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock items: %w", err)
	}
	defer rows.Close()

	var items []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.ID, &it.SKU, &it.Name, &it.Quantity,
			&it.MinStockLevel, &it.SupplierID, &it.SupplierName); err != nil {
			return nil, fmt.Errorf("failed to scan low stock item: %w", err)
		}
		it.Shortfall = it.MinStockLevel - it.Quantity
		if it.Shortfall < 0 {
			it.Shortfall = 0
		}
		items = append(items, it)
	}
	return items, nil
}

// InventoryValuation values all active stock. Items without a cost price
// contribute zero to the cost side but still count at retail.
func (s *reportingService) InventoryValuation(ctx context.Context) (*ValuationReport, error) {
	var r ValuationReport
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(quantity * COALESCE(cost_price, 0)), 0),
		       COALESCE(SUM(quantity * price), 0)
		FROM inventory_items WHERE is_active`,
	).Scan(&r.TotalItems, &r.TotalUnits, &r.CostValue, &r.RetailValue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute inventory valuation: %w", err)
	}
	r.PotentialProfit = r.RetailValue.Sub(r.CostValue)
	return &r, nil
}

// SalesSummaryReport aggregates orders shipped or delivered in the period.
// Nil bounds leave the period open; an empty period reports zero across the
// board, including the average.
func (s *reportingService) SalesSummaryReport(ctx context.Context, from, to *time.Time) (*SalesSummary, error) {
	summary := SalesSummary{From: from, To: to}
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE((SELECT SUM(oi.quantity)
		                 FROM order_items oi
		                 JOIN orders o2 ON o2.id = oi.order_id
		                 WHERE o2.status IN ('shipped', 'delivered')
		                   AND ($1::timestamptz IS NULL OR o2.order_date >= $1)
		                   AND ($2::timestamptz IS NULL OR o2.order_date <= $2)), 0)
		FROM orders
		WHERE status IN ('shipped', 'delivered')
		  AND ($1::timestamptz IS NULL OR order_date >= $1)
		  AND ($2::timestamptz IS NULL OR order_date <= $2)`,
		from, to,
	).Scan(&summary.OrderCount, &summary.TotalRevenue, &summary.ItemsSold)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sales summary: %w", err)
	}

	if summary.OrderCount > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.OrderCount))).Round(2)
	} else {
		summary.AverageOrderValue = decimal.Zero
	}
	return &summary, nil
}

// StockLevels lists active items with a low/normal/high band. lowOnly
// restricts the result to the low band.
func (s *reportingService) StockLevels(ctx context.Context, lowOnly bool) ([]StockLevel, error) {
	query := `
		SELECT id, sku, name, quantity, min_stock_level, max_stock_level
		FROM inventory_items WHERE is_active`
	if lowOnly {
		query += " AND quantity <= min_stock_level"
	}
	query += " ORDER BY name ASC"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var lv StockLevel
		if err := rows.Scan(&lv.ID, &lv.SKU, &lv.Name, &lv.Quantity,
			&lv.MinStockLevel, &lv.MaxStockLevel); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		switch {
		case lv.Quantity <= lv.MinStockLevel:
			lv.Band = "low"
		case lv.Quantity >= lv.MaxStockLevel:
			lv.Band = "high"
		default:
			lv.Band = "normal"
		}
		levels = append(levels, lv)
	}
	return levels, nil
}

// Dashboard assembles the landing-page snapshot: entity counts, pending
// orders, low-stock count, retail value, and the most recent orders and
// movements.
func (s *reportingService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var d DashboardSummary
	err := s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM inventory_items WHERE is_active),
		       (SELECT COUNT(*) FROM customers WHERE is_active),
		       (SELECT COUNT(*) FROM suppliers WHERE is_active),
		       (SELECT COUNT(*) FROM orders WHERE status = 'pending'),
		       (SELECT COUNT(*) FROM inventory_items WHERE is_active AND quantity <= min_stock_level),
		       (SELECT COALESCE(SUM(quantity * price), 0) FROM inventory_items WHERE is_active)`,
	).Scan(&d.TotalItems, &d.TotalCustomers, &d.TotalSuppliers,
		&d.PendingOrders, &d.LowStockCount, &d.RetailValue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
	}

	orderRows, err := s.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY order_date DESC, id DESC LIMIT 5")
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer orderRows.Close()
	for orderRows.Next() {
		order, err := scanOrder(orderRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}
		d.RecentOrders = append(d.RecentOrders, *order)
	}

	mvRows, err := s.pool.Query(ctx, `
		SELECT id, inventory_item_id, movement_type, quantity, previous_quantity,
		       new_quantity, unit_cost, reference_type, reference_id, notes,
		       created_by, created_at
		FROM stock_movements ORDER BY created_at DESC, id DESC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent movements: %w", err)
	}
	defer mvRows.Close()
	for mvRows.Next() {
		var mv StockMovement
		if err := mvRows.Scan(
			&mv.ID, &mv.InventoryItemID, &mv.MovementType, &mv.Quantity, &mv.PreviousQuantity,
			&mv.NewQuantity, &mv.UnitCost, &mv.ReferenceType, &mv.ReferenceID, &mv.Notes,
			&mv.CreatedBy, &mv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent movement: %w", err)
		}
		d.RecentMovements = append(d.RecentMovements, mv)
	}
	return &d, nil
}
