package core

// Category is the fixed product category enumeration.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategoryOther       Category = "other"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome, CategoryOther}
}

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome, CategoryOther:
		return true
	}
	return false
}

// OrderStatus is the sales order / purchase order status enumeration.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

// Valid reports whether s is a member of the status enumeration.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "in"         // stock received
	MovementOut        MovementType = "out"        // stock sold or used
	MovementAdjustment MovementType = "adjustment" // manual correction
	MovementTransfer   MovementType = "transfer"   // between locations
	MovementReturn     MovementType = "return"     // customer return / cancellation restock
	MovementDamage     MovementType = "damage"     // damaged or lost stock
)

// Valid reports whether m is a member of the movement type enumeration.
func (m MovementType) Valid() bool {
	switch m {
	case MovementIn, MovementOut, MovementAdjustment, MovementTransfer, MovementReturn, MovementDamage:
		return true
	}
	return false
}

// Page is a normalized pagination request. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// NormalizePage clamps page/size to sane bounds (page >= 1, 1 <= size <= 100,
// defaulting size to 50).
func NormalizePage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 50
	}
	if size > 100 {
		size = 100
	}
	return Page{Number: number, Size: size}
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageCount returns the number of pages needed for total rows (minimum 1).
func (p Page) PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	pages := total / p.Size
	if total%p.Size != 0 {
		pages++
	}
	return pages
}
