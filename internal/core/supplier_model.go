package core

import "time"

// Supplier is a vendor that inventory items and purchase orders reference.
type Supplier struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupplierInput holds the fields for creating a supplier.
type SupplierInput struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// SupplierUpdate carries partial updates; nil fields are left unchanged.
type SupplierUpdate struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	IsActive      *bool
}

// SupplierFilter selects and pages supplier listings.
type SupplierFilter struct {
	Search   string
	IsActive *bool
	Page     Page
}
