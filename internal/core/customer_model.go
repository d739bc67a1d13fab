package core

import "time"

// Customer is a buyer that orders can be placed against.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	Country   *string   `json:"country,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerInput holds the fields for creating a customer.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
}

// CustomerUpdate carries partial updates; nil fields are left unchanged.
type CustomerUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	City     *string
	Country  *string
	IsActive *bool
}

// CustomerFilter selects and pages customer listings.
type CustomerFilter struct {
	Search   string
	IsActive *bool
	Page     Page
}
