package core

import "time"

// User is an operator account. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     *string   `json:"full_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserInput holds the fields for creating a user. Password is the plaintext;
// the service hashes it before storage.
type UserInput struct {
	Username string
	Email    string
	Password string
	FullName string
}
