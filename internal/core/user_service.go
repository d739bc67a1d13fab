package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles operator accounts.
type UserService interface {
	GetUser(ctx context.Context, id int) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, input UserInput) (*User, error)
}

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by the given pool.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = `id, username, email, password_hash, full_name, is_active, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FullName, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", Ref: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", Ref: username}
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return u, nil
}

func (s *userService) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("username, email, and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var fullName *string
	if input.FullName != "" {
		fullName = &input.FullName
	}

	u, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		username, email, string(hash), fullName))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "user", Field: "username", Value: username}
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}
