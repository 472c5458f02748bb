// Package auth provides user accounts, password login and JWT issuance.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the auth domain.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// User is a registered account.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Repository defines user persistence operations.
type Repository interface {
	CreateUser(ctx context.Context, email, name, hashedPassword string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
