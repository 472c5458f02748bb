// Package category manages user and system transaction categories.
package category

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category labels transactions. Default categories (no owner) are seeded by
// migration and visible to every user alongside their own.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Name      string     `json:"name"`
	IsDefault bool       `json:"isDefault"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Repository defines category persistence operations.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// FindForUser returns the user's own categories plus the defaults.
	FindForUser(ctx context.Context, userID uuid.UUID) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
}
