// Package goal tracks savings goals and contributions toward them.
package goal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target owned by a user. Completed flips once
// CurrentAmount reaches TargetAmount and never flips back on its own.
type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	Completed     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Progress returns the percentage of the target reached, capped at 100.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// Repository defines goal persistence operations.
type Repository interface {
	Create(ctx context.Context, g *Goal) error
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Goal, error)
}
