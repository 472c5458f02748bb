// Package transaction provides persistence and business logic for
// income/expense transactions.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a transaction as money in or money out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Transaction is a persisted income or expense record owned by a user.
// Category is an optional one-way reference; deleting a category never
// cascades into transactions.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CategoryID  *uuid.UUID
	Description string
	Amount      decimal.Decimal
	Type        Type
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter narrows ListByUser results.
type ListFilter struct {
	Type       *Type
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// CategoryTotal is an aggregate of transaction amounts per category.
type CategoryTotal struct {
	CategoryID   *uuid.UUID
	CategoryName string
	Total        decimal.Decimal
}

// Repository defines transaction persistence operations.
type Repository interface {
	Insert(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)

	// ExistsByDescriptionFragmentAndDate is the statement-import dedup
	// lookup: a transaction whose description contains the reference code
	// and whose date matches means the row was imported before.
	ExistsByDescriptionFragmentAndDate(ctx context.Context, userID uuid.UUID, fragment string, date time.Time) (bool, error)

	SetCategoryBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, categoryID *uuid.UUID) (int64, error)
	SumByTypeBetween(ctx context.Context, userID uuid.UUID, txType Type, from, to time.Time) (decimal.Decimal, error)
	SumByCategoryBetween(ctx context.Context, userID uuid.UUID, txType Type, from, to time.Time) ([]CategoryTotal, error)
}
