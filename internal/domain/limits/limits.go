// Package limits implements per-category spending limits and the
// notifications raised when spending approaches or exceeds them.
package limits

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is the rolling window a limit applies to.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether the period is one of the known values.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Bounds returns the current window for the period: week starts Monday,
// month and year start on the first.
func (p Period) Bounds(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	switch p {
	case PeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		from = time.Date(y, m, d-(weekday-1), 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 0, 7)
	case PeriodYearly:
		from = time.Date(y, 1, 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(1, 0, 0)
	default:
		from = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 1, 0)
	}
}

// SpendingLimit caps expense totals for a category over a period. A nil
// CategoryID means the limit covers all spending.
type SpendingLimit struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Amount     decimal.Decimal
	Period     Period
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Notification is a stored alert shown to the user.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// Notification types raised by limit evaluation.
const (
	NotificationLimitWarning  = "SPENDING_LIMIT_WARNING"
	NotificationLimitExceeded = "SPENDING_LIMIT_EXCEEDED"
)

// Repository defines spending limit persistence operations.
type Repository interface {
	Create(ctx context.Context, l *SpendingLimit) error
	Update(ctx context.Context, l *SpendingLimit) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*SpendingLimit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SpendingLimit, error)
	// ListAll returns every limit across users, for scheduled evaluation.
	ListAll(ctx context.Context) ([]*SpendingLimit, error)
}

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	// ExistsSince guards against duplicate alerts for the same limit
	// within the current period.
	ExistsSince(ctx context.Context, userID uuid.UUID, nType, message string, since time.Time) (bool, error)
}
