package limits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendeeapp/spendee-go/internal/domain/category"
)

// Validation errors for spending limit input.
var (
	ErrAmountNotPositive = errors.New("limit amount must be positive")
	ErrInvalidPeriod     = errors.New("period must be weekly, monthly or yearly")
)

// warningThreshold is the share of a limit that triggers a warning
// notification before the limit itself is crossed.
var warningThreshold = decimal.NewFromFloat(0.8)

// ExpenseReader totals expenses for limit evaluation.
type ExpenseReader interface {
	SumExpenses(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// CategoryReader resolves category names for notification messages.
type CategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error)
}

// LimitStatus is a limit with its current-period spending attached.
type LimitStatus struct {
	Limit        *SpendingLimit
	CurrentSpent decimal.Decimal
	// Exceeded means spending has crossed the limit; Warning means it has
	// crossed 80% of it.
	Warning  bool
	Exceeded bool
}

// Service manages spending limits and evaluates them against spending.
type Service struct {
	repo          Repository
	notifications NotificationRepository
	expenses      ExpenseReader
	categories    CategoryReader
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates a spending limit service.
func NewService(repo Repository, notifications NotificationRepository, expenses ExpenseReader, categories CategoryReader, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		notifications: notifications,
		expenses:      expenses,
		categories:    categories,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateParams is the input for creating or updating a limit.
type CreateParams struct {
	CategoryID *uuid.UUID
	Amount     decimal.Decimal
	Period     Period
}

func validate(params CreateParams) error {
	if !params.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if !params.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}

// Create stores a new limit and immediately evaluates it, so a limit set
// below current spending alerts right away.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*LimitStatus, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	l := &SpendingLimit{
		UserID:     userID,
		CategoryID: params.CategoryID,
		Amount:     params.Amount,
		Period:     params.Period,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return s.evaluate(ctx, l, true)
}

// Update rewrites an existing limit.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params CreateParams) (*LimitStatus, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	l.Amount = params.Amount
	l.Period = params.Period
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return s.evaluate(ctx, l, false)
}

// Delete removes a limit.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// ListWithStatus returns the user's limits with current-period spending.
func (s *Service) ListWithStatus(ctx context.Context, userID uuid.UUID) ([]*LimitStatus, error) {
	ls, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*LimitStatus, 0, len(ls))
	for _, l := range ls {
		status, err := s.evaluate(ctx, l, false)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

// EvaluateAll checks every stored limit and raises notifications for the ones
// that are crossed. Used by the daily scheduler.
func (s *Service) EvaluateAll(ctx context.Context) error {
	ls, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, l := range ls {
		if _, err := s.evaluate(ctx, l, true); err != nil {
			s.logger.Warn("limit evaluation failed",
				slog.String("limit_id", l.ID.String()),
				slog.Any("error", err),
			)
			failed++
		}
	}
	s.logger.Info("spending limit sweep finished",
		slog.Int("evaluated", len(ls)),
		slog.Int("failed", failed),
	)
	return nil
}

// evaluate computes current-period spending for a limit and, when notify is
// set, records a warning or exceeded notification. Repeat alerts within the
// same period are suppressed.
func (s *Service) evaluate(ctx context.Context, l *SpendingLimit, notify bool) (*LimitStatus, error) {
	from, to := l.Period.Bounds(s.now())
	spent, err := s.expenses.SumExpenses(ctx, l.UserID, l.CategoryID, from, to)
	if err != nil {
		return nil, err
	}

	status := &LimitStatus{
		Limit:        l,
		CurrentSpent: spent,
		Exceeded:     spent.GreaterThan(l.Amount),
		Warning:      spent.GreaterThanOrEqual(l.Amount.Mul(warningThreshold)),
	}

	if notify && (status.Exceeded || status.Warning) {
		if err := s.notify(ctx, l, status, from); err != nil {
			s.logger.Warn("failed to raise limit notification", slog.Any("error", err))
		}
	}
	return status, nil
}

func (s *Service) notify(ctx context.Context, l *SpendingLimit, status *LimitStatus, periodStart time.Time) error {
	scope := "total spending"
	if l.CategoryID != nil {
		c, err := s.categories.GetByID(ctx, *l.CategoryID)
		if err == nil && c != nil {
			scope = c.Name
		}
	}

	nType := NotificationLimitWarning
	message := fmt.Sprintf("You're approaching your spending limit for %s. Limit: %s, Current spending: %s",
		scope, l.Amount.StringFixed(2), status.CurrentSpent.StringFixed(2))
	if status.Exceeded {
		nType = NotificationLimitExceeded
		message = fmt.Sprintf("You've exceeded your spending limit for %s. Limit: %s, Current spending: %s",
			scope, l.Amount.StringFixed(2), status.CurrentSpent.StringFixed(2))
	}

	exists, err := s.notifications.ExistsSince(ctx, l.UserID, nType, message, periodStart)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.notifications.Create(ctx, &Notification{
		UserID:  l.UserID,
		Type:    nType,
		Message: message,
	})
}

// Notifications returns the user's notifications.
func (s *Service) Notifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly)
}

// MarkNotificationRead flags a notification as read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, userID, id)
}
