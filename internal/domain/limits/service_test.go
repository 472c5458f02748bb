package limits

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendeeapp/spendee-go/internal/domain/category"
)

type fakeLimitRepo struct {
	limits map[uuid.UUID]*SpendingLimit
}

func newFakeLimitRepo() *fakeLimitRepo {
	return &fakeLimitRepo{limits: map[uuid.UUID]*SpendingLimit{}}
}

func (f *fakeLimitRepo) Create(_ context.Context, l *SpendingLimit) error {
	l.ID = uuid.New()
	copied := *l
	f.limits[l.ID] = &copied
	return nil
}

func (f *fakeLimitRepo) Update(_ context.Context, l *SpendingLimit) error {
	if _, ok := f.limits[l.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *l
	f.limits[l.ID] = &copied
	return nil
}

func (f *fakeLimitRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	if _, ok := f.limits[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.limits, id)
	return nil
}

func (f *fakeLimitRepo) GetByID(_ context.Context, _, id uuid.UUID) (*SpendingLimit, error) {
	l, ok := f.limits[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLimitRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*SpendingLimit, error) {
	var out []*SpendingLimit
	for _, l := range f.limits {
		if l.UserID == userID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLimitRepo) ListAll(_ context.Context) ([]*SpendingLimit, error) {
	var out []*SpendingLimit
	for _, l := range f.limits {
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

type fakeNotifications struct {
	created []*Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	var out []*Notification
	for _, n := range f.created {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, _, id uuid.UUID) error {
	for _, n := range f.created {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeNotifications) ExistsSince(_ context.Context, userID uuid.UUID, nType, message string, _ time.Time) (bool, error) {
	for _, n := range f.created {
		if n.UserID == userID && n.Type == nType && n.Message == message {
			return true, nil
		}
	}
	return false, nil
}

type fakeExpenses struct {
	total decimal.Decimal
}

func (f *fakeExpenses) SumExpenses(context.Context, uuid.UUID, *uuid.UUID, time.Time, time.Time) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeCategories struct {
	name string
}

func (f *fakeCategories) GetByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	return &category.Category{ID: id, Name: f.name}, nil
}

func newTestService(spent string) (*Service, *fakeLimitRepo, *fakeNotifications) {
	repo := newFakeLimitRepo()
	notifications := &fakeNotifications{}
	svc := NewService(repo, notifications, &fakeExpenses{total: decimal.RequireFromString(spent)}, &fakeCategories{name: "Food"}, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo, notifications
}

func TestPeriodBounds(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 10, 15, 13, 45, 0, 0, time.UTC)

	t.Run("weekly starts Monday", func(t *testing.T) {
		from, to := PeriodWeekly.Bounds(now)
		assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("weekly on Sunday stays in current week", func(t *testing.T) {
		sunday := time.Date(2025, 10, 19, 8, 0, 0, 0, time.UTC)
		from, _ := PeriodWeekly.Bounds(sunday)
		assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), from)
	})

	t.Run("monthly", func(t *testing.T) {
		from, to := PeriodMonthly.Bounds(now)
		assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("yearly", func(t *testing.T) {
		from, to := PeriodYearly.Bounds(now)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), to)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("under threshold raises nothing", func(t *testing.T) {
		svc, _, notifications := newTestService("100.00")
		status, err := svc.Create(ctx, userID, CreateParams{Amount: decimal.NewFromInt(1000), Period: PeriodMonthly})
		require.NoError(t, err)
		assert.False(t, status.Warning)
		assert.False(t, status.Exceeded)
		assert.Empty(t, notifications.created)
	})

	t.Run("at 80 percent raises warning", func(t *testing.T) {
		svc, _, notifications := newTestService("800.00")
		status, err := svc.Create(ctx, userID, CreateParams{Amount: decimal.NewFromInt(1000), Period: PeriodMonthly})
		require.NoError(t, err)
		assert.True(t, status.Warning)
		assert.False(t, status.Exceeded)
		require.Len(t, notifications.created, 1)
		assert.Equal(t, NotificationLimitWarning, notifications.created[0].Type)
	})

	t.Run("over the limit raises exceeded", func(t *testing.T) {
		svc, _, notifications := newTestService("1200.00")
		status, err := svc.Create(ctx, userID, CreateParams{Amount: decimal.NewFromInt(1000), Period: PeriodMonthly})
		require.NoError(t, err)
		assert.True(t, status.Exceeded)
		require.Len(t, notifications.created, 1)
		assert.Equal(t, NotificationLimitExceeded, notifications.created[0].Type)
		assert.Contains(t, notifications.created[0].Message, "exceeded")
	})

	t.Run("category limit names the category", func(t *testing.T) {
		svc, _, notifications := newTestService("1200.00")
		categoryID := uuid.New()
		_, err := svc.Create(ctx, userID, CreateParams{
			CategoryID: &categoryID,
			Amount:     decimal.NewFromInt(1000),
			Period:     PeriodMonthly,
		})
		require.NoError(t, err)
		require.Len(t, notifications.created, 1)
		assert.Contains(t, notifications.created[0].Message, "Food")
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, _ := newTestService("0")
		_, err := svc.Create(ctx, userID, CreateParams{Amount: decimal.Zero, Period: PeriodMonthly})
		assert.ErrorIs(t, err, ErrAmountNotPositive)

		_, err = svc.Create(ctx, userID, CreateParams{Amount: decimal.NewFromInt(10), Period: Period("daily")})
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestService_EvaluateAll_SuppressesRepeatAlerts(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, _, notifications := newTestService("1200.00")

	_, err := svc.Create(ctx, userID, CreateParams{Amount: decimal.NewFromInt(1000), Period: PeriodMonthly})
	require.NoError(t, err)
	require.Len(t, notifications.created, 1)

	// The sweep sees the same crossing again and stays quiet.
	require.NoError(t, svc.EvaluateAll(ctx))
	require.NoError(t, svc.EvaluateAll(ctx))
	assert.Len(t, notifications.created, 1)
}
