package goal

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	goals map[uuid.UUID]*Goal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{goals: map[uuid.UUID]*Goal{}}
}

func (f *fakeRepo) Create(_ context.Context, g *Goal) error {
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	copied := *g
	f.goals[g.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(_ context.Context, g *Goal) error {
	if _, ok := f.goals[g.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *g
	f.goals[g.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	if _, ok := f.goals[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.goals, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, _, id uuid.UUID) (*Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *g
	return &copied, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*Goal, error) {
	var out []*Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc := NewService(newFakeRepo())

	t.Run("valid goal", func(t *testing.T) {
		g, err := svc.Create(ctx, userID, CreateParams{
			Name:         "Emergency fund",
			TargetAmount: decimal.NewFromInt(50000),
		})
		require.NoError(t, err)
		assert.False(t, g.Completed)
		assert.True(t, g.CurrentAmount.IsZero())
	})

	t.Run("already funded goal starts completed", func(t *testing.T) {
		g, err := svc.Create(ctx, userID, CreateParams{
			Name:          "Phone",
			TargetAmount:  decimal.NewFromInt(100),
			CurrentAmount: decimal.NewFromInt(150),
		})
		require.NoError(t, err)
		assert.True(t, g.Completed)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, CreateParams{Name: "  ", TargetAmount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("target must be positive", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, CreateParams{Name: "x", TargetAmount: decimal.Zero})
		assert.ErrorIs(t, err, ErrTargetNotPositive)
	})

	t.Run("negative current amount rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, CreateParams{
			Name:          "x",
			TargetAmount:  decimal.NewFromInt(10),
			CurrentAmount: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, ErrCurrentAmountNegative)
	})
}

func TestService_AddContribution(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc := NewService(newFakeRepo())

	g, err := svc.Create(ctx, userID, CreateParams{
		Name:         "Laptop",
		TargetAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	t.Run("accumulates and completes at target", func(t *testing.T) {
		updated, err := svc.AddContribution(ctx, userID, g.ID, decimal.NewFromInt(600))
		require.NoError(t, err)
		assert.False(t, updated.Completed)
		assert.True(t, decimal.NewFromInt(600).Equal(updated.CurrentAmount))

		updated, err = svc.AddContribution(ctx, userID, g.ID, decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.True(t, decimal.NewFromInt(100).Equal(updated.Progress()))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := svc.AddContribution(ctx, userID, g.ID, decimal.Zero)
		assert.ErrorIs(t, err, ErrContributionNotValid)
	})

	t.Run("unknown goal", func(t *testing.T) {
		_, err := svc.AddContribution(ctx, userID, uuid.New(), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		current int64
		want    string
	}{
		{"zero progress", 1000, 0, "0"},
		{"halfway", 1000, 500, "50"},
		{"overfunded capped at 100", 1000, 1500, "100"},
		{"fractional", 300, 100, "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{
				TargetAmount:  decimal.NewFromInt(tt.target),
				CurrentAmount: decimal.NewFromInt(tt.current),
			}
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(g.Progress()), "want %s got %s", want, g.Progress())
		})
	}
}
