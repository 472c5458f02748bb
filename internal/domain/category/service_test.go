package category

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categories []Category
}

func (f *fakeRepo) Create(_ context.Context, c *Category) error {
	c.ID = uuid.New()
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	for i, c := range f.categories {
		if c.ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRepo) FindForUser(_ context.Context, userID uuid.UUID) ([]Category, error) {
	var out []Category
	for _, c := range f.categories {
		if c.UserID == nil || *c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestService_ResolveByName(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := &fakeRepo{categories: []Category{
		{ID: uuid.New(), Name: "M-Pesa", IsDefault: true},
		{ID: uuid.New(), Name: "Food", IsDefault: true},
	}}
	svc := NewService(repo)

	t.Run("case-insensitive match", func(t *testing.T) {
		c, err := svc.ResolveByName(ctx, userID, "m-pesa")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "M-Pesa", c.Name)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		c, err := svc.ResolveByName(ctx, userID, "does not exist")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("user category shadows nothing but is found", func(t *testing.T) {
		created, err := svc.Create(ctx, userID, "Chama")
		require.NoError(t, err)

		c, err := svc.ResolveByName(ctx, userID, "CHAMA")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, created.ID, c.ID)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})

	t.Run("trims the name", func(t *testing.T) {
		c, err := svc.Create(ctx, uuid.New(), "  Transport  ")
		require.NoError(t, err)
		assert.Equal(t, "Transport", c.Name)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, uuid.New(), "   ")
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}
