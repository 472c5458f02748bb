package transaction

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresRepository_Insert(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	userID := uuid.New()
	now := time.Now()
	tx := &Transaction{
		UserID:      userID,
		Description: gofakeit.ProductName() + " (Sent)",
		Amount:      decimal.RequireFromString("4630.00"),
		Type:        TypeExpense,
		Date:        time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs(pgxmock.AnyArg(), tx.UserID, tx.CategoryID, tx.Description, tx.Amount, tx.Type, tx.Date).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Insert(context.Background(), tx))
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, now, tx.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	userID, id := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT id, user_id, category_id").
		WithArgs(id, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), userID, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPostgresRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)
	userID, id := uuid.New(), uuid.New()

	t.Run("deletes owned transaction", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM transactions").
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), userID, id))
	})

	t.Run("missing row maps to ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM transactions").
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), userID, id), sql.ErrNoRows)
	})
}

func TestPostgresRepository_ExistsByDescriptionFragmentAndDate(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	userID := uuid.New()
	date := time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(userID, date, "QQF51KXY2M").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.ExistsByDescriptionFragmentAndDate(context.Background(), userID, "QQF51KXY2M", date)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(userID, date, "QQF51KXY2M").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsByDescriptionFragmentAndDate(context.Background(), userID, "QQF51KXY2M", date)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("fragment with wildcard characters matches literally", func(t *testing.T) {
		// strpos, not LIKE, so % and _ in a reference pass through verbatim.
		mock.ExpectQuery(`strpos\(description, \$3\) > 0`).
			WithArgs(userID, date, "QQ%51_XY2M").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsByDescriptionFragmentAndDate(context.Background(), userID, "QQ%51_XY2M", date)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPostgresRepository_SumByTypeBetween(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	userID := uuid.New()
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(userID, TypeExpense, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("7130.00")))

	total, err := repo.SumByTypeBetween(context.Background(), userID, TypeExpense, from, to)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7130").Equal(total))
}

func TestPostgresRepository_SetCategoryBulk(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	userID := uuid.New()
	categoryID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("updates matching rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions").
			WithArgs(userID, ids, &categoryID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		updated, err := repo.SetCategoryBulk(context.Background(), userID, ids, &categoryID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		updated, err := repo.SetCategoryBulk(context.Background(), userID, nil, &categoryID)
		require.NoError(t, err)
		assert.Zero(t, updated)
	})
}
