package limits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spendeeapp/spendee-go/pkg/db"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool db.Querier
}

// NewPostgresRepository creates a new PostgreSQL spending limit repository.
func NewPostgresRepository(pool db.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new spending limit.
func (r *PostgresRepository) Create(ctx context.Context, l *SpendingLimit) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query := `
		INSERT INTO spending_limits (id, user_id, category_id, amount, period)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		l.ID,
		l.UserID,
		l.CategoryID,
		l.Amount,
		l.Period,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert spending limit: %w", err)
	}
	return nil
}

// Update rewrites the amount and period of a limit.
func (r *PostgresRepository) Update(ctx context.Context, l *SpendingLimit) error {
	query := `
		UPDATE spending_limits
		SET amount = $3, period = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, l.ID, l.UserID, l.Amount, l.Period).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to update spending limit: %w", err)
	}
	return nil
}

// Delete removes a limit owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM spending_limits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete spending limit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID retrieves one limit owned by the user.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*SpendingLimit, error) {
	query := `
		SELECT id, user_id, category_id, amount, period, created_at, updated_at
		FROM spending_limits
		WHERE id = $1 AND user_id = $2`

	l := &SpendingLimit{}
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&l.ID,
		&l.UserID,
		&l.CategoryID,
		&l.Amount,
		&l.Period,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spending limit: %w", err)
	}
	return l, nil
}

// ListByUser returns all limits owned by the user.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*SpendingLimit, error) {
	query := `
		SELECT id, user_id, category_id, amount, period, created_at, updated_at
		FROM spending_limits
		WHERE user_id = $1
		ORDER BY created_at`

	return r.queryLimits(ctx, query, userID)
}

// ListAll returns every limit across users.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*SpendingLimit, error) {
	query := `
		SELECT id, user_id, category_id, amount, period, created_at, updated_at
		FROM spending_limits
		ORDER BY user_id, created_at`

	return r.queryLimits(ctx, query)
}

func (r *PostgresRepository) queryLimits(ctx context.Context, query string, args ...any) ([]*SpendingLimit, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list spending limits: %w", err)
	}
	defer rows.Close()

	var out []*SpendingLimit
	for rows.Next() {
		l := &SpendingLimit{}
		err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.CategoryID,
			&l.Amount,
			&l.Period,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spending limit: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SumExpenses totals the user's expenses in [from, to), optionally scoped to
// one category.
func (r *PostgresRepository) SumExpenses(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND date >= $2 AND date < $3`
	args := []any{userID, from, to}
	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}

// PostgresNotificationRepository implements NotificationRepository.
type PostgresNotificationRepository struct {
	pool db.Querier
}

// NewPostgresNotificationRepository creates a notification repository.
func NewPostgresNotificationRepository(pool db.Querier) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

// Create stores a new notification.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	query := `
		INSERT INTO notifications (id, user_id, type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, n.ID, n.UserID, n.Type, n.Message).Scan(&n.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListByUser returns the user's notifications, newest first.
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	query := `
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one notification as read.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ExistsSince reports whether an identical alert was already raised in the
// current period.
func (r *PostgresNotificationRepository) ExistsSince(ctx context.Context, userID uuid.UUID, nType, message string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND message = $3 AND created_at >= $4
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, nType, message, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	return exists, nil
}
