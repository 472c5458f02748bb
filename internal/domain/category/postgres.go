package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spendeeapp/spendee-go/pkg/db"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool db.Querier
}

// NewPostgresRepository creates a new PostgreSQL category repository.
func NewPostgresRepository(pool db.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a user-owned category.
func (r *PostgresRepository) Create(ctx context.Context, c *Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
		INSERT INTO categories (id, user_id, name, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, c.ID, c.UserID, c.Name, c.IsDefault).Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Delete removes a category the user owns. Default categories cannot be
// deleted through this path.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindForUser returns the user's categories plus the system defaults.
func (r *PostgresRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	query := `
		SELECT id, user_id, name, is_default, created_at
		FROM categories
		WHERE user_id = $1 OR is_default
		ORDER BY is_default, lower(name)`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID retrieves a single category.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := `SELECT id, user_id, name, is_default, created_at FROM categories WHERE id = $1`

	c := &Category{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.UserID, &c.Name, &c.IsDefault, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}
