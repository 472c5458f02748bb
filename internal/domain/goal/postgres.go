package goal

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

// NewPostgresRepository creates a new PostgreSQL goal repository.
func NewPostgresRepository(pool db.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new goal.
func (r *PostgresRepository) Create(ctx context.Context, g *Goal) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}

	query := `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		g.ID,
		g.UserID,
		g.Name,
		g.TargetAmount,
		g.CurrentAmount,
		g.Deadline,
		g.Completed,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a goal.
func (r *PostgresRepository) Update(ctx context.Context, g *Goal) error {
	query := `
		UPDATE goals
		SET name = $3, target_amount = $4, current_amount = $5, deadline = $6, completed = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		g.ID,
		g.UserID,
		g.Name,
		g.TargetAmount,
		g.CurrentAmount,
		g.Deadline,
		g.Completed,
	).Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// Delete removes a goal owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID retrieves one goal owned by the user.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, completed, created_at, updated_at
		FROM goals
		WHERE id = $1 AND user_id = $2`

	g := &Goal{}
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Deadline,
		&g.Completed,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// ListByUser returns all goals owned by the user, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, completed, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []*Goal
	for rows.Next() {
		g := &Goal{}
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Name,
			&g.TargetAmount,
			&g.CurrentAmount,
			&g.Deadline,
			&g.Completed,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
