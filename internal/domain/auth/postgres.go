package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spendeeapp/spendee-go/pkg/db"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool db.Querier
}

// NewPostgresRepository creates a new PostgreSQL auth repository.
func NewPostgresRepository(pool db.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateUser inserts a new account.
func (r *PostgresRepository) CreateUser(ctx context.Context, email, name, hashedPassword string) (*User, error) {
	query := `
		INSERT INTO users (email, name, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, hashed_password, role, is_active, created_at, updated_at`

	user := &User{}
	err := r.pool.QueryRow(ctx, query, strings.ToLower(email), name, hashedPassword).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, ErrUserAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail looks up an account by email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `WHERE email = $1`, strings.ToLower(email))
}

// GetUserByID looks up an account by ID.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) getUser(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT id, email, name, hashed_password, role, is_active, created_at, updated_at
		FROM users ` + where

	user := &User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
