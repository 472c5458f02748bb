package transaction

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

// NewPostgresRepository creates a new PostgreSQL transaction repository.
func NewPostgresRepository(pool db.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new transaction.
func (r *PostgresRepository) Insert(ctx context.Context, tx *Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	query := `
		INSERT INTO transactions (id, user_id, category_id, description, amount, type, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.UserID,
		tx.CategoryID,
		tx.Description,
		tx.Amount,
		tx.Type,
		tx.Date,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a single transaction owned by the user.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	query := `
		SELECT id, user_id, category_id, description, amount, type, date, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	tx := &Transaction{}
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.CategoryID,
		&tx.Description,
		&tx.Amount,
		&tx.Type,
		&tx.Date,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// Update rewrites the mutable fields of a transaction.
func (r *PostgresRepository) Update(ctx context.Context, tx *Transaction) error {
	query := `
		UPDATE transactions
		SET description = $3, amount = $4, type = $5, date = $6, category_id = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Description,
		tx.Amount,
		tx.Type,
		tx.Date,
		tx.CategoryID,
	).Scan(&tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// Delete removes a transaction owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns the user's transactions, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	query := `
		SELECT id, user_id, category_id, description, amount, type, date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1`

	args := []interface{}{userID}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		tx := &Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.CategoryID,
			&tx.Description,
			&tx.Amount,
			&tx.Type,
			&tx.Date,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ExistsByDescriptionFragmentAndDate reports whether the user already has a
// transaction on the given date whose description contains the fragment.
// strpos keeps the match literal; LIKE would treat % and _ in a reference
// code as wildcards.
func (r *PostgresRepository) ExistsByDescriptionFragmentAndDate(ctx context.Context, userID uuid.UUID, fragment string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND date = $2 AND strpos(description, $3) > 0
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, date, fragment).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check duplicate transaction: %w", err)
	}
	return exists, nil
}

// SetCategoryBulk assigns a category to many transactions at once.
func (r *PostgresRepository) SetCategoryBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, categoryID *uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE transactions
		SET category_id = $3, updated_at = now()
		WHERE user_id = $1 AND id = ANY($2)`

	result, err := r.pool.Exec(ctx, query, userID, ids, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk categorize transactions: %w", err)
	}
	return result.RowsAffected(), nil
}

// SumByTypeBetween totals the user's transactions of one type in [from, to).
func (r *PostgresRepository) SumByTypeBetween(ctx context.Context, userID uuid.UUID, txType Type, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date < $4`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID, txType, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// SumByCategoryBetween totals one transaction type per category in [from, to).
func (r *PostgresRepository) SumByCategoryBetween(ctx context.Context, userID uuid.UUID, txType Type, from, to time.Time) ([]CategoryTotal, error) {
	query := `
		SELECT t.category_id, COALESCE(c.name, 'Uncategorized'), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = $2 AND t.date >= $3 AND t.date < $4
		GROUP BY t.category_id, c.name
		ORDER BY SUM(t.amount) DESC`

	rows, err := r.pool.Query(ctx, query, userID, txType, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
