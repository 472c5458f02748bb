package transaction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors for transaction input.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrInvalidType         = errors.New("type must be income or expense")
)

// CreateParams is the input for creating or updating a transaction.
type CreateParams struct {
	Description string
	Amount      decimal.Decimal
	Type        Type
	Date        time.Time
	CategoryID  *uuid.UUID
}

// Service wraps transaction business logic.
type Service struct {
	repo Repository
}

// NewService creates a transaction service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(params CreateParams) error {
	if strings.TrimSpace(params.Description) == "" {
		return ErrDescriptionRequired
	}
	if !params.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if params.Type != TypeIncome && params.Type != TypeExpense {
		return ErrInvalidType
	}
	return nil
}

// Create validates and stores a new transaction.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:      userID,
		CategoryID:  params.CategoryID,
		Description: strings.TrimSpace(params.Description),
		Amount:      params.Amount,
		Type:        params.Type,
		Date:        params.Date,
	}
	if err := s.repo.Insert(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Update rewrites an existing transaction.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	tx, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tx.Description = strings.TrimSpace(params.Description)
	tx.Amount = params.Amount
	tx.Type = params.Type
	tx.Date = params.Date
	tx.CategoryID = params.CategoryID

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Delete removes a transaction.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// Get retrieves one transaction.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the user's transactions with optional filters.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// BulkCategorize assigns one category to many transactions.
func (s *Service) BulkCategorize(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, categoryID *uuid.UUID) (int64, error) {
	return s.repo.SetCategoryBulk(ctx, userID, ids, categoryID)
}
