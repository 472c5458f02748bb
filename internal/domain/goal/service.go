package goal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors for goal input.
var (
	ErrNameRequired          = errors.New("goal name is required")
	ErrTargetNotPositive     = errors.New("target amount must be positive")
	ErrContributionNotValid  = errors.New("contribution amount must be positive")
	ErrCurrentAmountNegative = errors.New("current amount cannot be negative")
)

// CreateParams is the input for creating or updating a goal.
type CreateParams struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
}

// Service wraps goal business logic.
type Service struct {
	repo Repository
}

// NewService creates a goal service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(params CreateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if !params.TargetAmount.IsPositive() {
		return ErrTargetNotPositive
	}
	if params.CurrentAmount.IsNegative() {
		return ErrCurrentAmountNegative
	}
	return nil
}

// Create stores a new goal.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Goal, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	g := &Goal{
		UserID:        userID,
		Name:          strings.TrimSpace(params.Name),
		TargetAmount:  params.TargetAmount,
		CurrentAmount: params.CurrentAmount,
		Deadline:      params.Deadline,
		Completed:     params.CurrentAmount.GreaterThanOrEqual(params.TargetAmount),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Update rewrites an existing goal, re-deriving the completed flag.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params CreateParams) (*Goal, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	g, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	g.Name = strings.TrimSpace(params.Name)
	g.TargetAmount = params.TargetAmount
	g.CurrentAmount = params.CurrentAmount
	g.Deadline = params.Deadline
	g.Completed = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// AddContribution adds a positive amount toward the goal and marks it
// completed once the target is reached.
func (s *Service) AddContribution(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, ErrContributionNotValid
	}

	g, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Completed = true
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a goal.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// Get retrieves one goal.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Goal, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the user's goals.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Goal, error) {
	return s.repo.ListByUser(ctx, userID)
}
