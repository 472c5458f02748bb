package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNameRequired is returned when creating a category without a name.
var ErrNameRequired = errors.New("category name is required")

// Service wraps category business logic.
type Service struct {
	repo Repository
}

// NewService creates a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a category owned by the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	c := &Category{UserID: &userID, Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a user-owned category.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// ListForUser returns the user's categories plus the defaults.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	return s.repo.FindForUser(ctx, userID)
}

// ResolveByName finds a category visible to the user by case-insensitive
// name match. Returns nil when no category matches.
func (s *Service) ResolveByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error) {
	categories, err := s.repo.FindForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i], nil
		}
	}
	return nil, nil
}
