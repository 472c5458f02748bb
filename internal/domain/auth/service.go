package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// RegisterParams contains the required data for user registration.
type RegisterParams struct {
	Email    string
	Name     string
	Password string
}

// AuthResult is produced after a successful registration or login.
type AuthResult struct {
	User        *User
	AccessToken string
}

// Service coordinates authentication business logic.
type Service struct {
	repo   Repository
	tokens *TokenManager
	logger *slog.Logger
}

// NewService constructs a new auth service.
func NewService(repo Repository, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a new user account and issues an access token.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := ValidateEmail(params.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(params.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, params.Email, strings.TrimSpace(params.Name), hashed)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	return &AuthResult{User: user, AccessToken: token}, nil
}

// GetUser loads a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// Login authenticates a user against stored credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if !ComparePassword(user.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}
