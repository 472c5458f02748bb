package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/spendeeapp/spendee-go/internal/api"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates an auth handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func toAuthResponse(res *AuthResult) authResponse {
	return authResponse{
		User: userResponse{
			ID:        res.User.ID,
			Email:     res.User.Email,
			Name:      res.User.Name,
			CreatedAt: res.User.CreatedAt,
		},
		AccessToken: res.AccessToken,
	}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Register(r.Context(), RegisterParams{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrPasswordTooWeak):
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrUserAlreadyExists):
		api.RespondError(w, http.StatusConflict, "an account with this email already exists")
		return
	case err != nil:
		h.logger.Error("registration failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusCreated, toAuthResponse(res))
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		api.RespondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	case errors.Is(err, ErrAccountInactive):
		api.RespondError(w, http.StatusForbidden, "account is deactivated")
		return
	case err != nil:
		h.logger.Error("login failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, toAuthResponse(res))
}

// Me handles GET /api/auth/me for the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			api.RespondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to load user", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}
