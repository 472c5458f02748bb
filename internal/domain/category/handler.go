package category

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spendeeapp/spendee-go/internal/api"
	"github.com/spendeeapp/spendee-go/internal/domain/auth"
)

// Handler exposes category management over REST.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a category handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/categories. Default categories are included.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	categories, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list categories", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req createCategoryRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.svc.Create(r.Context(), userID, req.Name)
	switch {
	case errors.Is(err, ErrNameRequired):
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case isUniqueViolation(err):
		api.RespondError(w, http.StatusConflict, "category already exists")
		return
	case err != nil:
		h.logger.Error("failed to create category", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusCreated, c)
}

// Delete handles DELETE /api/categories/{id}. Only user-owned categories can
// be deleted; defaults are shared and stay.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			api.RespondError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("failed to delete category", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
