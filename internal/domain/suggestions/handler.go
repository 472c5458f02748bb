package suggestions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/spendeeapp/spendee-go/internal/api"
	"github.com/spendeeapp/spendee-go/internal/domain/auth"
	"github.com/spendeeapp/spendee-go/internal/domain/category"
)

// Matching defaults for the suggestion endpoint.
const (
	defaultThreshold = 60
	defaultLimit     = 5
)

// CategoryLister loads the categories visible to a user.
type CategoryLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]category.Category, error)
}

// Handler exposes category suggestions over REST.
type Handler struct {
	categories CategoryLister
	logger     *slog.Logger
}

// NewHandler creates a suggestions handler.
func NewHandler(categories CategoryLister, logger *slog.Logger) *Handler {
	return &Handler{categories: categories, logger: logger}
}

// Suggest handles GET /api/suggestions?description=...  The suggester is
// rebuilt per request from the user's categories; the pattern set is small
// enough that caching would not pay for its invalidation.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	description := r.URL.Query().Get("description")
	if description == "" {
		api.RespondError(w, http.StatusBadRequest, "description query parameter is required")
		return
	}

	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			api.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	categories, err := h.categories.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load categories for suggestions", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	suggester := NewSuggester(categories)
	results := suggester.Suggest(description, defaultThreshold, limit)
	api.RespondJSON(w, http.StatusOK, map[string]any{
		"description": description,
		"suggestions": results,
	})
}
