package limits

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/spendeeapp/spendee-go/internal/api"
	"github.com/spendeeapp/spendee-go/internal/domain/auth"
)

// Handler exposes spending limits and notifications over REST.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a limits handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type limitPayload struct {
	CategoryID *uuid.UUID      `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Period     Period          `json:"period"`
}

type limitResponse struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   *uuid.UUID      `json:"categoryId,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Period       Period          `json:"period"`
	CurrentSpent decimal.Decimal `json:"currentSpent"`
	Warning      bool            `json:"warning"`
	Exceeded     bool            `json:"exceeded"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func toLimitResponse(st *LimitStatus) limitResponse {
	return limitResponse{
		ID:           st.Limit.ID,
		CategoryID:   st.Limit.CategoryID,
		Amount:       st.Limit.Amount,
		Period:       st.Limit.Period,
		CurrentSpent: st.CurrentSpent,
		Warning:      st.Warning,
		Exceeded:     st.Exceeded,
		CreatedAt:    st.Limit.CreatedAt,
	}
}

// List handles GET /api/limits.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	statuses, err := h.svc.ListWithStatus(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list spending limits", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]limitResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toLimitResponse(st))
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// Create handles POST /api/limits.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var payload limitPayload
	if err := api.DecodeJSON(r, &payload); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := h.svc.Create(r.Context(), userID, CreateParams{
		CategoryID: payload.CategoryID,
		Amount:     payload.Amount,
		Period:     payload.Period,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, toLimitResponse(status))
}

// Update handles PUT /api/limits/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid limit id")
		return
	}

	var payload limitPayload
	if err := api.DecodeJSON(r, &payload); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := h.svc.Update(r.Context(), userID, id, CreateParams{
		CategoryID: payload.CategoryID,
		Amount:     payload.Amount,
		Period:     payload.Period,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, toLimitResponse(status))
}

// Delete handles DELETE /api/limits/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid limit id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

type notificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifications handles GET /api/notifications. ?unread=true filters to
// unread alerts.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns, err := h.svc.Notifications(r.Context(), userID, unreadOnly)
	if err != nil {
		h.logger.Error("failed to list notifications", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// MarkNotificationRead handles POST /api/notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.svc.MarkNotificationRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			api.RespondError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logger.Error("failed to mark notification read", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		api.RespondError(w, http.StatusNotFound, "spending limit not found")
	case errors.Is(err, ErrAmountNotPositive), errors.Is(err, ErrInvalidPeriod):
		api.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("spending limit request failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
