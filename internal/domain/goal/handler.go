package goal

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

// Handler exposes savings goals over REST.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a goal handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type goalPayload struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *string         `json:"deadline"`
}

type goalResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Progress      decimal.Decimal `json:"progress"`
	Deadline      *string         `json:"deadline,omitempty"`
	Completed     bool            `json:"completed"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toResponse(g *Goal) goalResponse {
	resp := goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress(),
		Completed:     g.Completed,
		CreatedAt:     g.CreatedAt,
	}
	if g.Deadline != nil {
		d := g.Deadline.Format("2006-01-02")
		resp.Deadline = &d
	}
	return resp
}

func (p goalPayload) toParams() (CreateParams, error) {
	params := CreateParams{
		Name:          p.Name,
		TargetAmount:  p.TargetAmount,
		CurrentAmount: p.CurrentAmount,
	}
	if p.Deadline != nil && *p.Deadline != "" {
		d, err := time.Parse("2006-01-02", *p.Deadline)
		if err != nil {
			return CreateParams{}, errors.New("deadline must be YYYY-MM-DD")
		}
		params.Deadline = &d
	}
	return params, nil
}

// List handles GET /api/goals.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	goals, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list goals", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toResponse(g))
	}
	api.RespondJSON(w, http.StatusOK, out)
}

// Create handles POST /api/goals.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var payload goalPayload
	if err := api.DecodeJSON(r, &payload); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := payload.toParams()
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.svc.Create(r.Context(), userID, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, toResponse(g))
}

// Update handles PUT /api/goals/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	var payload goalPayload
	if err := api.DecodeJSON(r, &payload); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := payload.toParams()
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.svc.Update(r.Context(), userID, id, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, toResponse(g))
}

type contributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Contribute handles POST /api/goals/{id}/contribute.
func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	var req contributionRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := h.svc.AddContribution(r.Context(), userID, id, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, toResponse(g))
}

// Delete handles DELETE /api/goals/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		api.RespondError(w, http.StatusNotFound, "goal not found")
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrTargetNotPositive),
		errors.Is(err, ErrContributionNotValid),
		errors.Is(err, ErrCurrentAmountNegative):
		api.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("goal request failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
