package transaction

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

// Handler exposes transaction CRUD over REST.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a transaction handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type transactionPayload struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Date        string          `json:"date"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
}

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Date        string          `json:"date"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toResponse(tx *Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Date:        tx.Date.Format("2006-01-02"),
		CategoryID:  tx.CategoryID,
		CreatedAt:   tx.CreatedAt,
	}
}

func (p transactionPayload) toParams() (CreateParams, error) {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return CreateParams{}, errors.New("date must be YYYY-MM-DD")
	}
	return CreateParams{
		Description: p.Description,
		Amount:      p.Amount,
		Type:        p.Type,
		Date:        date,
		CategoryID:  p.CategoryID,
	}, nil
}

// Create handles POST /api/transactions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var payload transactionPayload
	if err := api.DecodeJSON(r, &payload); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := payload.toParams()
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.svc.Create(r.Context(), userID, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, toResponse(tx))
}

// Update handles PUT /api/transactions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var payload transactionPayload
	if err := api.DecodeJSON(r, &payload); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params, err := payload.toParams()
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.svc.Update(r.Context(), userID, id, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, toResponse(tx))
}

// Delete handles DELETE /api/transactions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

// List handles GET /api/transactions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	filter := ListFilter{Limit: 100}
	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		t := Type(v)
		filter.Type = &t
	}
	if v := q.Get("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "invalid categoryId")
			return
		}
		filter.CategoryID = &id
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		filter.To = &to
	}

	txs, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toResponse(tx))
	}
	api.RespondJSON(w, http.StatusOK, out)
}

type bulkCategorizeRequest struct {
	TransactionIDs []uuid.UUID `json:"transactionIds"`
	CategoryID     *uuid.UUID  `json:"categoryId"`
}

// BulkCategorize handles POST /api/transactions/bulk-categorize.
func (h *Handler) BulkCategorize(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req bulkCategorizeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.BulkCategorize(r.Context(), userID, req.TransactionIDs, req.CategoryID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		api.RespondError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, ErrDescriptionRequired),
		errors.Is(err, ErrAmountNotPositive),
		errors.Is(err, ErrInvalidType):
		api.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("transaction request failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
