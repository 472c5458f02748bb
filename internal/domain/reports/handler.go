package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spendeeapp/spendee-go/internal/api"
	"github.com/spendeeapp/spendee-go/internal/domain/auth"
)

// Handler exposes dashboard and export endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a reports handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	summary, err := h.svc.BuildSummary(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to build dashboard", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.RespondJSON(w, http.StatusOK, summary)
}

// exportRange reads ?from and ?to, defaulting to the last 12 months.
func exportRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	to := now.AddDate(0, 0, 1)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date")
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date")
		}
		to = parsed
	}
	return from, to, nil
}

// ExportCSV handles GET /api/reports/export.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	from, to, err := exportRange(r)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.svc.ExportCSV(r.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("csv export failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	_, _ = w.Write(data)
}

// ExportXLSX handles GET /api/reports/export.xlsx.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	from, to, err := exportRange(r)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.svc.ExportXLSX(r.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("xlsx export failed", slog.Any("error", err))
		api.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	_, _ = w.Write(data)
}
