// Package handler exposes the M-Pesa statement upload endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/spendeeapp/spendee-go/internal/domain/auth"
	"github.com/spendeeapp/spendee-go/internal/domain/statement/service"
	"github.com/spendeeapp/spendee-go/pkg/metrics"
)

// Handler handles statement upload HTTP requests.
type Handler struct {
	svc            *service.Service
	metrics        *metrics.Metrics
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a statement handler.
func NewHandler(svc *service.Service, m *metrics.Metrics, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, metrics: m, maxUploadBytes: maxUploadBytes, logger: logger}
}

// uploadResponse is the JSON contract of the upload endpoint. Amounts
// serialize as decimal strings, never floats.
type uploadResponse struct {
	Success             bool            `json:"success"`
	Message             string          `json:"message"`
	TotalTransactions   int             `json:"totalTransactions"`
	SavedTransactions   int             `json:"savedTransactions"`
	SkippedTransactions int             `json:"skippedTransactions"`
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpense        decimal.Decimal `json:"totalExpense"`
}

// UploadStatement handles POST /api/mpesa/upload-statement. File-shape and
// extraction problems come back as a 400 with a diagnostic; a parseable
// statement with nothing to import is a regular success.
func (h *Handler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthenticated"}`, http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeFailure(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeFailure(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeFailure(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result, err := h.svc.ImportStatement(r.Context(), data, header.Filename, userID)
	switch {
	case errors.Is(err, service.ErrInvalidFile):
		h.metrics.StatementImports.WithLabelValues("invalid_file").Inc()
		h.writeFailure(w, http.StatusBadRequest, "please upload a non-empty PDF statement")
		return
	case errors.Is(err, service.ErrParseFailure):
		h.metrics.StatementImports.WithLabelValues("parse_failure").Inc()
		h.writeFailure(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("statement import failed", slog.Any("error", err))
		h.metrics.StatementImports.WithLabelValues("error").Inc()
		h.writeFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.metrics.StatementImports.WithLabelValues("ok").Inc()
	h.metrics.TransactionsSaved.Add(float64(result.SavedCount))

	message := fmt.Sprintf("Statement processed successfully! Imported %d transactions", result.SavedCount)
	if result.TotalParsed == 0 {
		message = "Statement processed successfully - no new transactions found"
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:             true,
		Message:             message,
		TotalTransactions:   result.TotalParsed,
		SavedTransactions:   result.SavedCount,
		SkippedTransactions: result.SkippedCount,
		TotalIncome:         result.TotalIncome,
		TotalExpense:        result.TotalExpense,
	})
}

// UploadInfo handles GET /api/mpesa/upload-info.
func (h *Handler) UploadInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"maxFileSize":      fmt.Sprintf("%dMB", h.maxUploadBytes>>20),
		"supportedFormats": []string{"PDF"},
		"instructions": []string{
			"Download your M-Pesa statement from the Safaricom app",
			"Select the PDF file to upload",
			"We'll automatically extract and categorize your transactions",
			"Duplicate transactions will be skipped",
		},
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, uploadResponse{
		Success:      false,
		Message:      message,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
