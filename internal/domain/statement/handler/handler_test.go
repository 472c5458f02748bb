package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendeeapp/spendee-go/internal/domain/auth"
	"github.com/spendeeapp/spendee-go/internal/domain/category"
	"github.com/spendeeapp/spendee-go/internal/domain/statement/service"
	"github.com/spendeeapp/spendee-go/internal/domain/transaction"
	"github.com/spendeeapp/spendee-go/pkg/metrics"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText([]byte) (string, error) { return s.text, s.err }

type stubStore struct{ saved int }

func (s *stubStore) ExistsByDescriptionFragmentAndDate(context.Context, uuid.UUID, string, time.Time) (bool, error) {
	return false, nil
}

func (s *stubStore) Insert(context.Context, *transaction.Transaction) error {
	s.saved++
	return nil
}

type stubResolver struct{}

func (stubResolver) ResolveByName(context.Context, uuid.UUID, string) (*category.Category, error) {
	return nil, nil
}

func newHandler(extractor service.TextExtractor) *Handler {
	logger := slog.New(slog.DiscardHandler)
	svc := service.NewService(extractor, &stubStore{}, stubResolver{}, logger)
	return NewHandler(svc, metrics.New(), 10<<20, logger)
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/mpesa/upload-statement", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req.WithContext(auth.ContextWithUserID(req.Context(), uuid.New()))
}

func decodeUpload(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_UploadStatement(t *testing.T) {
	const statementText = "SUMMARY\nSend Money  1,200.00  4,630.00\nDETAILED STATEMENT\n"

	t.Run("successful import", func(t *testing.T) {
		h := newHandler(&stubExtractor{text: statementText})
		rec := httptest.NewRecorder()
		h.UploadStatement(rec, uploadRequest(t, "statement.pdf", []byte("%PDF-1.4")))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeUpload(t, rec)
		assert.JSONEq(t, "true", string(body["success"]))
		assert.JSONEq(t, "2", string(body["totalTransactions"]))
		assert.JSONEq(t, "2", string(body["savedTransactions"]))
		assert.JSONEq(t, "0", string(body["skippedTransactions"]))
		// Amounts are decimal strings, never JSON floats.
		assert.Equal(t, `"1200"`, string(body["totalIncome"]))
		assert.Equal(t, `"4630"`, string(body["totalExpense"]))
	})

	t.Run("non-pdf upload is a 400 failure envelope", func(t *testing.T) {
		h := newHandler(&stubExtractor{})
		rec := httptest.NewRecorder()
		h.UploadStatement(rec, uploadRequest(t, "statement.txt", []byte("data")))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeUpload(t, rec)
		assert.JSONEq(t, "false", string(body["success"]))
	})

	t.Run("extraction failure is a 400", func(t *testing.T) {
		h := newHandler(&stubExtractor{err: errors.New("bad xref")})
		rec := httptest.NewRecorder()
		h.UploadStatement(rec, uploadRequest(t, "statement.pdf", []byte("%PDF-1.4")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty statement is still a success", func(t *testing.T) {
		h := newHandler(&stubExtractor{text: "no summary here"})
		rec := httptest.NewRecorder()
		h.UploadStatement(rec, uploadRequest(t, "statement.pdf", []byte("%PDF-1.4")))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeUpload(t, rec)
		assert.JSONEq(t, "true", string(body["success"]))
		assert.JSONEq(t, "0", string(body["totalTransactions"]))
	})

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/mpesa/upload-statement", nil)
		req = req.WithContext(auth.ContextWithUserID(req.Context(), uuid.New()))
		rec := httptest.NewRecorder()
		newHandler(&stubExtractor{}).UploadStatement(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/mpesa/upload-statement", nil)
		rec := httptest.NewRecorder()
		newHandler(&stubExtractor{}).UploadStatement(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
