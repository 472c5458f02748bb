// Package service orchestrates M-Pesa statement imports: extraction,
// summary parsing, deduplication and persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendeeapp/spendee-go/internal/domain/category"
	"github.com/spendeeapp/spendee-go/internal/domain/statement"
	"github.com/spendeeapp/spendee-go/internal/domain/transaction"
)

// Import error taxonomy. File-shape and extraction errors abort the import
// before any persistence; per-row errors never do.
var (
	// ErrInvalidFile flags an empty upload or a non-PDF filename.
	ErrInvalidFile = errors.New("invalid statement file")
	// ErrParseFailure flags a byte stream that could not be read as a PDF.
	ErrParseFailure = errors.New("failed to parse statement")
)

// defaultCategoryName is the category auto-assigned to imported rows when
// the user has one by this name.
const defaultCategoryName = "M-Pesa"

// ImportResult summarizes one statement import.
// SavedCount + SkippedCount always equals TotalParsed.
type ImportResult struct {
	TotalParsed  int
	SavedCount   int
	SkippedCount int
	// Totals cover saved transactions only, by direction.
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// TextExtractor converts PDF bytes to plain text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// TransactionStore is the persistence surface the orchestrator needs:
// a dedup probe and single-row inserts. Batch-level transactional wrapping
// is deliberately absent; partial success is the intended behavior.
type TransactionStore interface {
	ExistsByDescriptionFragmentAndDate(ctx context.Context, userID uuid.UUID, fragment string, date time.Time) (bool, error)
	Insert(ctx context.Context, tx *transaction.Transaction) error
}

// CategoryResolver resolves a category visible to the user by name.
type CategoryResolver interface {
	ResolveByName(ctx context.Context, userID uuid.UUID, name string) (*category.Category, error)
}

// Service imports M-Pesa PDF statements for a user.
type Service struct {
	extractor  TextExtractor
	store      TransactionStore
	categories CategoryResolver
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a statement import service.
func NewService(extractor TextExtractor, store TransactionStore, categories CategoryResolver, logger *slog.Logger) *Service {
	return &Service{
		extractor:  extractor,
		store:      store,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// ImportStatement processes one uploaded statement end to end and returns an
// import summary. A statement with no extractable transactions is a success
// with zeroed counters, not an error.
func (s *Service) ImportStatement(ctx context.Context, fileBytes []byte, filename string, userID uuid.UUID) (*ImportResult, error) {
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidFile)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, fmt.Errorf("%w: %q is not a PDF", ErrInvalidFile, filename)
	}

	text, err := s.extractor.ExtractText(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	statementDate := statement.ExtractStatementDate(text, s.now())
	candidates := statement.ParseSummary(text, statementDate)

	result := &ImportResult{
		TotalParsed:  len(candidates),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	if len(candidates) == 0 {
		s.logger.Info("statement contained no parseable transactions",
			slog.String("user_id", userID.String()),
			slog.String("filename", filename),
		)
		return result, nil
	}

	categoryID := s.resolveDefaultCategory(ctx, userID)
	s.saveCandidates(ctx, userID, categoryID, candidates, result)

	s.logger.Info("statement import finished",
		slog.String("user_id", userID.String()),
		slog.Int("parsed", result.TotalParsed),
		slog.Int("saved", result.SavedCount),
		slog.Int("skipped", result.SkippedCount),
	)
	return result, nil
}

// saveCandidates persists each candidate in order, accumulating counts and
// direction totals on result. Candidates carrying an external reference are
// checked for duplicates first; rows that fail the probe or the insert are
// skipped individually.
func (s *Service) saveCandidates(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, candidates []statement.ParsedTransaction, result *ImportResult) {
	for _, c := range candidates {
		if c.ExternalRef != "" {
			exists, err := s.store.ExistsByDescriptionFragmentAndDate(ctx, userID, c.ExternalRef, c.Date)
			if err != nil {
				// Per-row isolation: a failed dedup probe skips the row
				// rather than aborting the batch.
				s.logger.Warn("duplicate check failed", slog.Any("error", err))
				result.SkippedCount++
				continue
			}
			if exists {
				result.SkippedCount++
				continue
			}
		}

		tx := &transaction.Transaction{
			UserID:      userID,
			CategoryID:  categoryID,
			Description: c.Description,
			Amount:      c.Amount,
			Type:        directionToType(c.Direction),
			Date:        c.Date,
		}
		if err := s.store.Insert(ctx, tx); err != nil {
			s.logger.Warn("failed to save imported transaction",
				slog.String("description", c.Description),
				slog.Any("error", err),
			)
			result.SkippedCount++
			continue
		}

		result.SavedCount++
		if c.Direction == statement.DirectionIncome {
			result.TotalIncome = result.TotalIncome.Add(c.Amount)
		} else {
			result.TotalExpense = result.TotalExpense.Add(c.Amount)
		}
	}
}

// resolveDefaultCategory finds the user's "M-Pesa" category. Imports proceed
// uncategorized when it is missing or the lookup fails.
func (s *Service) resolveDefaultCategory(ctx context.Context, userID uuid.UUID) *uuid.UUID {
	c, err := s.categories.ResolveByName(ctx, userID, defaultCategoryName)
	if err != nil {
		s.logger.Warn("default category lookup failed", slog.Any("error", err))
		return nil
	}
	if c == nil {
		return nil
	}
	id := c.ID
	return &id
}

func directionToType(d statement.Direction) transaction.Type {
	if d == statement.DirectionIncome {
		return transaction.TypeIncome
	}
	return transaction.TypeExpense
}
