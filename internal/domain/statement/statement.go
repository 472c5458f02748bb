// Package statement parses M-Pesa PDF statements into transaction candidates.
// The statement layout mixes fixed-width and free-text columns, so parsing is
// a documented set of heuristics rather than a grammar: text extraction keeps
// top-to-bottom, left-to-right cell order, a state machine isolates the
// SUMMARY section, and a tolerant tokenizer splits each summary row into a
// transaction-type label plus paid-in / paid-out amounts.
package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a parsed transaction as money in or money out.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// ParsedTransaction is a candidate transaction produced by the parser.
// It is not yet persisted and never outlives a single import call.
type ParsedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction
	// ExternalRef is the statement-provided transaction code used to detect
	// re-imports. Summary rows carry no code, so it is often empty.
	ExternalRef string
	// RawLine keeps the original statement line for diagnostics.
	RawLine string
}
