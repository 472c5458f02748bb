package statement

import (
	"regexp"
	"strings"
	"time"
)

var whitespaceRunRe = regexp.MustCompile(`\s+`)
var columnGapRe = regexp.MustCompile(`\s{2,}`)

// ParseSummaryLine turns one summary-section row into zero, one or two
// transaction candidates. A row lists a transaction-type label followed by a
// paid-in and a paid-out column; each strictly positive column becomes its
// own candidate (income for paid-in, expense for paid-out), so a
// transfer-out-only row legitimately yields a single transaction.
func ParseSummaryLine(line string, statementDate time.Time) []ParsedTransaction {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Aggregate rows are not transactions.
	if strings.HasPrefix(strings.ToUpper(trimmed), "TOTAL") {
		return nil
	}

	label, paidIn, paidOut, ok := splitSummaryColumns(trimmed)
	if !ok {
		return nil
	}

	var out []ParsedTransaction
	if amount, ok := ParseAmount(paidIn); ok && amount.IsPositive() {
		out = append(out, ParsedTransaction{
			Date:        statementDate,
			Description: label + " (Received)",
			Amount:      amount,
			Direction:   DirectionIncome,
			RawLine:     line,
		})
	}
	if amount, ok := ParseAmount(paidOut); ok && amount.IsPositive() {
		out = append(out, ParsedTransaction{
			Date:        statementDate,
			Description: label + " (Sent)",
			Amount:      amount,
			Direction:   DirectionExpense,
			RawLine:     line,
		})
	}
	return out
}

// splitSummaryColumns tokenizes a summary row and locates the label and the
// two amount columns. Extraction sometimes preserves the wide column gaps and
// sometimes collapses everything to single spaces, so two strategies apply in
// order: split on runs of two or more spaces when present, otherwise fall
// back to single-space tokens and walk from the right for the last two
// numeric-looking tokens.
func splitSummaryColumns(line string) (label, paidIn, paidOut string, ok bool) {
	if columnGapRe.MatchString(line) {
		parts := trimParts(columnGapRe.Split(line, -1))
		if len(parts) < 3 {
			return "", "", "", false
		}
		if len(parts) == 3 {
			return parts[0], parts[1], parts[2], true
		}
		// Extra cells may belong to the label or trail the amounts, so the
		// amount pair has to be located by scanning, not by position.
		return locateAmountPair(parts)
	}

	// Collapsed spacing: the label itself may contain spaces, so the same
	// scan applies to single-space tokens.
	return locateAmountPair(trimParts(strings.Split(whitespaceRunRe.ReplaceAllString(line, " "), " ")))
}

// locateAmountPair walks the cells from the right for the last two
// numeric-looking tokens. Everything before the earlier of the two is the
// label; the tokens need not be adjacent.
func locateAmountPair(parts []string) (label, paidIn, paidOut string, ok bool) {
	paidOutIdx := -1
	paidInIdx := -1
	for i := len(parts) - 1; i >= 0; i-- {
		if !isNumericLike(parts[i]) {
			continue
		}
		if paidOutIdx == -1 {
			paidOutIdx = i
		} else {
			paidInIdx = i
			break
		}
	}
	if paidInIdx <= 0 {
		return "", "", "", false
	}

	label = strings.Join(parts[:paidInIdx], " ")
	if label == "" {
		return "", "", "", false
	}
	return label, parts[paidInIdx], parts[paidOutIdx], true
}

func trimParts(parts []string) []string {
	cleaned := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

// ParseSummary runs the classifier and line parser over extracted statement
// text, returning all candidates in document order.
func ParseSummary(text string, statementDate time.Time) []ParsedTransaction {
	var candidates []ParsedTransaction
	for _, line := range ScanSummaryLines(text) {
		candidates = append(candidates, ParseSummaryLine(line, statementDate)...)
	}
	return candidates
}
