package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// section is the classifier state while scanning extracted statement text.
type section int

const (
	sectionPreamble section = iota
	sectionSummary
	sectionDetail
)

const (
	summaryMarker       = "SUMMARY"
	detailMarker        = "DETAILED STATEMENT"
	statementDateMarker = "Date of Statement:"
)

// noiseMarkers flag table headers, account metadata and aggregate rows that
// must never be parsed as summary data. Matching is case-insensitive.
var noiseMarkers = []string{
	"receipt",
	"completion time",
	"transaction status",
	"paid in",
	"paid out",
	"withdraw",
	"balance",
	"mpesa",
	"customer name",
	"mobile number",
	"statement period",
	"summary",
	"transaction type",
	"total",
}

var (
	pipesOnlyRe = regexp.MustCompile(`^[\s|]+$`)
	ordinalRe   = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)
)

// ScanSummaryLines walks the extracted text and returns the candidate lines
// of the SUMMARY section, in document order. Scanning starts in a preamble
// state, enters the summary on a line containing "SUMMARY" and stops for good
// once "DETAILED STATEMENT" appears; the row-level detail section is out of
// scope for parsing. Header and noise lines inside the summary are dropped.
func ScanSummaryLines(text string) []string {
	var candidates []string
	state := sectionPreamble

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		if strings.Contains(upper, detailMarker) {
			// Detail is terminal for summary parsing.
			break
		}
		// Section entry wins over the "summary" noise keyword: the header
		// line switches state and is never emitted as data.
		if strings.Contains(upper, summaryMarker) {
			state = sectionSummary
			continue
		}

		if state != sectionSummary || isNoiseLine(upper) {
			continue
		}
		candidates = append(candidates, line)
	}

	return candidates
}

func isNoiseLine(upperLine string) bool {
	for _, marker := range noiseMarkers {
		if strings.Contains(upperLine, strings.ToUpper(marker)) {
			return true
		}
	}
	return pipesOnlyRe.MatchString(upperLine)
}

// ExtractStatementDate pulls the statement issue date from the first
// "Date of Statement:" line. The value is printed as ordinal day, month and
// year ("21st 10 2025"); ordinal suffixes are stripped before parsing. Any
// failure falls back to the provided date rather than failing the import.
func ExtractStatementDate(text string, fallback time.Time) time.Time {
	for _, raw := range strings.Split(text, "\n") {
		if !strings.Contains(raw, statementDateMarker) {
			continue
		}
		if d, ok := parseStatementDate(raw); ok {
			return d
		}
		return fallback
	}
	return fallback
}

func parseStatementDate(line string) (time.Time, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return time.Time{}, false
	}
	value := ordinalRe.ReplaceAllString(strings.TrimSpace(line[idx+1:]), "$1")

	parts := strings.Fields(value)
	if len(parts) < 3 {
		return time.Time{}, false
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30), which would silently move
	// the statement to the wrong day. Treat normalization as a parse failure.
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}
