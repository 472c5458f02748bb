// Package suggestions proposes categories for transaction descriptions
// using keyword patterns and fuzzy string matching.
package suggestions

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/spendeeapp/spendee-go/internal/domain/category"
)

// Suggestion is one candidate category for a description.
type Suggestion struct {
	CategoryName string `json:"categoryName"`
	Pattern      string `json:"pattern"`
	// Score is a similarity score from 0 to 100; 100 is an exact match.
	Score int `json:"score"`
}

// keywordPatterns seeds the matcher with merchant and keyword hints for the
// default categories. Patterns are matched against uppercased descriptions.
var keywordPatterns = map[string][]string{
	"Food":          {"NAIVAS", "CARREFOUR", "QUICKMART", "KFC", "JAVA HOUSE", "RESTAURANT", "SUPERMARKET", "BUTCHERY"},
	"Transport":     {"UBER", "BOLT", "LITTLE CAB", "MATATU", "SHELL", "TOTAL ENERGIES", "RUBIS", "FUEL"},
	"Housing":       {"RENT", "LANDLORD", "APARTMENTS"},
	"Utilities":     {"KPLC", "KENYA POWER", "NAIROBI WATER", "SAFARICOM", "ZUKU", "WIFI", "AIRTIME"},
	"Entertainment": {"NETFLIX", "SHOWMAX", "SPOTIFY", "DSTV", "CINEMA"},
	"Health":        {"HOSPITAL", "PHARMACY", "CLINIC", "CHEMIST", "NHIF"},
	"Salary":        {"SALARY", "PAYROLL", "WAGES"},
	"Savings":       {"M-SHWARI", "MSHWARI", "KCB M-PESA", "SACCO", "MONEY MARKET"},
}

type pattern struct {
	normalized   string
	categoryName string
}

// Suggester matches descriptions against known patterns. Safe for
// concurrent use; Rebuild swaps the pattern set atomically.
type Suggester struct {
	mu       sync.RWMutex
	patterns []pattern
}

// NewSuggester builds a suggester from the built-in keyword hints plus the
// given category names, so user-defined categories match by their own name.
func NewSuggester(categories []category.Category) *Suggester {
	s := &Suggester{}
	s.Rebuild(categories)
	return s
}

// Rebuild replaces the pattern set.
func (s *Suggester) Rebuild(categories []category.Category) {
	patterns := make([]pattern, 0, len(categories)+len(keywordPatterns)*4)
	for name, keywords := range keywordPatterns {
		for _, kw := range keywords {
			patterns = append(patterns, pattern{normalized: kw, categoryName: name})
		}
	}
	for _, c := range categories {
		normalized := strings.ToUpper(strings.TrimSpace(c.Name))
		if normalized == "" {
			continue
		}
		patterns = append(patterns, pattern{normalized: normalized, categoryName: c.Name})
	}

	s.mu.Lock()
	s.patterns = patterns
	s.mu.Unlock()
}

// Suggest returns candidate categories for a description, best first.
// Matches below the threshold are dropped; limit caps the result size.
func (s *Suggester) Suggest(description string, threshold, limit int) []Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := strings.ToUpper(description)
	best := make(map[string]Suggestion)
	for _, p := range s.patterns {
		score := similarity(normalized, p.normalized)
		if score < threshold {
			continue
		}
		if cur, ok := best[p.categoryName]; !ok || score > cur.Score {
			best[p.categoryName] = Suggestion{
				CategoryName: p.categoryName,
				Pattern:      p.normalized,
				Score:        score,
			}
		}
	}

	results := make([]Suggestion, 0, len(best))
	for _, sg := range best {
		results = append(results, sg)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CategoryName < results[j].CategoryName
	})
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// similarity scores two uppercased strings from 0 to 100. Containment beats
// edit distance because M-Pesa descriptions embed merchant names in noise
// ("QQF51KXXXX Sent to NAIVAS LTD").
func similarity(description, pattern string) int {
	if description == pattern {
		return 100
	}
	if strings.Contains(description, pattern) {
		return 75 + 25*len(pattern)/len(description)
	}
	if strings.Contains(pattern, description) {
		return 75 + 25*len(description)/len(pattern)
	}

	distance := fuzzy.LevenshteinDistance(description, pattern)
	maxLen := len(description)
	if len(pattern) > maxLen {
		maxLen = len(pattern)
	}
	if maxLen == 0 {
		return 0
	}
	score := 100 - (100*distance)/maxLen
	if score < 0 {
		return 0
	}
	return score
}
