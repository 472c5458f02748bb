package statement

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a statement amount token into an exact decimal.
// Currency markers, commas and any other non-numeric characters are stripped;
// when more than one dot survives, only the last one counts as the decimal
// point and the rest are treated as grouping noise. Returns ok=false when no
// numeric content remains.
func ParseAmount(token string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return decimal.Decimal{}, false
	}

	// Zero is a legitimate column value, not a parse failure.
	if trimmed == "0.00" || trimmed == "0" {
		return decimal.Zero, true
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, trimmed)

	if cleaned == "" || cleaned == "." {
		return decimal.Decimal{}, false
	}

	if last := strings.LastIndexByte(cleaned, '.'); last > 0 {
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// isNumericLike reports whether a token looks like an amount column value.
// Used only to locate the paid-in / paid-out columns while tokenizing; the
// stripping here mirrors the "Ksh 4,630.00" shapes seen on real statements.
func isNumericLike(token string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case 'K', 's', 'h', ',', ' ', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(token))
	if cleaned == "" {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}
