package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
		ok    bool
	}{
		{name: "plain amount", token: "4630.00", want: "4630", ok: true},
		{name: "thousands separator", token: "4,630.00", want: "4630", ok: true},
		{name: "currency prefix", token: "Ksh 1,200.50", want: "1200.5", ok: true},
		{name: "literal zero decimal", token: "0.00", want: "0", ok: true},
		{name: "literal zero", token: "0", want: "0", ok: true},
		{name: "surrounding whitespace", token: "  250.00 ", want: "250", ok: true},
		{name: "multiple dots keep last", token: "1.234.56", want: "1234.56", ok: true},
		{name: "integer without decimals", token: "500", want: "500", ok: true},
		{name: "empty", token: "", ok: false},
		{name: "whitespace only", token: "   ", ok: false},
		{name: "lone dot", token: ".", ok: false},
		{name: "letters only", token: "abc", ok: false},
		{name: "currency marker only", token: "Ksh", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.token)
			if !tt.ok {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestIsNumericLike(t *testing.T) {
	assert.True(t, isNumericLike("4,630.00"))
	assert.True(t, isNumericLike("Ksh 500"))
	assert.True(t, isNumericLike("0.00"))
	assert.False(t, isNumericLike("Money"))
	assert.False(t, isNumericLike(""))
	assert.False(t, isNumericLike("Cash Out"))
}
