package statement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC)

func TestParseSummaryLine(t *testing.T) {
	t.Run("both columns positive yields two candidates", func(t *testing.T) {
		got := ParseSummaryLine("Send Money  1,200.00  4,630.00", testDate)
		require.Len(t, got, 2)

		assert.Equal(t, "Send Money (Received)", got[0].Description)
		assert.Equal(t, DirectionIncome, got[0].Direction)
		assert.True(t, decimal.NewFromInt(1200).Equal(got[0].Amount))
		assert.Equal(t, testDate, got[0].Date)

		assert.Equal(t, "Send Money (Sent)", got[1].Description)
		assert.Equal(t, DirectionExpense, got[1].Direction)
		assert.True(t, decimal.NewFromInt(4630).Equal(got[1].Amount))
	})

	t.Run("zero paid in yields only the expense", func(t *testing.T) {
		got := ParseSummaryLine("Pay Bill  0.00  2,500.00", testDate)
		require.Len(t, got, 1)
		assert.Equal(t, "Pay Bill (Sent)", got[0].Description)
		assert.Equal(t, DirectionExpense, got[0].Direction)
	})

	t.Run("zero paid out yields only the income", func(t *testing.T) {
		got := ParseSummaryLine("Received Money  3,000.00  0.00", testDate)
		require.Len(t, got, 1)
		assert.Equal(t, "Received Money (Received)", got[0].Description)
		assert.Equal(t, DirectionIncome, got[0].Direction)
	})

	t.Run("total row is rejected", func(t *testing.T) {
		assert.Empty(t, ParseSummaryLine("TOTAL:  1,200.00  7,130.00", testDate))
		assert.Empty(t, ParseSummaryLine("Total  1,200.00  7,130.00", testDate))
	})

	t.Run("single spaced line with multi word label", func(t *testing.T) {
		got := ParseSummaryLine("Customer Merchant Payment 850.00 1,900.00", testDate)
		require.Len(t, got, 2)
		assert.Equal(t, "Customer Merchant Payment (Received)", got[0].Description)
		assert.True(t, decimal.RequireFromString("850").Equal(got[0].Amount))
		assert.Equal(t, "Customer Merchant Payment (Sent)", got[1].Description)
		assert.True(t, decimal.RequireFromString("1900").Equal(got[1].Amount))
	})

	t.Run("trailing non-numeric cell after the amounts", func(t *testing.T) {
		got := ParseSummaryLine("Send Money  4,630.00  157.00  Ksh", testDate)
		require.Len(t, got, 2)
		assert.Equal(t, "Send Money (Received)", got[0].Description)
		assert.True(t, decimal.NewFromInt(4630).Equal(got[0].Amount), "amount %s", got[0].Amount)
		assert.Equal(t, "Send Money (Sent)", got[1].Description)
		assert.True(t, decimal.NewFromInt(157).Equal(got[1].Amount), "amount %s", got[1].Amount)
	})

	t.Run("gap split label spanning several cells", func(t *testing.T) {
		got := ParseSummaryLine("Customer Merchant  Payment  850.00  1,900.00", testDate)
		require.Len(t, got, 2)
		assert.Equal(t, "Customer Merchant Payment (Received)", got[0].Description)
		assert.Equal(t, "Customer Merchant Payment (Sent)", got[1].Description)
	})

	t.Run("too few columns", func(t *testing.T) {
		assert.Empty(t, ParseSummaryLine("Send Money 1,200.00", testDate))
		assert.Empty(t, ParseSummaryLine("Send Money", testDate))
		assert.Empty(t, ParseSummaryLine("", testDate))
	})

	t.Run("no numeric columns", func(t *testing.T) {
		assert.Empty(t, ParseSummaryLine("one two three four", testDate))
	})

	t.Run("both columns zero", func(t *testing.T) {
		assert.Empty(t, ParseSummaryLine("Airtime Purchase  0.00  0.00", testDate))
	})

	t.Run("raw line is preserved", func(t *testing.T) {
		line := "Pay Bill  0.00  2,500.00"
		got := ParseSummaryLine(line, testDate)
		require.Len(t, got, 1)
		assert.Equal(t, line, got[0].RawLine)
	})
}

func TestParseSummary(t *testing.T) {
	t.Run("full statement round trip", func(t *testing.T) {
		got := ParseSummary(sampleStatement, testDate)
		require.Len(t, got, 3)

		assert.Equal(t, "Send Money (Received)", got[0].Description)
		assert.Equal(t, "Send Money (Sent)", got[1].Description)
		assert.Equal(t, "Pay Bill (Sent)", got[2].Description)

		assert.True(t, decimal.NewFromInt(1200).Equal(got[0].Amount))
		assert.True(t, decimal.NewFromInt(4630).Equal(got[1].Amount))
		assert.True(t, decimal.NewFromInt(2500).Equal(got[2].Amount))
	})

	t.Run("statement without summary section", func(t *testing.T) {
		assert.Empty(t, ParseSummary("DETAILED STATEMENT\nSend Money  1.00  2.00", testDate))
	})
}
