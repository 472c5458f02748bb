package reports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendeeapp/spendee-go/internal/domain/transaction"
)

// fakeTxRepo serves canned transactions and derives sums from them.
type fakeTxRepo struct {
	transaction.Repository
	txs           []*transaction.Transaction
	categoryNames map[uuid.UUID]string
}

func (f *fakeTxRepo) ListByUser(_ context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, tx := range f.txs {
		if tx.UserID != userID {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !tx.Date.Before(*filter.To) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeTxRepo) SumByTypeBetween(ctx context.Context, userID uuid.UUID, txType transaction.Type, from, to time.Time) (decimal.Decimal, error) {
	txs, _ := f.ListByUser(ctx, userID, transaction.ListFilter{From: &from, To: &to})
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == txType {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (f *fakeTxRepo) SumByCategoryBetween(ctx context.Context, userID uuid.UUID, txType transaction.Type, from, to time.Time) ([]transaction.CategoryTotal, error) {
	txs, _ := f.ListByUser(ctx, userID, transaction.ListFilter{From: &from, To: &to})
	byCategory := map[string]*transaction.CategoryTotal{}
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		name := "Uncategorized"
		if tx.CategoryID != nil {
			name = f.categoryNames[*tx.CategoryID]
		}
		ct, ok := byCategory[name]
		if !ok {
			ct = &transaction.CategoryTotal{CategoryID: tx.CategoryID, CategoryName: name, Total: decimal.Zero}
			byCategory[name] = ct
		}
		ct.Total = ct.Total.Add(tx.Amount)
	}
	var out []transaction.CategoryTotal
	for _, ct := range byCategory {
		out = append(out, *ct)
	}
	return out, nil
}

func newFixture() (*Service, uuid.UUID) {
	userID := uuid.New()
	foodID := uuid.New()
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	repo := &fakeTxRepo{
		categoryNames: map[uuid.UUID]string{foodID: "Food"},
		txs: []*transaction.Transaction{
			{
				UserID: userID, Description: "Salary (Received)", Type: transaction.TypeIncome,
				Amount: decimal.NewFromInt(50000), Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				UserID: userID, CategoryID: &foodID, Description: "Naivas (Sent)", Type: transaction.TypeExpense,
				Amount: decimal.NewFromInt(4000), Date: time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
			},
			{
				UserID: userID, Description: "Send Money (Sent)", Type: transaction.TypeExpense,
				Amount: decimal.NewFromInt(1000), Date: time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC),
			},
			// Previous month, counts toward balance but not monthly totals.
			{
				UserID: userID, Description: "Salary (Received)", Type: transaction.TypeIncome,
				Amount: decimal.NewFromInt(50000), Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc, userID
}

func TestService_BuildSummary(t *testing.T) {
	svc, userID := newFixture()

	summary, err := svc.BuildSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(95000).Equal(summary.Balance), "balance %s", summary.Balance)
	assert.True(t, decimal.NewFromInt(50000).Equal(summary.MonthlyIncome))
	assert.True(t, decimal.NewFromInt(5000).Equal(summary.MonthlyExpense))
	assert.Equal(t, 3, summary.TransactionCount)
	assert.Contains(t, summary.BalanceDisplay, "95,000")

	require.Len(t, summary.ExpensesByMonth, trendMonths)
	last := summary.ExpensesByMonth[len(summary.ExpensesByMonth)-1]
	assert.Equal(t, "2025-10", last.Month)
	assert.True(t, decimal.NewFromInt(5000).Equal(last.Expense))

	require.Len(t, summary.TopCategories, 2)
	for _, c := range summary.TopCategories {
		switch c.CategoryName {
		case "Food":
			assert.True(t, decimal.NewFromInt(4000).Equal(c.Total))
			assert.True(t, decimal.NewFromInt(80).Equal(c.Percentage), "pct %s", c.Percentage)
		case "Uncategorized":
			assert.True(t, decimal.NewFromInt(20).Equal(c.Percentage))
		default:
			t.Fatalf("unexpected category %q", c.CategoryName)
		}
	}
}

func TestService_ExportCSV(t *testing.T) {
	svc, userID := newFixture()

	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	data, err := svc.ExportCSV(context.Background(), userID, from, to)
	require.NoError(t, err)

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4) // header + three October rows
	assert.Equal(t, "date,description,type,amount,category", lines[0])
	assert.Contains(t, out, "2025-10-05,Naivas (Sent),expense,4000.00,Food")
	assert.Contains(t, out, "2025-10-01,Salary (Received),income,50000.00,")
}

func TestFormatAmount(t *testing.T) {
	assert.Contains(t, FormatAmount(decimal.NewFromInt(4630)), "4,630")
	assert.Contains(t, FormatAmount(decimal.RequireFromString("0.5")), "0.50")
}
