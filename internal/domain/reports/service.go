// Package reports builds dashboard summaries and transaction exports.
package reports

import (
	"context"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendeeapp/spendee-go/internal/domain/transaction"
)

// displayCurrency is the currency used for formatted amounts. M-Pesa
// statements are denominated in Kenyan shillings.
const displayCurrency = money.KES

// CategoryBreakdown is one category's share of the period's expenses.
type CategoryBreakdown struct {
	CategoryID   *uuid.UUID      `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	// Percentage of the period's expense total, rounded to two decimals.
	Percentage decimal.Decimal `json:"percentage"`
}

// Summary is the dashboard payload for one user.
type Summary struct {
	Balance          decimal.Decimal     `json:"balance"`
	BalanceDisplay   string              `json:"balanceDisplay"`
	MonthlyIncome    decimal.Decimal     `json:"monthlyIncome"`
	MonthlyExpense   decimal.Decimal     `json:"monthlyExpense"`
	ExpensesByMonth  []MonthTotal        `json:"expensesByMonth"`
	TopCategories    []CategoryBreakdown `json:"topCategories"`
	TransactionCount int                 `json:"transactionCount"`
}

// MonthTotal is an income/expense pair for one calendar month.
type MonthTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// trendMonths is how far back the dashboard trend reaches.
const trendMonths = 6

// Service aggregates transactions into reports.
type Service struct {
	txs transaction.Repository
	now func() time.Time
}

// NewService creates a reports service.
func NewService(txs transaction.Repository) *Service {
	return &Service{txs: txs, now: time.Now}
}

// epoch is early enough to cover any statement a user could upload.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// BuildSummary assembles the dashboard for a user: all-time balance, the
// current month's totals, a six-month trend and the month's expense
// breakdown by category.
func (s *Service) BuildSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	now := s.now()
	farFuture := now.AddDate(100, 0, 0)

	totalIncome, err := s.txs.SumByTypeBetween(ctx, userID, transaction.TypeIncome, epoch, farFuture)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.txs.SumByTypeBetween(ctx, userID, transaction.TypeExpense, epoch, farFuture)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	monthlyIncome, err := s.txs.SumByTypeBetween(ctx, userID, transaction.TypeIncome, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	monthlyExpense, err := s.txs.SumByTypeBetween(ctx, userID, transaction.TypeExpense, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	trend, err := s.buildTrend(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.txs.SumByCategoryBetween(ctx, userID, transaction.TypeExpense, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	monthTxs, err := s.txs.ListByUser(ctx, userID, transaction.ListFilter{From: &monthStart, To: &monthEnd})
	if err != nil {
		return nil, err
	}

	balance := totalIncome.Sub(totalExpense)
	return &Summary{
		Balance:          balance,
		BalanceDisplay:   FormatAmount(balance),
		MonthlyIncome:    monthlyIncome,
		MonthlyExpense:   monthlyExpense,
		ExpensesByMonth:  trend,
		TopCategories:    breakdown(byCategory, monthlyExpense),
		TransactionCount: len(monthTxs),
	}, nil
}

func (s *Service) buildTrend(ctx context.Context, userID uuid.UUID, currentMonthStart time.Time) ([]MonthTotal, error) {
	trend := make([]MonthTotal, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		from := currentMonthStart.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)

		income, err := s.txs.SumByTypeBetween(ctx, userID, transaction.TypeIncome, from, to)
		if err != nil {
			return nil, err
		}
		expense, err := s.txs.SumByTypeBetween(ctx, userID, transaction.TypeExpense, from, to)
		if err != nil {
			return nil, err
		}
		trend = append(trend, MonthTotal{
			Month:   from.Format("2006-01"),
			Income:  income,
			Expense: expense,
		})
	}
	return trend, nil
}

func breakdown(totals []transaction.CategoryTotal, monthlyExpense decimal.Decimal) []CategoryBreakdown {
	out := make([]CategoryBreakdown, 0, len(totals))
	hundred := decimal.NewFromInt(100)
	for _, ct := range totals {
		pct := decimal.Zero
		if monthlyExpense.IsPositive() {
			pct = ct.Total.Div(monthlyExpense).Mul(hundred).Round(2)
		}
		out = append(out, CategoryBreakdown{
			CategoryID:   ct.CategoryID,
			CategoryName: ct.CategoryName,
			Total:        ct.Total,
			Percentage:   pct,
		})
	}
	return out
}

// FormatAmount renders a decimal amount as a localized KES string.
func FormatAmount(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, displayCurrency).Display()
}
