package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/spendeeapp/spendee-go/internal/domain/transaction"
)

// exportRow is the flat shape shared by CSV and XLSX exports.
type exportRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Type        string `csv:"type"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
}

func (s *Service) exportRows(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]exportRow, error) {
	txs, err := s.txs.ListByUser(ctx, userID, transaction.ListFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]exportRow, 0, len(txs))
	for _, tx := range txs {
		name := ""
		if tx.CategoryID != nil {
			name = names[*tx.CategoryID]
		}
		rows = append(rows, exportRow{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Type:        string(tx.Type),
			Amount:      tx.Amount.StringFixed(2),
			Category:    name,
		})
	}
	return rows, nil
}

// categoryNames resolves category IDs to names via the per-category sums,
// which already join the categories table.
func (s *Service) categoryNames(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, txType := range []transaction.Type{transaction.TypeIncome, transaction.TypeExpense} {
		totals, err := s.txs.SumByCategoryBetween(ctx, userID, txType, from, to)
		if err != nil {
			return nil, err
		}
		for _, ct := range totals {
			if ct.CategoryID != nil {
				names[*ct.CategoryID] = ct.CategoryName
			}
		}
	}
	return names, nil
}

// ExportCSV renders the user's transactions in [from, to) as CSV.
func (s *Service) ExportCSV(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]byte, error) {
	rows, err := s.exportRows(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the user's transactions in [from, to) as a spreadsheet
// with a formatted header row.
func (s *Service) ExportXLSX(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]byte, error) {
	rows, err := s.exportRows(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Description", "Type", "Amount", "Category"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, boldStyle)
	}

	for i, row := range rows {
		values := []any{row.Date, row.Description, row.Type, row.Amount, row.Category}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
