package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"expensetracker/internal/core"
)

const (
	CSVFilename  = "expenses.csv"
	XLSXFilename = "expenses.xlsx"

	xlsxSheet = "Expenses"
)

// Header returns the fixed export header.
func Header(currency string) []string {
	return []string{"Date", "Category", "Description", amountLabel(currency)}
}

// Table returns the header followed by one row per record, in the order
// supplied.
func Table(records []core.Expense, currency string) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, Header(currency))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.String(),
			r.Category,
			r.Description,
			r.Amount.String(),
		})
	}
	return rows
}

// WriteCSV writes the export table as UTF-8 CSV.
func WriteCSV(w io.Writer, records []core.Expense, currency string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Table(records, currency)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the export table as an Excel workbook. Amounts are stored
// as numeric cells so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, records []core.Expense, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := Header(currency)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []interface{}{r.Date.String(), r.Category, r.Description, r.Amount.InexactFloat64()}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(xlsxSheet, "A", "A", 12); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(xlsxSheet, "C", "C", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
