package history

import (
	"fmt"
	"io"
	"iter"

	"github.com/xuri/excelize/v2"

	"expensepad/internal/core"
)

const exportSheet = "Expenses"

var exportHeaders = []any{"Date", "Category", "Subcategory", "Description", "Quantity", "Unit Price", "Recipient", "Total", "ID"}

// WriteXLSX writes the expenses, in the order given, as a single-sheet
// workbook with a header row and a grand total.
func WriteXLSX(w io.Writer, expenses iter.Seq[core.Expense]) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for _, col := range []struct {
		from, to string
		width    float64
	}{{"A", "A", 12}, {"B", "D", 24}, {"I", "I", 38}} {
		if err := f.SetColWidth(exportSheet, col.from, col.to, col.width); err != nil {
			return fmt.Errorf("column width %s:%s: %w", col.from, col.to, err)
		}
	}

	row := 2
	var total int64
	for e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		values := []any{e.Date.Time, e.Category, e.Subcategory, e.Description, e.Quantity, e.UnitPrice, e.Recipient, e.TotalAmount, e.ID}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("style row %d: %w", row, err)
		}
		total += e.TotalAmount
		row++
	}

	totalLabel, err := excelize.CoordinatesToCellName(7, row)
	if err != nil {
		return fmt.Errorf("total row: %w", err)
	}
	totalCell, err := excelize.CoordinatesToCellName(8, row)
	if err != nil {
		return fmt.Errorf("total row: %w", err)
	}
	if err := f.SetCellValue(exportSheet, totalLabel, "Total"); err != nil {
		return fmt.Errorf("write total label: %w", err)
	}
	if err := f.SetCellValue(exportSheet, totalCell, total); err != nil {
		return fmt.Errorf("write total: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, totalLabel, totalCell, headerStyle); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
