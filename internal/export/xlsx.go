// Package export renders the reconciliation report as an XLSX workbook for
// offline record keeping.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/firdaushadi/borang-server/internal/reconcile"
)

const (
	sheetPaid   = "Telah Bayar"
	sheetUnpaid = "Belum Bayar"
)

var paidHeaders = []string{"Tarikh", "Keluarga", "Dewasa", "Kanak-kanak", "Jumlah (RM)", "AI Scan (RM)", "Resit", "Status"}
var unpaidHeaders = []string{"No", "Keluarga", "Dewasa", "Kanak-kanak"}

// ReportWorkbook renders the report into an XLSX workbook with one sheet of
// submissions and one of unpaid families.
func ReportWorkbook(report reconcile.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildPaidSheet(f, report); err != nil {
		return nil, err
	}
	if err := buildUnpaidSheet(f, report); err != nil {
		return nil, err
	}

	// Drop the default sheet and open the workbook on the paid list.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(sheetPaid)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPaidSheet(f *excelize.File, report reconcile.Report) error {
	if _, err := f.NewSheet(sheetPaid); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, sheetPaid, 1, toCells(paidHeaders)); err != nil {
		return err
	}

	row := 2
	for _, sub := range report.Paid {
		date := ""
		if !sub.Timestamp.IsZero() {
			date = sub.Timestamp.Format(time.DateOnly)
		}
		cells := []interface{}{
			date,
			sub.FamilyName,
			sub.Adults,
			sub.Children,
			sub.TotalAmount,
			sub.ExtractedAmount,
			sub.ReceiptRef,
			sub.Status.Label(),
		}
		if err := writeRow(f, sheetPaid, row, cells); err != nil {
			return err
		}
		row++
	}

	// Collected total under the table.
	totalCell, err := excelize.CoordinatesToCellName(4, row+1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetPaid, totalCell, "Jumlah Kutipan (Lulus)"); err != nil {
		return err
	}
	valueCell, err := excelize.CoordinatesToCellName(5, row+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetPaid, valueCell, report.TotalCollected)
}

func buildUnpaidSheet(f *excelize.File, report reconcile.Report) error {
	if _, err := f.NewSheet(sheetUnpaid); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, sheetUnpaid, 1, toCells(unpaidHeaders)); err != nil {
		return err
	}

	for i, family := range report.Unpaid {
		cells := []interface{}{i + 1, family.Name, family.Adults, family.Children}
		if err := writeRow(f, sheetUnpaid, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
