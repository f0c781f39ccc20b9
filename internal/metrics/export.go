package metrics

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"
)

const sheetName = "PageMetrics"

// WriteXLSX writes the metrics table as an XLSX workbook.
func WriteXLSX(path string, rows []PageMetrics) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range Columns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	for r := range rows {
		for c, v := range rows[r].Values() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(sheetName, "A", "AU", 18)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// WriteCSV writes the metrics table as CSV with the same column order.
func WriteCSV(path string, rows []PageMetrics) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() { _ = fh.Close() }()

	w := csv.NewWriter(fh)
	if err := w.Write(Columns()); err != nil {
		return err
	}
	for i := range rows {
		if err := w.Write(rows[i].Row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSummary writes the XLSX summary, falling back to a CSV file next to it
// when the workbook cannot be produced.
func WriteSummary(xlsxPath, csvPath string, rows []PageMetrics, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := WriteXLSX(xlsxPath, rows); err != nil {
		logger.Warn("metrics.summary.xlsx_failed", "path", xlsxPath, "error", err)
		if cerr := WriteCSV(csvPath, rows); cerr != nil {
			return fmt.Errorf("summary fallback csv: %w", cerr)
		}
		logger.Info("metrics.summary.csv_fallback", "path", csvPath)
		return nil
	}
	return nil
}
