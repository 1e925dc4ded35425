package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"ytstats/internal/dataprocessing"
)

// SheetName is the worksheet holding exported channels
const SheetName = "Channels"

// WriteXLSX writes ds as a single-sheet workbook. Numeric columns are stored
// as numbers so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, ds *dataprocessing.Dataset) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := wb.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet writer: %w", err)
	}

	fields := dataprocessing.Fields()
	row := make([]interface{}, len(fields))
	for i, f := range fields {
		row[i] = f.Name
	}
	if err := sw.SetRow("A1", row); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for n, c := range ds.Records() {
		row := make([]interface{}, len(fields))
		for i, f := range fields {
			switch {
			case !f.IsNumeric():
				row[i] = f.Text(&c)
			case f.Whole:
				row[i] = int64(f.Number(&c))
			default:
				row[i] = f.Number(&c)
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", n, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	slog.Debug("xlsx export written", slog.Int("record_count", ds.Len()))
	return nil
}
