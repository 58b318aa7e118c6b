// Package export writes expense records as CSV, XLSX or a PDF report.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"spesechart/internal/core"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"

	SheetName = "Expenses"
)

// Header is the first row of every export.
var Header = []string{"Title", "Amount", "Category", "Date"}

var ErrUnsupportedFormat = errors.New("unsupported export format")

// utf8BOM lets spreadsheet tools detect the encoding of the ₹ sign and
// non-ASCII titles.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatFromPath picks the export format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q (use .csv, .xlsx or .pdf)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// WriteCSV writes records with a BOM and a header row.
func WriteCSV(w io.Writer, records []core.Expense) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range records {
		if err := cw.Write([]string{e.Title, e.Amount.String(), e.Category, e.Date}); err != nil {
			return fmt.Errorf("write record %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes records to a single sheet workbook. Amounts are stored
// as numbers so the sheet can sum them.
func WriteXLSX(w io.Writer, records []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range Header {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}
	for i, e := range records {
		row := i + 2
		values := []any{e.Title, e.Amount.InexactFloat64(), e.Category, e.Date}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 30)
	_ = f.SetColWidth(SheetName, "B", "B", 12)
	_ = f.SetColWidth(SheetName, "C", "C", 18)
	_ = f.SetColWidth(SheetName, "D", "D", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

// WriteFile exports records to path in the format named by its extension.
func WriteFile(path string, records []core.Expense) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch format {
	case FormatXLSX:
		return WriteXLSX(f, records)
	case FormatPDF:
		return WritePDF(f, records)
	default:
		return WriteCSV(f, records)
	}
}
