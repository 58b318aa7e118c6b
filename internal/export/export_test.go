package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"spesechart/internal/core"
)

var sample = []core.Expense{
	{ID: "1", Title: "Coffee", Amount: decimal.RequireFromString("3.5"), Category: "Food", Date: "2025-01-01 10:00:00"},
	{ID: "2", Title: "Train, return", Amount: decimal.NewFromInt(20), Category: "Travel", Date: "2025-01-02 08:30:00"},
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.csv", FormatCSV, false},
		{"OUT.XLSX", FormatXLSX, false},
		{"dir/out.xlsx", FormatXLSX, false},
		{"report.PDF", FormatPDF, false},
		{"out.json", "", true},
		{"out", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), utf8BOM) {
		t.Fatal("missing BOM")
	}

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Title" || rows[0][3] != "Date" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[2][0] != "Train, return" || rows[2][1] != "20" {
		t.Errorf("unexpected row %v", rows[2])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sample); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "Coffee" || rows[1][1] != "3.5" || rows[1][2] != "Food" {
		t.Errorf("unexpected row %v", rows[1])
	}
	if got := f.GetSheetList(); len(got) != 1 || got[0] != SheetName {
		t.Errorf("unexpected sheets %v", got)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sample); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("missing pdf header: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("/Title (Expense report)")) {
		t.Error("missing document title")
	}
	if !bytes.Contains(out, []byte("/Count 1")) {
		t.Error("expected a single page")
	}
	if !bytes.HasSuffix(bytes.TrimSpace(out), []byte("%%EOF")) {
		t.Error("missing pdf trailer")
	}
}

func TestWritePDFBreaksPages(t *testing.T) {
	records := make([]core.Expense, 40)
	for i := range records {
		records[i] = core.Expense{
			ID:       fmt.Sprint(i),
			Title:    "A rather long expense title that gets truncated",
			Amount:   decimal.NewFromInt(int64(i)),
			Category: "Café",
			Date:     "2025-01-01 10:00:00",
		}
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, records); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Count 2")) {
		t.Error("expected the table to continue on a second page")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.xlsx", "out.pdf"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, sample); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Fatalf("expected non-empty %s, err = %v", name, err)
		}
	}
	if err := WriteFile(filepath.Join(dir, "out.txt"), sample); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
