package extract

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	// The default workbook already contains "Sheet1".
	mustSet(t, f, "Sheet1", "A1", "a")
	mustSet(t, f, "Sheet1", "B1", 1)
	mustSet(t, f, "Sheet1", "A2", "b")

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	c, err := Extract("report.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind != KindText {
		t.Fatalf("kind = %v, want KindText", c.Kind)
	}
	want := "--- Sheet: Sheet1 ---\na | 1\nb | \n"
	if c.Text != want {
		t.Errorf("text = %q, want %q", c.Text, want)
	}
}

func TestExtract_XLSX_MultipleSheets(t *testing.T) {
	f := excelize.NewFile()
	mustSet(t, f, "Sheet1", "A1", "x")
	if _, err := f.NewSheet("Costs"); err != nil {
		t.Fatalf("adding sheet: %v", err)
	}
	mustSet(t, f, "Costs", "A1", "y")

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	c, err := Extract("book.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "--- Sheet: Sheet1 ---\nx\n--- Sheet: Costs ---\ny\n"
	if c.Text != want {
		t.Errorf("text = %q, want %q", c.Text, want)
	}
}

func mustSet(t *testing.T, f *excelize.File, sheet, cell string, value any) {
	t.Helper()
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		t.Fatalf("setting %s!%s: %v", sheet, cell, err)
	}
}
