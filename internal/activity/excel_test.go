package activity

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.xlsx")

	if err := ExportXLSX(sampleActivities(), path); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Activities"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		t.Fatalf("expected sheet %q, got index %d (err %v)", sheet, idx, err)
	}

	headers := []string{"Timestamp", "Source", "Type", "Repository", "Message"}
	for col, want := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("read header cell %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("header %s: expected %q, got %q", cell, want, got)
		}
	}

	row := map[string]string{
		"A2": "2024-05-03T10:30:00Z",
		"B2": "github",
		"C2": "PushEvent",
		"D2": "acme/widgets",
		"E2": "Pushed 2 commits to acme/widgets/main",
	}
	for cell, want := range row {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("read cell %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s: expected %q, got %q", cell, want, got)
		}
	}
}

func TestExportXLSXEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	if err := ExportXLSX(nil, path); err != nil {
		t.Fatalf("expected success for an empty list, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Activities", "A1")
	if err != nil {
		t.Fatalf("read header cell: %v", err)
	}
	if got != "Timestamp" {
		t.Errorf("expected header row even with no activities, got %q", got)
	}
}
