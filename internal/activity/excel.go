package activity

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the activity list to an Excel workbook at path, one
// row per activity on a single "Activities" sheet.
func ExportXLSX(activities []Activity, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Activities"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headers := []string{"Timestamp", "Source", "Type", "Repository", "Message"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	}

	for i, a := range activities {
		row := i + 2

		repo := ""
		if v, ok := a.Details["repository"].(string); ok {
			repo = v
		}

		values := []any{
			a.Timestamp.UTC().Format(time.RFC3339),
			a.Source,
			a.Type,
			repo,
			a.Message,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "D", "D", 30)
	_ = f.SetColWidth(sheet, "E", "E", 80)
	_ = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}

	return nil
}
