package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/locvowork/isms_status_exporter/internal/service"
	"github.com/xuri/excelize/v2"
)

// writeTemplate writes a skeleton status template: one sheet per route with a
// header row above the first data row and every identifier routed to that
// sheet listed in the identifier column.
func writeTemplate(path string, layout service.ReportLayout, ids []string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, route := range layout.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), route.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(route.Name); err != nil {
			return err
		}
	}

	rows := layout.Rows
	headerRow := rows.FirstRow - 1
	if headerRow < 1 {
		headerRow = 1
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: rows.FontName, Size: rows.FontSize},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return err
	}

	headerCols := map[string]string{
		rows.IDColumn:       "항목",
		rows.ContentColumn:  "운영현황",
		rows.PolicyColumn:   "관련문서",
		rows.EvidenceColumn: "기록(증적자료)",
	}

	next := make(map[string]int, len(layout.Sheets))
	for _, route := range layout.Sheets {
		for col, title := range headerCols {
			cell, err := excelize.JoinCellName(col, headerRow)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(route.Name, cell, title); err != nil {
				return err
			}
			if err := f.SetCellStyle(route.Name, cell, cell, headerStyle); err != nil {
				return err
			}
		}
		for _, col := range []string{rows.ContentColumn, rows.PolicyColumn, rows.EvidenceColumn} {
			if err := f.SetColWidth(route.Name, col, col, 60); err != nil {
				return err
			}
		}
		next[route.Name] = rows.FirstRow
	}

	for _, id := range ids {
		sheet := layout.SheetFor(id)
		cell, err := excelize.JoinCellName(rows.IDColumn, next[sheet])
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, id); err != nil {
			return err
		}
		next[sheet]++
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating template directory: %w", err)
		}
	}
	return f.SaveAs(path)
}
