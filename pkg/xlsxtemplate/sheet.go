package xlsxtemplate

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet addresses one worksheet of a Workbook by column letter and 1-based row.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// RowCount returns the number of the last existing row. Every stored row
// counts, including rows holding only a style or a custom height; the recorded
// sheet dimension is used as a lower bound.
func (s *Sheet) RowCount() (int, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	rows, err := s.wb.file.Rows(s.name)
	if err != nil {
		return 0, fmt.Errorf("reading rows: %w", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Close(); err != nil {
		return 0, fmt.Errorf("closing row iterator: %w", err)
	}

	dim, err := s.wb.file.GetSheetDimension(s.name)
	if err != nil {
		return 0, fmt.Errorf("reading dimension: %w", err)
	}
	if dim != "" {
		parts := strings.Split(dim, ":")
		if _, last, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil && last > count {
			count = last
		}
	}
	return count, nil
}

// CellText returns the formatted value of a cell.
func (s *Sheet) CellText(col string, row int) (string, error) {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return "", err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	return s.wb.file.GetCellValue(s.name, cell)
}

// SetCellText writes a plain string value.
func (s *Sheet) SetCellText(col string, row int, value string) error {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	return s.wb.file.SetCellStr(s.name, cell, value)
}

// SetCellRichText writes a rich-text value.
func (s *Sheet) SetCellRichText(col string, row int, runs []RichTextRun) error {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return err
	}

	xruns := make([]excelize.RichTextRun, len(runs))
	for i, r := range runs {
		xruns[i] = excelize.RichTextRun{Text: r.Text}
		if r.Bold || r.FontName != "" || r.FontSize != 0 {
			xruns[i].Font = &excelize.Font{
				Bold:   r.Bold,
				Family: r.FontName,
				Size:   r.FontSize,
			}
		}
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	return s.wb.file.SetCellRichText(s.name, cell, xruns)
}

// CellRichText reads back the runs of a rich-text cell.
func (s *Sheet) CellRichText(col string, row int) ([]RichTextRun, error) {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return nil, err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	xruns, err := s.wb.file.GetCellRichText(s.name, cell)
	if err != nil {
		return nil, err
	}
	runs := make([]RichTextRun, len(xruns))
	for i, r := range xruns {
		runs[i] = RichTextRun{Text: r.Text}
		if r.Font != nil {
			runs[i].Bold = r.Font.Bold
			runs[i].FontName = r.Font.Family
			runs[i].FontSize = r.Font.Size
		}
	}
	return runs, nil
}

// SetCellStyle applies style to a single cell.
func (s *Sheet) SetCellStyle(col string, row int, style CellStyle) error {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	id, err := s.wb.styleID(style)
	if err != nil {
		return err
	}
	return s.wb.file.SetCellStyle(s.name, cell, cell, id)
}

// SetRowHeight sets the height of a row in points. Heights above the xlsx
// limit are stored as the limit.
func (s *Sheet) SetRowHeight(row int, height float64) error {
	if height > excelize.MaxRowHeight {
		height = excelize.MaxRowHeight
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	return s.wb.file.SetRowHeight(s.name, row, height)
}

// RowHeight returns the height of a row in points.
func (s *Sheet) RowHeight(row int) (float64, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	return s.wb.file.GetRowHeight(s.name, row)
}
