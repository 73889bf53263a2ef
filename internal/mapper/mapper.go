// Package mapper writes ISMS aggregates into the rows of a report template.
package mapper

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/ismsid"
	"github.com/locvowork/isms_status_exporter/pkg/textnorm"
	"github.com/locvowork/isms_status_exporter/pkg/xlsxtemplate"
)

// Sheet is the part of a worksheet the mapper reads and writes.
// *xlsxtemplate.Sheet implements it.
type Sheet interface {
	Name() string
	RowCount() (int, error)
	CellText(col string, row int) (string, error)
	SetCellText(col string, row int, value string) error
	SetCellRichText(col string, row int, runs []xlsxtemplate.RichTextRun) error
	SetCellStyle(col string, row int, style xlsxtemplate.CellStyle) error
	SetRowHeight(row int, height float64) error
}

// TemplateMapper fills the content, policy and evidence columns of template
// rows whose identifier cell matches an aggregate.
type TemplateMapper struct {
	layout Layout
	style  xlsxtemplate.CellStyle
}

// New returns a mapper for layout. Zero layout fields take their defaults.
func New(layout Layout) *TemplateMapper {
	layout = layout.WithDefaults()
	return &TemplateMapper{
		layout: layout,
		style:  xlsxtemplate.ReportCellStyle(layout.FontName, layout.FontSize),
	}
}

// Layout returns the effective layout.
func (m *TemplateMapper) Layout() Layout {
	return m.layout
}

// MapToRows walks the sheet from the first data row to its last row. A failure
// stops the walk and is returned as *domain.RowProcessingError; rows written
// before the failure keep their new values.
func (m *TemplateMapper) MapToRows(sheet Sheet, items []domain.AggregateItem) error {
	byID, err := indexItems(items)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", sheet.Name(), err)
	}

	last, err := sheet.RowCount()
	if err != nil {
		return fmt.Errorf("sheet %q: counting rows: %w", sheet.Name(), err)
	}

	for row := m.layout.FirstRow; row <= last; row++ {
		if err := m.mapRow(sheet, row, byID); err != nil {
			return &domain.RowProcessingError{Sheet: sheet.Name(), Row: row, Err: err}
		}
	}
	return nil
}

func (m *TemplateMapper) mapRow(sheet Sheet, row int, byID map[string]*domain.AggregateItem) error {
	id, err := sheet.CellText(m.layout.IDColumn, row)
	if err != nil {
		return fmt.Errorf("reading identifier: %w", err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return sheet.SetRowHeight(row, m.layout.DefaultRowHeight)
	}

	item, ok := byID[ismsid.Canonical(id)]
	if !ok {
		return sheet.SetRowHeight(row, m.layout.DefaultRowHeight)
	}

	cell := m.ComposeContent(*item)
	if cell.IsRich() {
		err = sheet.SetCellRichText(m.layout.ContentColumn, row, cell.Runs)
	} else {
		err = sheet.SetCellText(m.layout.ContentColumn, row, cell.Text)
	}
	if err != nil {
		return fmt.Errorf("writing content: %w", err)
	}

	policyText := textnorm.JoinLines(item.Policies)
	if err := sheet.SetCellText(m.layout.PolicyColumn, row, policyText); err != nil {
		return fmt.Errorf("writing policies: %w", err)
	}

	evidenceText := textnorm.JoinLines(item.Evidences)
	if err := sheet.SetCellText(m.layout.EvidenceColumn, row, evidenceText); err != nil {
		return fmt.Errorf("writing evidences: %w", err)
	}

	for _, col := range []string{m.layout.ContentColumn, m.layout.PolicyColumn, m.layout.EvidenceColumn} {
		if err := sheet.SetCellStyle(col, row, m.style); err != nil {
			return fmt.Errorf("styling column %s: %w", col, err)
		}
	}

	lines := maxInt(
		m.EstimateLines(cell.PlainText()),
		m.EstimateLines(policyText),
		m.EstimateLines(evidenceText),
	)
	return sheet.SetRowHeight(row, m.RowHeight(lines))
}

// indexItems keys items by canonical identifier. Two items denoting the same
// control are an invariant violation.
func indexItems(items []domain.AggregateItem) (map[string]*domain.AggregateItem, error) {
	byID := make(map[string]*domain.AggregateItem, len(items))
	for i := range items {
		id := strings.TrimSpace(items[i].ISMSID)
		if id == "" {
			continue
		}
		key := ismsid.Canonical(id)
		if prev, ok := byID[key]; ok {
			return nil, fmt.Errorf("%w: %q and %q", domain.ErrDuplicateIdentifier, prev.ISMSID, items[i].ISMSID)
		}
		byID[key] = &items[i]
	}
	return byID, nil
}

// EstimateLines estimates how many visual lines text wraps to: every
// newline-separated line takes ceil(len/CharsPerLine) lines.
func (m *TemplateMapper) EstimateLines(text string) int {
	if text == "" {
		return 0
	}
	total := 0
	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		total += (n + m.layout.CharsPerLine - 1) / m.layout.CharsPerLine
	}
	return total
}

// RowHeight converts a line count into a row height.
func (m *TemplateMapper) RowHeight(lines int) float64 {
	if lines <= 0 {
		return m.layout.DefaultRowHeight
	}
	h := math.Max(m.layout.MinContentHeight, float64(lines)*m.layout.HeightPerLine)
	return math.Min(h, m.layout.MaxRowHeight)
}

func maxInt(values ...int) int {
	out := 0
	for _, v := range values {
		if v > out {
			out = v
		}
	}
	return out
}
