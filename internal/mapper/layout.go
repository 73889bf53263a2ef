package mapper

import "fmt"

// Layout describes where aggregates are written in a template sheet and how
// row heights are estimated.
type Layout struct {
	IDColumn       string `yaml:"id_column"`
	ContentColumn  string `yaml:"content_column"`
	PolicyColumn   string `yaml:"policy_column"`
	EvidenceColumn string `yaml:"evidence_column"`
	FirstRow       int    `yaml:"first_row"`

	DefaultRowHeight float64 `yaml:"default_row_height"`
	MinContentHeight float64 `yaml:"min_content_height"`
	MaxRowHeight     float64 `yaml:"max_row_height"`
	HeightPerLine    float64 `yaml:"height_per_line"`
	CharsPerLine     int     `yaml:"chars_per_line"`

	FontName string  `yaml:"font_name"`
	FontSize float64 `yaml:"font_size"`
}

// DefaultLayout returns the layout of the ISMS status template.
func DefaultLayout() Layout {
	return Layout{
		IDColumn:         "F",
		ContentColumn:    "I",
		PolicyColumn:     "J",
		EvidenceColumn:   "K",
		FirstRow:         3,
		DefaultRowHeight: 50,
		MinContentHeight: 70,
		MaxRowHeight:     1000,
		HeightPerLine:    15,
		CharsPerLine:     50,
		FontName:         "맑은 고딕",
		FontSize:         9,
	}
}

// WithDefaults fills every zero field from DefaultLayout.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	if l.IDColumn == "" {
		l.IDColumn = d.IDColumn
	}
	if l.ContentColumn == "" {
		l.ContentColumn = d.ContentColumn
	}
	if l.PolicyColumn == "" {
		l.PolicyColumn = d.PolicyColumn
	}
	if l.EvidenceColumn == "" {
		l.EvidenceColumn = d.EvidenceColumn
	}
	if l.FirstRow == 0 {
		l.FirstRow = d.FirstRow
	}
	if l.DefaultRowHeight == 0 {
		l.DefaultRowHeight = d.DefaultRowHeight
	}
	if l.MinContentHeight == 0 {
		l.MinContentHeight = d.MinContentHeight
	}
	if l.MaxRowHeight == 0 {
		l.MaxRowHeight = d.MaxRowHeight
	}
	if l.HeightPerLine == 0 {
		l.HeightPerLine = d.HeightPerLine
	}
	if l.CharsPerLine == 0 {
		l.CharsPerLine = d.CharsPerLine
	}
	if l.FontName == "" {
		l.FontName = d.FontName
	}
	if l.FontSize == 0 {
		l.FontSize = d.FontSize
	}
	return l
}

// Validate checks that the layout is usable.
func (l Layout) Validate() error {
	if l.FirstRow < 1 {
		return fmt.Errorf("first_row must be at least 1, got %d", l.FirstRow)
	}
	if l.CharsPerLine < 1 {
		return fmt.Errorf("chars_per_line must be positive, got %d", l.CharsPerLine)
	}
	if l.MinContentHeight > l.MaxRowHeight {
		return fmt.Errorf("min_content_height (%g) exceeds max_row_height (%g)", l.MinContentHeight, l.MaxRowHeight)
	}
	cols := map[string]string{
		"id_column":       l.IDColumn,
		"content_column":  l.ContentColumn,
		"policy_column":   l.PolicyColumn,
		"evidence_column": l.EvidenceColumn,
	}
	seen := make(map[string]string)
	for name, col := range cols {
		if prev, ok := seen[col]; ok {
			return fmt.Errorf("%s and %s both use column %s", prev, name, col)
		}
		seen[col] = name
	}
	return nil
}
