package service

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/internal/ismsid"
	"github.com/locvowork/isms_status_exporter/internal/mapper"
	"gopkg.in/yaml.v3"
)

// layout.go - report layout: target sheets, routing and row layout

const (
	ManagementSheetName = "1.관리체계 수립 및 운영"
	ProtectionSheetName = "2.보호대책 요구사항"
)

// SheetRoute sends aggregates whose identifier starts with Prefix to the sheet
// called Name. The route marked Default receives everything no prefix claims.
type SheetRoute struct {
	Name    string `yaml:"name"`
	Prefix  string `yaml:"prefix,omitempty"`
	Default bool   `yaml:"default,omitempty"`
}

// ReportLayout is the full description of the status report template.
type ReportLayout struct {
	Sheets []SheetRoute  `yaml:"sheets"`
	Rows   mapper.Layout `yaml:"rows"`
}

// DefaultReportLayout returns the layout of the stock ISMS status template.
func DefaultReportLayout() ReportLayout {
	return ReportLayout{
		Sheets: []SheetRoute{
			{Name: ManagementSheetName, Default: true},
			{Name: ProtectionSheetName, Prefix: "2."},
		},
		Rows: mapper.DefaultLayout(),
	}
}

// LoadReportLayout reads a YAML layout file. An empty path yields the default layout.
func LoadReportLayout(path string) (ReportLayout, error) {
	if path == "" {
		return DefaultReportLayout(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return ReportLayout{}, fmt.Errorf("opening layout file: %w", err)
	}
	defer file.Close()

	return LoadReportLayoutFromReader(file)
}

// LoadReportLayoutFromReader parses a YAML layout, fills defaults and validates it.
func LoadReportLayoutFromReader(r io.Reader) (ReportLayout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ReportLayout{}, fmt.Errorf("reading layout: %w", err)
	}

	var layout ReportLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return ReportLayout{}, fmt.Errorf("parsing YAML layout: %w", err)
	}

	layout.applyDefaults()

	if err := layout.Validate(); err != nil {
		return ReportLayout{}, fmt.Errorf("validating layout: %w", err)
	}
	return layout, nil
}

func (l *ReportLayout) applyDefaults() {
	if len(l.Sheets) == 0 {
		l.Sheets = DefaultReportLayout().Sheets
	}
	l.Rows = l.Rows.WithDefaults()
}

// Validate checks the sheet routes and the row layout.
func (l ReportLayout) Validate() error {
	if len(l.Sheets) == 0 {
		return fmt.Errorf("layout must have at least one sheet")
	}
	defaults := 0
	names := make(map[string]bool, len(l.Sheets))
	for i, s := range l.Sheets {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("sheet[%d]: name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("sheet[%d]: duplicate sheet name %q", i, s.Name)
		}
		names[s.Name] = true
		if s.Default {
			defaults++
		} else if s.Prefix == "" {
			return fmt.Errorf("sheet[%d] %q: prefix is required unless the sheet is the default", i, s.Name)
		}
	}
	if defaults != 1 {
		return fmt.Errorf("layout must have exactly one default sheet, got %d", defaults)
	}
	return l.Rows.Validate()
}

// Partition splits items by target sheet, keeping their order. Every sheet of
// the layout has an entry, possibly empty.
func (l ReportLayout) Partition(items []domain.AggregateItem) map[string][]domain.AggregateItem {
	out := make(map[string][]domain.AggregateItem, len(l.Sheets))
	for _, s := range l.Sheets {
		out[s.Name] = nil
	}
	for _, item := range items {
		name := l.SheetFor(item.ISMSID)
		out[name] = append(out[name], item)
	}
	return out
}

// SheetFor returns the sheet an identifier is routed to.
func (l ReportLayout) SheetFor(id string) string {
	fallback := ""
	for _, s := range l.Sheets {
		if s.Prefix != "" && ismsid.HasPrefix(id, s.Prefix) {
			return s.Name
		}
		if s.Default {
			fallback = s.Name
		}
	}
	return fallback
}
