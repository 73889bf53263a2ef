package mapper

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/pkg/xlsxtemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "1.관리체계 수립 및 운영"

func templateBytes(t *testing.T, ids map[int]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", testSheet))
	require.NoError(t, f.SetCellStr(testSheet, "F1", "항목"))
	for row, id := range ids {
		cell, err := excelize.JoinCellName("F", row)
		require.NoError(t, err)
		require.NoError(t, f.SetCellStr(testSheet, cell, id))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func loadSheet(t *testing.T, tpl []byte) (*xlsxtemplate.Workbook, *xlsxtemplate.Sheet) {
	t.Helper()
	wb, err := xlsxtemplate.BytesLoader(tpl).Load()
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	sheet, err := wb.Sheet(testSheet)
	require.NoError(t, err)
	return wb, sheet
}

func TestEstimateLines(t *testing.T) {
	m := New(DefaultLayout())
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short line", "abc", 1},
		{"exactly one line", strings.Repeat("a", 50), 1},
		{"wraps once", strings.Repeat("a", 51), 2},
		{"multibyte counts runes", strings.Repeat("가", 50), 1},
		{"blank line between", "a\n\nb", 2},
		{"three long lines", strings.Join([]string{strings.Repeat("x", 120), strings.Repeat("y", 120), strings.Repeat("z", 120)}, "\n"), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.EstimateLines(tt.text))
		})
	}
}

func TestRowHeight(t *testing.T) {
	m := New(DefaultLayout())
	assert.Equal(t, 50.0, m.RowHeight(0))
	assert.Equal(t, 70.0, m.RowHeight(1))
	assert.Equal(t, 70.0, m.RowHeight(4))
	assert.Equal(t, 135.0, m.RowHeight(9))
	assert.Equal(t, 1000.0, m.RowHeight(200))
}

func TestComposeContent(t *testing.T) {
	m := New(DefaultLayout())

	t.Run("plain content", func(t *testing.T) {
		cell := m.ComposeContent(domain.AggregateItem{ISMSID: "1.1", Contents: []string{"a", "b"}})
		assert.False(t, cell.IsRich())
		assert.Equal(t, "a\nb", cell.Text)
	})

	t.Run("content and reasons", func(t *testing.T) {
		cell := m.ComposeContent(domain.AggregateItem{
			ISMSID:   "1.1",
			Contents: []string{"c"},
			Reasons: []domain.ReasonGroup{
				{FileName: "a.pdf", Reasons: []string{"r1", "r2"}},
				{FileName: "b.pdf", Reasons: []string{"r3"}},
			},
		})
		require.True(t, cell.IsRich())
		require.Len(t, cell.Runs, 5)
		assert.Equal(t, "c\n", cell.Runs[0].Text)
		assert.False(t, cell.Runs[0].Bold)
		assert.Equal(t, "  a.pdf:\n", cell.Runs[1].Text)
		assert.True(t, cell.Runs[1].Bold)
		assert.Equal(t, "    - r1\n    - r2\n\n", cell.Runs[2].Text)
		assert.Equal(t, "  b.pdf:\n", cell.Runs[3].Text)
		assert.Equal(t, "    - r3", cell.Runs[4].Text)
		assert.Equal(t, "맑은 고딕", cell.Runs[1].FontName)
		assert.Equal(t, 9.0, cell.Runs[1].FontSize)
		assert.Equal(t, "c\n  a.pdf:\n    - r1\n    - r2\n\n  b.pdf:\n    - r3", cell.PlainText())
		assert.Equal(t, 6, m.EstimateLines(cell.PlainText()))
	})

	t.Run("reasons only", func(t *testing.T) {
		cell := m.ComposeContent(domain.AggregateItem{
			ISMSID:  "1.1",
			Reasons: []domain.ReasonGroup{{FileName: "a.pdf", Reasons: []string{"r1"}}},
		})
		require.True(t, cell.IsRich())
		assert.Equal(t, "  a.pdf:\n    - r1", cell.PlainText())
	})

	t.Run("blocks with no surviving reason are skipped", func(t *testing.T) {
		cell := m.ComposeContent(domain.AggregateItem{
			ISMSID:   "1.1",
			Contents: []string{"c"},
			Reasons:  []domain.ReasonGroup{{FileName: "a.pdf", Reasons: []string{"None", " "}}},
		})
		assert.False(t, cell.IsRich())
		assert.Equal(t, "c", cell.Text)
	})
}

func TestMapToRows_WritesMatchingRows(t *testing.T) {
	long := strings.Join([]string{strings.Repeat("x", 120), strings.Repeat("y", 120), strings.Repeat("z", 120)}, "\n")
	wb, sheet := loadSheet(t, templateBytes(t, map[int]string{3: "1.1.1", 4: "", 5: "1.2", 6: "9.9"}))

	items := []domain.AggregateItem{
		{ISMSID: "1.1.1", Contents: []string{long}, Policies: []string{"/p/a.docx", "/p/b.docx"}, Evidences: []string{"e.pdf"}},
		{ISMSID: "1.2.0", Reasons: []domain.ReasonGroup{{FileName: "e.pdf", Reasons: []string{"missing signature"}}}},
	}

	require.NoError(t, New(DefaultLayout()).MapToRows(sheet, items))

	v, err := sheet.CellText("I", 3)
	require.NoError(t, err)
	assert.Equal(t, long, v)
	v, err = sheet.CellText("J", 3)
	require.NoError(t, err)
	assert.Equal(t, "/p/a.docx\n/p/b.docx", v)
	v, err = sheet.CellText("K", 3)
	require.NoError(t, err)
	assert.Equal(t, "e.pdf", v)

	h, err := sheet.RowHeight(3)
	require.NoError(t, err)
	assert.Equal(t, 135.0, h)

	runs, err := sheet.CellRichText("I", 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "  e.pdf:\n", runs[0].Text)
	assert.True(t, runs[0].Bold)
	assert.Equal(t, "    - missing signature", runs[1].Text)
	h, err = sheet.RowHeight(5)
	require.NoError(t, err)
	assert.Equal(t, 70.0, h)

	for _, row := range []int{4, 6} {
		h, err := sheet.RowHeight(row)
		require.NoError(t, err)
		assert.Equal(t, 50.0, h, "row %d", row)
		v, err := sheet.CellText("I", row)
		require.NoError(t, err)
		assert.Empty(t, v, "row %d", row)
	}

	h, err = sheet.RowHeight(1)
	require.NoError(t, err)
	assert.NotEqual(t, 50.0, h)

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	for _, cell := range []string{"I3", "J3", "K3"} {
		id, err := f.GetCellStyle(testSheet, cell)
		require.NoError(t, err)
		style, err := f.GetStyle(id)
		require.NoError(t, err)

		require.NotNil(t, style.Alignment, cell)
		assert.True(t, style.Alignment.WrapText, cell)
		assert.Equal(t, "left", style.Alignment.Horizontal, cell)
		assert.Equal(t, "center", style.Alignment.Vertical, cell)
		require.Len(t, style.Border, 4, cell)
		for _, b := range style.Border {
			assert.Equal(t, 1, b.Style, "%s %s border", cell, b.Type)
		}
		require.NotNil(t, style.Font, cell)
		assert.Equal(t, "맑은 고딕", style.Font.Family, cell)
		assert.Equal(t, 9.0, style.Font.Size, cell)
	}
}

func TestMapToRows_ResetsTrailingFormattedRows(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", testSheet))
	require.NoError(t, f.SetCellStr(testSheet, "F3", "1.1"))
	styleID, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(testSheet, "I10", "I10", styleID))
	require.NoError(t, f.SetRowHeight(testSheet, 12, 30))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, sheet := loadSheet(t, buf.Bytes())
	require.NoError(t, New(DefaultLayout()).MapToRows(sheet, []domain.AggregateItem{{ISMSID: "1.1", Contents: []string{"c"}}}))

	for _, row := range []int{10, 12} {
		h, err := sheet.RowHeight(row)
		require.NoError(t, err)
		assert.Equal(t, 50.0, h, "row %d", row)
	}
}

func TestMapToRows_Idempotent(t *testing.T) {
	tpl := templateBytes(t, map[int]string{3: "1.1", 4: "1.2"})
	items := []domain.AggregateItem{
		{ISMSID: "1.1", Contents: []string{"c"}, Reasons: []domain.ReasonGroup{{FileName: "f", Reasons: []string{"r"}}}},
		{ISMSID: "1.2", Policies: []string{"p"}},
	}
	m := New(DefaultLayout())

	snapshot := func() []string {
		_, sheet := loadSheet(t, tpl)
		require.NoError(t, m.MapToRows(sheet, items))
		var out []string
		for row := 3; row <= 4; row++ {
			for _, col := range []string{"I", "J", "K"} {
				v, err := sheet.CellText(col, row)
				require.NoError(t, err)
				out = append(out, v)
			}
			h, err := sheet.RowHeight(row)
			require.NoError(t, err)
			out = append(out, strings.Repeat("|", int(h)))
		}
		return out
	}

	assert.Equal(t, snapshot(), snapshot())
}

func TestMapToRows_DuplicateIdentifier(t *testing.T) {
	_, sheet := loadSheet(t, templateBytes(t, map[int]string{3: "1.1"}))
	items := []domain.AggregateItem{{ISMSID: "1.1"}, {ISMSID: "1.1.0"}}

	err := New(DefaultLayout()).MapToRows(sheet, items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateIdentifier))
}

type failingSheet struct {
	ids     map[int]string
	failRow int
	heights map[int]float64
}

func (s *failingSheet) Name() string { return "broken" }
func (s *failingSheet) RowCount() (int, error) { return 6, nil }
func (s *failingSheet) CellText(_ string, row int) (string, error) {
	return s.ids[row], nil
}
func (s *failingSheet) SetCellText(_ string, row int, _ string) error {
	if row == s.failRow {
		return errors.New("disk full")
	}
	return nil
}
func (s *failingSheet) SetCellRichText(string, int, []xlsxtemplate.RichTextRun) error { return nil }
func (s *failingSheet) SetCellStyle(string, int, xlsxtemplate.CellStyle) error { return nil }
func (s *failingSheet) SetRowHeight(row int, h float64) error {
	s.heights[row] = h
	return nil
}

func TestMapToRows_RowFailure(t *testing.T) {
	sheet := &failingSheet{
		ids:     map[int]string{3: "1.1", 5: "1.2"},
		failRow: 5,
		heights: map[int]float64{},
	}
	items := []domain.AggregateItem{{ISMSID: "1.1", Contents: []string{"a"}}, {ISMSID: "1.2", Contents: []string{"b"}}}

	err := New(DefaultLayout()).MapToRows(sheet, items)
	require.Error(t, err)

	var rowErr *domain.RowProcessingError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "broken", rowErr.Sheet)
	assert.Equal(t, 5, rowErr.Row)
	assert.EqualError(t, errors.Unwrap(rowErr), "writing content: disk full")

	assert.Equal(t, 70.0, sheet.heights[3])
	assert.Equal(t, 50.0, sheet.heights[4])
	_, touched := sheet.heights[6]
	assert.False(t, touched)
}

func TestLayout_Validate(t *testing.T) {
	assert.NoError(t, DefaultLayout().Validate())

	l := DefaultLayout()
	l.PolicyColumn = l.ContentColumn
	assert.Error(t, l.Validate())

	l = DefaultLayout()
	l.MinContentHeight = 2000
	assert.Error(t, l.Validate())

	assert.Equal(t, DefaultLayout(), Layout{}.WithDefaults())
}
