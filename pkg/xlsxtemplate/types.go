package xlsxtemplate

// types.go - cell value and style types shared by the template workbook

// CellStyle defines styling for cells. It is comparable so that identical
// styles are registered with the workbook only once.
type CellStyle struct {
	FontName string
	FontSize float64

	Alignment     string // "left", "center", "right"
	VerticalAlign string // "top", "center", "bottom"

	BorderStyle string // "thin", "medium", "thick", "dashed", "dotted", "double"
	BorderColor string

	WrapText bool
}

// RichTextRun is one segment of a rich-text cell value. FontName and FontSize
// are optional; runs carrying a font override the cell font for their text.
type RichTextRun struct {
	Text     string
	Bold     bool
	FontName string
	FontSize float64
}

// PlainText concatenates the text of all runs.
func PlainText(runs []RichTextRun) string {
	n := 0
	for _, r := range runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

var borderStyles = map[string]int{
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
}
