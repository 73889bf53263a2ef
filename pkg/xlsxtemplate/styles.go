package xlsxtemplate

// StyleBuilder provides a fluent API for building cell styles
type StyleBuilder struct {
	style CellStyle
}

// NewStyleBuilder creates a new style builder with default values
func NewStyleBuilder() *StyleBuilder {
	return &StyleBuilder{
		style: CellStyle{
			FontName:      "Arial",
			FontSize:      10,
			Alignment:     "left",
			VerticalAlign: "center",
		},
	}
}

// Font sets the font properties
func (b *StyleBuilder) Font(name string, size float64) *StyleBuilder {
	b.style.FontName = name
	b.style.FontSize = size
	return b
}

// Align sets the horizontal alignment
func (b *StyleBuilder) Align(alignment string) *StyleBuilder {
	b.style.Alignment = alignment
	return b
}

// VAlign sets the vertical alignment. "middle" is accepted as an alias of "center".
func (b *StyleBuilder) VAlign(alignment string) *StyleBuilder {
	if alignment == "middle" {
		alignment = "center"
	}
	b.style.VerticalAlign = alignment
	return b
}

// Border sets the border style on all four sides
func (b *StyleBuilder) Border(style, color string) *StyleBuilder {
	b.style.BorderStyle = style
	b.style.BorderColor = color
	return b
}

// WrapText enables text wrapping
func (b *StyleBuilder) WrapText() *StyleBuilder {
	b.style.WrapText = true
	return b
}

// Build returns the built style
func (b *StyleBuilder) Build() CellStyle {
	return b.style
}

// ReportCellStyle is the style of written report cells: wrapped, left/middle
// aligned, thin border on every side.
func ReportCellStyle(fontName string, fontSize float64) CellStyle {
	return NewStyleBuilder().
		Font(fontName, fontSize).
		Align("left").
		VAlign("middle").
		WrapText().
		Border("thin", "").
		Build()
}
