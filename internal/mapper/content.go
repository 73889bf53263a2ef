package mapper

import (
	"strings"

	"github.com/locvowork/isms_status_exporter/internal/domain"
	"github.com/locvowork/isms_status_exporter/pkg/textnorm"
	"github.com/locvowork/isms_status_exporter/pkg/xlsxtemplate"
)

// ContentCell is the value of the content column: either plain text or rich text.
type ContentCell struct {
	Text string
	Runs []xlsxtemplate.RichTextRun
}

// IsRich reports whether the cell is written as rich text.
func (c ContentCell) IsRich() bool {
	return len(c.Runs) > 0
}

// PlainText returns the text as rendered, ignoring styling.
func (c ContentCell) PlainText() string {
	if c.IsRich() {
		return xlsxtemplate.PlainText(c.Runs)
	}
	return c.Text
}

type reasonBlock struct {
	fileName string
	lines    []string
}

// ComposeContent builds the content column from the item's contents and
// per-file reasons. Reasons render as a bold "  file:" line followed by
// "    - reason" lines, with a blank line between files; content text, when
// present, comes first.
func (m *TemplateMapper) ComposeContent(item domain.AggregateItem) ContentCell {
	contentText := textnorm.JoinLines(item.Contents)

	var blocks []reasonBlock
	for _, g := range item.Reasons {
		reasons := textnorm.Filter(g.Reasons)
		if len(reasons) == 0 {
			continue
		}
		lines := make([]string, len(reasons))
		for i, r := range reasons {
			lines[i] = "    - " + r
		}
		blocks = append(blocks, reasonBlock{fileName: textnorm.NFC(g.FileName), lines: lines})
	}

	if len(blocks) == 0 {
		return ContentCell{Text: contentText}
	}

	var runs []xlsxtemplate.RichTextRun
	if contentText != "" {
		runs = append(runs, m.run(contentText+"\n", false))
	}
	for i, b := range blocks {
		body := strings.Join(b.lines, "\n")
		if i < len(blocks)-1 {
			body += "\n\n"
		}
		runs = append(runs,
			m.run("  "+b.fileName+":\n", true),
			m.run(body, false),
		)
	}
	return ContentCell{Runs: runs}
}

func (m *TemplateMapper) run(text string, bold bool) xlsxtemplate.RichTextRun {
	return xlsxtemplate.RichTextRun{
		Text:     text,
		Bold:     bold,
		FontName: m.layout.FontName,
		FontSize: m.layout.FontSize,
	}
}
