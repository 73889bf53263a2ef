package xlsxtemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// workbook.go - template workbook loading and serialization

// ErrSheetNotFound is returned by Workbook.Sheet for unknown sheet names.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook wraps an excelize file loaded from a template. All access to the
// underlying file goes through the workbook mutex, so sheets of one workbook
// may be written from different goroutines.
type Workbook struct {
	mu     sync.Mutex
	file   *excelize.File
	styles map[CellStyle]int
}

// Loader produces a freshly loaded template workbook on every call.
type Loader interface {
	Load() (*Workbook, error)
}

// FileLoader loads the template from a path on disk.
type FileLoader string

// Load implements Loader.
func (l FileLoader) Load() (*Workbook, error) {
	return Open(string(l))
}

// BytesLoader loads the template from an in-memory xlsx document.
type BytesLoader []byte

// Load implements Loader.
func (l BytesLoader) Load() (*Workbook, error) {
	return OpenReader(bytes.NewReader(l))
}

// Open loads a template workbook from a file.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening template %q: %w", path, err)
	}
	return Wrap(f), nil
}

// OpenReader loads a template workbook from r.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return Wrap(f), nil
}

// Wrap adopts an already opened excelize file.
func Wrap(f *excelize.File) *Workbook {
	return &Workbook{
		file:   f,
		styles: make(map[CellStyle]int),
	}
}

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList()
}

// Sheet returns a handle on the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx, err := w.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("looking up sheet %q: %w", name, err)
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return &Sheet{wb: w, name: name}, nil
}

// ActivateFirstSheet makes the first sheet the one shown when the file is opened.
func (w *Workbook) ActivateFirstSheet() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.file.SetActiveSheet(0)
}

// WriteToBuffer serializes the workbook as an xlsx document.
func (w *Workbook) WriteToBuffer() (*bytes.Buffer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing Excel file: %w", err)
	}
	return buf, nil
}

// Close releases temporary files held by the workbook.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// styleID returns the excelize style id for style, registering it on first use.
// Callers must hold w.mu.
func (w *Workbook) styleID(style CellStyle) (int, error) {
	if id, ok := w.styles[style]; ok {
		return id, nil
	}
	id, err := w.file.NewStyle(toExcelizeStyle(style))
	if err != nil {
		return 0, fmt.Errorf("creating style: %w", err)
	}
	w.styles[style] = id
	return id, nil
}

// toExcelizeStyle converts CellStyle to an excelize style definition.
func toExcelizeStyle(style CellStyle) *excelize.Style {
	excelStyle := &excelize.Style{
		Font: &excelize.Font{
			Size:   style.FontSize,
			Family: style.FontName,
		},
		Alignment: &excelize.Alignment{
			Horizontal: style.Alignment,
			Vertical:   style.VerticalAlign,
			WrapText:   style.WrapText,
		},
	}

	if style.BorderStyle != "" {
		borderColor := "000000"
		if style.BorderColor != "" {
			borderColor = strings.TrimPrefix(style.BorderColor, "#")
		}
		borderStyle, ok := borderStyles[style.BorderStyle]
		if !ok {
			borderStyle = 1
		}
		excelStyle.Border = []excelize.Border{
			{Type: "left", Color: borderColor, Style: borderStyle},
			{Type: "top", Color: borderColor, Style: borderStyle},
			{Type: "bottom", Color: borderColor, Style: borderStyle},
			{Type: "right", Color: borderColor, Style: borderStyle},
		}
	}

	return excelStyle
}
