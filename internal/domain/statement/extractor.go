package statement

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// ErrExtraction indicates the uploaded bytes could not be read as a PDF.
var ErrExtraction = errors.New("pdf text extraction failed")

// Extractor converts raw PDF bytes into plain text.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text of every page in document order, one line per
// detected text row. Rows come back sorted by vertical then horizontal
// position, which keeps table cells in left-to-right reading order. Corrupt
// or empty input fails with ErrExtraction.
func (e *Extractor) ExtractText(data []byte) (text string, err error) {
	// The underlying reader panics on some malformed cross-reference tables
	// instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrExtraction)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, pageNum, err)
		}
		for _, row := range rows {
			writeRow(&b, row.Content)
		}
	}
	return b.String(), nil
}

// writeRow joins the text chunks of one row. Wide horizontal gaps are table
// column boundaries and become double spaces so the summary tokenizer can
// split on them; small gaps are word breaks.
func writeRow(b *strings.Builder, chunks []pdf.Text) {
	prevEnd := 0.0
	for i, chunk := range chunks {
		if chunk.S == "" {
			continue
		}
		if i > 0 {
			gap := chunk.X - prevEnd
			size := chunk.FontSize
			if size <= 0 {
				size = 10
			}
			switch {
			case gap > 2.5*size:
				b.WriteString("  ")
			case gap > 0.3*size:
				b.WriteString(" ")
			}
		}
		b.WriteString(chunk.S)
		prevEnd = chunk.X + chunk.W
	}
	b.WriteString("\n")
}
