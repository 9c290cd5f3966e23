package extractor

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from a PDF. Scanned PDFs without a text layer
// yield an empty body, which the pipeline records as a parse issue.
func PDF(_ string, data []byte) (Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return Result{}, fmt.Errorf("read pdf text: %w", err)
	}

	text := collapseBlankLines(buf.String())
	if text == "" {
		return Result{}, fmt.Errorf("pdf has no extractable text layer")
	}

	return Result{Text: text}, nil
}
