package extractor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PlainText passes text files through with whitespace normalization. The
// first non-empty line doubles as the title when it is short enough to be
// a heading.
func PlainText(_ string, data []byte) (Result, error) {
	if !utf8.Valid(data) {
		return Result{}, fmt.Errorf("not valid UTF-8 text")
	}

	text := collapseBlankLines(string(data))
	if text == "" {
		return Result{}, fmt.Errorf("file is empty")
	}

	var title string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= 80 {
			title = line
		}
		break
	}

	return Result{Text: text, Title: title}, nil
}
