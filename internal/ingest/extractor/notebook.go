package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

type notebookFile struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// Notebook extracts text from a Jupyter notebook: markdown cells verbatim,
// code cells fenced so chunk boundaries keep them recognizable.
func Notebook(_ string, data []byte) (Result, error) {
	var nb notebookFile
	if err := json.Unmarshal(data, &nb); err != nil {
		return Result{}, fmt.Errorf("parse notebook: %w", err)
	}
	if len(nb.Cells) == 0 {
		return Result{}, fmt.Errorf("notebook has no cells")
	}

	var res Result
	var parts []string

	for _, cell := range nb.Cells {
		src := cellSource(cell.Source)
		if strings.TrimSpace(src) == "" {
			continue
		}
		switch cell.CellType {
		case "markdown":
			if res.Title == "" {
				if m := strings.TrimSpace(src); strings.HasPrefix(m, "# ") {
					res.Title = strings.TrimSpace(strings.SplitN(m, "\n", 2)[0][2:])
				}
			}
			parts = append(parts, src)
		case "code":
			parts = append(parts, "```\n"+strings.TrimRight(src, "\n")+"\n```")
		}
	}

	res.Text = collapseBlankLines(strings.Join(parts, "\n\n"))
	if res.Text == "" {
		return Result{}, fmt.Errorf("notebook has no textual cells")
	}
	return res, nil
}

// cellSource handles both source encodings the notebook format allows:
// a single string or a list of line strings.
func cellSource(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var lines []string
	if json.Unmarshal(raw, &lines) == nil {
		return strings.Join(lines, "")
	}
	return ""
}
