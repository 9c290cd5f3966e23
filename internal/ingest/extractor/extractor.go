// Package extractor holds per-format text extractors. Each extractor is a
// pure function from file bytes to text plus structural hints; the registry
// dispatches on file extension. Adding a format means registering one more
// function with no shared state between files.
package extractor

import (
	"path/filepath"
	"strings"
)

// Result is the raw output of one extractor.
type Result struct {
	// Text is the extracted plain text, pre-boilerplate-stripping.
	Text string
	// Title is the best structural title found in the content, if any.
	Title string
	// StructuralID is an id attribute embedded in the content (platform API
	// hints, front-matter ids). Second rung of the external-id ladder.
	StructuralID string
}

// Func extracts text from one file. Implementations must be pure: no shared
// mutable state, same bytes in, same Result out.
type Func func(filename string, data []byte) (Result, error)

// Registry maps lowercase file extensions (with dot) to extractors.
type Registry struct {
	byExt map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Func)}
}

// Default returns a registry with all built-in extractors registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(".html", HTML)
	r.Register(".htm", HTML)
	r.Register(".md", Markdown)
	r.Register(".markdown", Markdown)
	r.Register(".txt", PlainText)
	r.Register(".text", PlainText)
	r.Register(".pdf", PDF)
	r.Register(".ipynb", Notebook)
	return r
}

// Register adds an extractor for an extension (".html"). Later registrations
// replace earlier ones.
func (r *Registry) Register(ext string, fn Func) {
	r.byExt[strings.ToLower(ext)] = fn
}

// Lookup returns the extractor for a path's extension.
func (r *Registry) Lookup(path string) (Func, bool) {
	fn, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return fn, ok
}

// Extensions lists the registered extensions (for run summaries).
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	return out
}
