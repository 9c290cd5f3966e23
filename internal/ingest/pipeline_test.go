package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

const lectureHTML = `<!DOCTYPE html>
<html>
<head><title>Week 3 Slides</title></head>
<body>
<nav>Dashboard</nav>
<p>Gradient descent minimizes a loss function by repeatedly stepping in
the direction of steepest decrease. The learning rate controls how large
each step is, and choosing it well is the difference between smooth
convergence and divergence.</p>
<script>var tracker = 1;</script>
</body>
</html>`

const notesText = `Course Notes

These notes summarize the optimization lectures. Gradient descent and its
stochastic variant appear in nearly every assignment from week three on.`

func writeTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"module-1/lecture-800668.html": lectureHTML,
		"module-1/notes.txt":           notesText,
		"module-1/archive.zip":         "not really a zip",
		"module-2/empty.txt":           "   \n  \n",
	}
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestPipeline() *Pipeline {
	return New(Config{
		CourseID: "CS101",
		URLBase:  "https://learn.example.edu",
	})
}

func TestRun_FailSoft(t *testing.T) {
	root := writeTestTree(t)

	result, err := newTestPipeline().Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.Files != 4 {
		t.Errorf("expected 4 files walked, got %d", result.Summary.Files)
	}
	if result.Summary.Documents != 2 {
		t.Errorf("expected 2 documents, got %d", result.Summary.Documents)
	}
	// one unsupported extension, one empty file
	if result.Summary.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", result.Summary.Skipped)
	}
	if len(result.Summary.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(result.Summary.Issues))
	}
	for _, issue := range result.Summary.Issues {
		if issue.Path == "" || issue.Reason == "" {
			t.Errorf("issue missing context: %+v", issue)
		}
	}
	// both surviving documents live in module-1
	if len(result.Summary.ModuleOrder) != 1 || result.Summary.ModuleOrder[0] != "module-1" {
		t.Errorf("module order = %v, want [module-1]", result.Summary.ModuleOrder)
	}
}

func TestRun_ChunkMetadataCopiesDocument(t *testing.T) {
	root := writeTestTree(t)

	result, err := newTestPipeline().Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, doc := range result.Documents {
		if len(doc.Chunks) == 0 {
			t.Fatalf("document %s has no chunks", doc.ID)
		}
		for i, chunk := range doc.Chunks {
			if chunk.Index != i {
				t.Errorf("document %s: chunk index %d at position %d", doc.ID, chunk.Index, i)
			}
			if chunk.Content == "" {
				t.Errorf("document %s: empty chunk %d", doc.ID, i)
			}
			if chunk.Meta != doc.Meta {
				t.Errorf("document %s: chunk %d metadata diverges from document", doc.ID, i)
			}
			if chunk.DocumentID != doc.ID {
				t.Errorf("document %s: chunk %d references %s", doc.ID, i, chunk.DocumentID)
			}
		}
	}
}

func TestRun_FilenameIDReachesURL(t *testing.T) {
	root := writeTestTree(t)

	result, err := newTestPipeline().Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var lecture *domain.Document
	for i := range result.Documents {
		if result.Documents[i].ID == "800668" {
			lecture = &result.Documents[i]
		}
	}
	if lecture == nil {
		t.Fatal("expected a document with external id 800668")
	}

	want := "https://learn.example.edu/courses/CS101/pages/800668"
	if lecture.Meta.URL != want {
		t.Errorf("document URL %q, want %q", lecture.Meta.URL, want)
	}
	for _, chunk := range lecture.Chunks {
		if chunk.Meta.URL != want {
			t.Errorf("chunk URL %q, want %q", chunk.Meta.URL, want)
		}
	}
	if lecture.Meta.Title != "Week 3 Slides" {
		t.Errorf("title %q, want %q", lecture.Meta.Title, "Week 3 Slides")
	}
	if lecture.Meta.Module != "module-1" {
		t.Errorf("module %q, want module-1", lecture.Meta.Module)
	}
}

func TestRun_StripsNavigationChrome(t *testing.T) {
	root := writeTestTree(t)

	result, err := newTestPipeline().Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, doc := range result.Documents {
		if strings.Contains(doc.Text, "Dashboard") {
			t.Errorf("document %s retains navigation chrome", doc.ID)
		}
		if strings.Contains(doc.Text, "var tracker") {
			t.Errorf("document %s retains script content", doc.ID)
		}
	}
}

func TestRun_BuildsEdgesWithExistingIDs(t *testing.T) {
	root := writeTestTree(t)

	result, err := newTestPipeline().Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Edges) == 0 {
		t.Fatal("expected edges")
	}

	known := map[string]struct{}{}
	for _, doc := range result.Documents {
		known[doc.ID] = struct{}{}
	}
	for _, id := range result.Containers {
		known[id] = struct{}{}
	}

	var hasContains, hasSequence bool
	for _, e := range result.Edges {
		if _, ok := known[e.SourceID]; !ok {
			t.Errorf("edge source %q references unknown id", e.SourceID)
		}
		if _, ok := known[e.TargetID]; !ok {
			t.Errorf("edge target %q references unknown id", e.TargetID)
		}
		switch e.Relation {
		case domain.RelationContains:
			hasContains = true
		case domain.RelationNextInModule, domain.RelationPrevInModule:
			hasSequence = true
		}
	}
	if !hasContains {
		t.Error("expected CONTAINS edges for folder nesting")
	}
	if !hasSequence {
		t.Error("expected NEXT/PREV edges within module-1")
	}
}

func TestRun_Idempotent(t *testing.T) {
	root := writeTestTree(t)
	p := newTestPipeline()

	first, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Documents) != len(second.Documents) {
		t.Fatalf("document count changed between runs: %d vs %d",
			len(first.Documents), len(second.Documents))
	}
	for i := range first.Documents {
		a, b := first.Documents[i], second.Documents[i]
		if a.ID != b.ID || a.Meta != b.Meta || len(a.Chunks) != len(b.Chunks) {
			t.Errorf("document %s differs between runs", a.ID)
		}
	}
}

func TestStripBoilerplate(t *testing.T) {
	in := "Skip to content\nDashboard\nReal content here.\n\n\n\nNext Module\nMore content."
	got := stripBoilerplate(in)

	if strings.Contains(got, "Skip to content") || strings.Contains(got, "Dashboard") {
		t.Errorf("boilerplate survived: %q", got)
	}
	if strings.Contains(got, "Next Module") {
		t.Errorf("pager chrome survived: %q", got)
	}
	if !strings.Contains(got, "Real content here.") || !strings.Contains(got, "More content.") {
		t.Errorf("real content lost: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", got)
	}
}
