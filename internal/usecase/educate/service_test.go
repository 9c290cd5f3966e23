package educate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

type mockRetriever struct {
	matches []domain.Match
	err     error
	calls   int
}

func (m *mockRetriever) Query(_ context.Context, _ string, _ int, _ map[string]string) ([]domain.Match, error) {
	m.calls++
	return m.matches, m.err
}

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	return r
}

var sectionHeaders = []string{
	"## Intuition",
	"## Formal Statement",
	"## Reference Implementation",
	"## Common Misconceptions",
}

func TestEducate_EmptyQuery(t *testing.T) {
	svc := New(mustRegistry(t), &mockRetriever{}, Options{})
	_, err := svc.Educate(context.Background(), "\t ", nil)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestEducate_RegistryHit(t *testing.T) {
	retriever := &mockRetriever{}
	svc := New(mustRegistry(t), retriever, Options{})

	resp, err := svc.Educate(context.Background(), "explain gradient descent", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Level != LevelFormula {
		t.Fatalf("level = %q, want %q", resp.Level, LevelFormula)
	}
	for _, h := range sectionHeaders {
		if !strings.Contains(resp.Answer, h) {
			t.Errorf("answer missing section %q", h)
		}
	}
	if resp.QuizSuggestion != "" {
		t.Errorf("no assessment intent in the query, got suggestion %q", resp.QuizSuggestion)
	}
	if retriever.calls != 0 {
		t.Errorf("retriever called %d times on a registry hit, want 0", retriever.calls)
	}
}

func TestEducate_QuizSuggestionFollowsAssessmentIntent(t *testing.T) {
	matches := []domain.Match{
		{ChunkID: "docA:0", DocumentID: "docA", Index: 0, Score: 0.9,
			Content: "optimizers walk downhill on the loss surface",
			Meta:    domain.Metadata{Title: "Notes", Module: "module-1"}},
	}

	tests := []struct {
		query     string
		wantLevel string
		wantQuiz  bool
	}{
		{"quiz me on gradient descent", LevelFormula, true},
		{"explain gradient descent", LevelFormula, false},
		{"practice problems on optimizer convergence", LevelSynthesis, true},
		{"how do optimizers reach the minimum", LevelSynthesis, false},
	}
	for _, tc := range tests {
		svc := New(mustRegistry(t), &mockRetriever{matches: matches}, Options{})
		resp, err := svc.Educate(context.Background(), tc.query, nil)
		if err != nil {
			t.Fatalf("Educate(%q): %v", tc.query, err)
		}
		if resp.Level != tc.wantLevel {
			t.Errorf("Educate(%q) level = %q, want %q", tc.query, resp.Level, tc.wantLevel)
		}
		if got := resp.QuizSuggestion != ""; got != tc.wantQuiz {
			t.Errorf("Educate(%q) quiz suggestion present = %v, want %v", tc.query, got, tc.wantQuiz)
		}
	}
}

func TestEducate_RegistryContentIsStable(t *testing.T) {
	svc := New(mustRegistry(t), &mockRetriever{}, Options{})

	first, err := svc.Educate(context.Background(), "what is k-means", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Educate(context.Background(), "tell me about k-means please", nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Answer != second.Answer {
		t.Error("registry answers must not vary with query phrasing")
	}
}

func TestEducate_SynthesisAnchorsOnFirstChunk(t *testing.T) {
	matches := []domain.Match{
		{ChunkID: "docA:3", DocumentID: "docA", Index: 3, Score: 0.91,
			Content: "the update rule subtracts the scaled gradient at every step",
			Meta:    domain.Metadata{Title: "Optimization Notes", Module: "module-2"}},
		{ChunkID: "docB:0", DocumentID: "docB", Index: 0, Score: 0.80,
			Content: "convexity guarantees a single global minimum",
			Meta:    domain.Metadata{Title: "Convexity", Module: "module-2"}},
		{ChunkID: "docA:0", DocumentID: "docA", Index: 0, Score: 0.74,
			Content: "optimization searches parameter space for the lowest loss",
			Meta:    domain.Metadata{Title: "Optimization Notes", Module: "module-2"}},
	}
	svc := New(mustRegistry(t), &mockRetriever{matches: matches}, Options{})

	resp, err := svc.Educate(context.Background(), "how do optimizers reach the minimum", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Level != LevelSynthesis {
		t.Fatalf("level = %q, want %q", resp.Level, LevelSynthesis)
	}

	body := strings.TrimPrefix(resp.Answer, fmt.Sprintf("Here is what the course materials say about %q:\n\n", "how do optimizers reach the minimum"))
	if !strings.HasPrefix(body, "optimization searches parameter space") {
		t.Errorf("expected the top document's first chunk to lead, got:\n%s", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "## Related Concepts") {
		t.Error("other-document chunks should appear as related concepts")
	}
	if !strings.Contains(resp.Answer, "convexity guarantees") {
		t.Error("related chunk content missing")
	}
}

func TestEducate_SynthesisSourcesDedupedByDocument(t *testing.T) {
	matches := []domain.Match{
		{ChunkID: "docA:0", DocumentID: "docA", Index: 0, Score: 0.9,
			Content: "first chunk", Meta: domain.Metadata{Title: "Notes", Module: "module-1"}},
		{ChunkID: "docB:1", DocumentID: "docB", Index: 1, Score: 0.8,
			Content: "another document entirely", Meta: domain.Metadata{Title: "Reading", Module: "module-1"}},
	}
	svc := New(mustRegistry(t), &mockRetriever{matches: matches}, Options{})

	resp, err := svc.Educate(context.Background(), "something not in the registry", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d: %+v", len(resp.Sources), resp.Sources)
	}
	if resp.Sources[0].Title != "Notes" || resp.Sources[1].Title != "Reading" {
		t.Errorf("unexpected source titles: %+v", resp.Sources)
	}
	if !strings.Contains(resp.Answer, "## Sources") {
		t.Error("answer missing sources section")
	}
}

func TestEducate_NoCandidates(t *testing.T) {
	svc := New(mustRegistry(t), &mockRetriever{}, Options{})

	resp, err := svc.Educate(context.Background(), "quantum chromodynamics basics", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Level != LevelNone {
		t.Fatalf("level = %q, want %q", resp.Level, LevelNone)
	}
	if !strings.Contains(resp.Answer, "No information available") {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("no-information response must not cite sources, got %+v", resp.Sources)
	}
}

func TestEducate_RetrievalFailureIsFatal(t *testing.T) {
	retriever := &mockRetriever{err: fmt.Errorf("similarity search: %w", domain.ErrStoreUnavailable)}
	svc := New(mustRegistry(t), retriever, Options{})

	var failed bool
	resp, err := svc.Educate(context.Background(), "something not in the registry", func(e domain.TraceEvent) {
		if e.Stage == StageRetrieval && e.Status == domain.StageFailed {
			failed = true
		}
	})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if resp != nil {
		t.Fatal("no partial payload may be returned on retrieval failure")
	}
	if !failed {
		t.Error("expected a failed retrieval trace event")
	}
}

func TestLoadRegistry(t *testing.T) {
	r := mustRegistry(t)
	if r.Version != 1 {
		t.Errorf("version = %d, want 1", r.Version)
	}
	if len(r.Entries) < 5 {
		t.Errorf("expected at least 5 entries, got %d", len(r.Entries))
	}
	for i, e := range r.Entries {
		if e.Intuition == "" || e.Statement == "" || e.Implementation == "" {
			t.Errorf("entry %d (%s) missing a section", i, e.Name)
		}
		if len(e.Misconceptions) == 0 {
			t.Errorf("entry %d (%s) has no misconceptions", i, e.Name)
		}
		for j := 1; j < len(e.Aliases); j++ {
			if len(e.Aliases[j]) > len(e.Aliases[j-1]) {
				t.Errorf("entry %s aliases not longest-first: %v", e.Name, e.Aliases)
			}
		}
	}
}

func TestRegistryMatch(t *testing.T) {
	r := mustRegistry(t)
	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"explain gradient descent", "Gradient Descent", true},
		{"how does sgd converge", "Gradient Descent", true},
		{"what is k-means", "K-Means Clustering", true},
		{"clarify kmeans for me", "K-Means Clustering", true},
		{"sgdx is not an alias", "", false},
		{"nothing mathematical here", "", false},
	}
	for _, tc := range tests {
		e, ok := r.Match(tc.query)
		if ok != tc.ok {
			t.Errorf("Match(%q) ok = %v, want %v", tc.query, ok, tc.ok)
			continue
		}
		if ok && e.Name != tc.want {
			t.Errorf("Match(%q) = %q, want %q", tc.query, e.Name, tc.want)
		}
	}
}
