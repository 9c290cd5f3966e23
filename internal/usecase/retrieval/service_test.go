package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
	got    string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	s.got = text
	return s.result, s.err
}

type stubSearcher struct {
	matches []domain.Match
	err     error
	gotVec  []float32
	gotK    int
	gotTags map[string]string
}

func (s *stubSearcher) SearchKNN(_ context.Context, vector []float32, k int, filter map[string]string) ([]domain.Match, error) {
	s.gotVec = vector
	s.gotK = k
	s.gotTags = filter
	return s.matches, s.err
}

func TestQuery(t *testing.T) {
	embedder := &stubEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	searcher := &stubSearcher{matches: []domain.Match{{ChunkID: "d:0", Score: 0.9}}}
	svc := New(embedder, searcher)

	matches, err := svc.Query(context.Background(), "  gradient descent  ", 5, map[string]string{"course_id": "CS101"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches", len(matches))
	}
	if embedder.got != "gradient descent" {
		t.Errorf("embedded text = %q, want trimmed", embedder.got)
	}
	if searcher.gotK != 5 || searcher.gotTags["course_id"] != "CS101" {
		t.Errorf("search args: k=%d tags=%v", searcher.gotK, searcher.gotTags)
	}
	if len(searcher.gotVec) != 2 {
		t.Errorf("vector = %v", searcher.gotVec)
	}
}

func TestQuery_InvalidInput(t *testing.T) {
	svc := New(&stubEmbedder{}, &stubSearcher{})

	if _, err := svc.Query(context.Background(), "   ", 5, nil); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("empty text: got %v", err)
	}
	if _, err := svc.Query(context.Background(), "x", 0, nil); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("k=0: got %v", err)
	}
}

func TestQuery_EmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("rate limited")}
	svc := New(embedder, &stubSearcher{})

	if _, err := svc.Query(context.Background(), "x", 5, nil); err == nil {
		t.Fatal("expected embed error")
	}
}

func TestQuery_SearchFailurePreservesSentinel(t *testing.T) {
	searcher := &stubSearcher{err: fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)}
	svc := New(&stubEmbedder{}, searcher)

	_, err := svc.Query(context.Background(), "x", 5, nil)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable through the wrap, got %v", err)
	}
}
