// Package retrieval embeds a query and runs the vector similarity search.
// Both navigate and educate build on it.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

type Service struct {
	embedder domain.Embedder
	searcher VectorSearcher
}

func New(embedder domain.Embedder, searcher VectorSearcher) *Service {
	return &Service{embedder: embedder, searcher: searcher}
}

// Query embeds text and returns up to k matches ordered by similarity.
// filter narrows the search by tag fields (course_id, module, content_type).
func (s *Service) Query(
	ctx context.Context, text string, k int, filter map[string]string,
) ([]domain.Match, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query text", domain.ErrInvalidQuery)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: non-positive result count %d", domain.ErrInvalidQuery, k)
	}

	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.searcher.SearchKNN(ctx, res.Embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return matches, nil
}
