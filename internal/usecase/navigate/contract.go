package navigate

import (
	"context"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// Retriever embeds a query and returns ranked vector matches.
type Retriever interface {
	Query(ctx context.Context, text string, k int, filter map[string]string) ([]domain.Match, error)
}

// GraphReader walks the corpus relationship graph.
type GraphReader interface {
	Neighbors(ctx context.Context, docID string) ([]domain.Edge, error)
}

// Augmenter queries external content collaborators. Implementations own
// the best-effort semantics: they log failures and return what they have.
type Augmenter interface {
	Search(ctx context.Context, query string) []domain.ExternalResource
}
