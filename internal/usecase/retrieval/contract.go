package retrieval

import (
	"context"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// VectorSearcher is the slice of the corpus repository this service needs.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, vector []float32, k int, filter map[string]string) ([]domain.Match, error)
}
