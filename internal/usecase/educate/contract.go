package educate

import (
	"context"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// Retriever embeds a query and returns ranked vector matches.
type Retriever interface {
	Query(ctx context.Context, text string, k int, filter map[string]string) ([]domain.Match, error)
}
