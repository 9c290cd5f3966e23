package classify

import (
	"context"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// FreeformClassifier is the generative fallback used when keyword scoring
// is inconclusive.
type FreeformClassifier interface {
	ClassifyFreeform(ctx context.Context, query string) (domain.Classification, error)
}
