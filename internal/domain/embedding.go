package domain

import "context"

// EmbeddingResult carries a vector and the provider token usage behind it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is optionally implemented by embedders that can probe their
// provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
