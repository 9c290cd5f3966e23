// Package augment fans a query out to external content providers. Results
// are strictly best-effort: a provider failure or an overall timeout yields
// whatever arrived in time, never an error.
package augment

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
	"github.com/AazainKhan/luminate-ai-sub001/internal/logger"
)

// Provider is one external content collaborator.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.ExternalResource, error)
}

// Fanout queries all providers concurrently under one timeout.
type Fanout struct {
	providers []Provider
	timeout   time.Duration
}

func NewFanout(providers []Provider, timeout time.Duration) *Fanout {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Fanout{providers: providers, timeout: timeout}
}

// Search returns the merged provider results in provider registration
// order. It never returns an error: failed or slow providers contribute
// an empty slice.
func (f *Fanout) Search(ctx context.Context, query string) []domain.ExternalResource {
	if len(f.providers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	log := logger.FromContext(ctx)

	var mu sync.Mutex
	results := make(map[string][]domain.ExternalResource, len(f.providers))

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range f.providers {
		g.Go(func() error {
			res, err := p.Search(ctx, query)
			if err != nil {
				log.Warn("external provider degraded",
					zap.String("provider", p.Name()),
					zap.Error(err))
				return nil // swallowed, the stage is non-critical
			}
			mu.Lock()
			results[p.Name()] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.ExternalResource
	for _, p := range f.providers {
		merged = append(merged, results[p.Name()]...)
	}
	return merged
}
