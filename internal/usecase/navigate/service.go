// Package navigate answers "where is it" queries with a fixed five-stage
// pipeline over the vector corpus. Only retrieval is fatal; every other
// stage degrades to an empty value.
package navigate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
	"github.com/AazainKhan/luminate-ai-sub001/internal/logger"
)

// Pipeline stage names as they appear in agent traces.
const (
	StageQueryUnderstanding   = "query_understanding"
	StageRetrieval            = "retrieval"
	StageExternalAugmentation = "external_augmentation"
	StageContextEnrichment    = "context_enrichment"
	StageFormatting           = "formatting"
)

type Options struct {
	TopN           int
	LinkBonus      float64
	DedupThreshold float64
	Filter         map[string]string // tag filter applied to every search
}

type Service struct {
	retriever Retriever
	graph     GraphReader
	augmenter Augmenter // optional
	opts      Options
}

func New(retriever Retriever, graph GraphReader, augmenter Augmenter, opts Options) *Service {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.LinkBonus == 0 {
		opts.LinkBonus = 0.05
	}
	if opts.DedupThreshold == 0 {
		opts.DedupThreshold = 0.85
	}
	return &Service{retriever: retriever, graph: graph, augmenter: augmenter, opts: opts}
}

// Navigate runs the full pipeline. obs may be nil; when set it receives one
// event per stage transition for tracing and streaming.
func (s *Service) Navigate(ctx context.Context, query string, obs domain.TraceObserver) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidQuery)
	}
	log := logger.FromContext(ctx)
	st := &State{Query: query}

	obs.Emit(StageQueryUnderstanding, domain.StageInProgress)
	st.ExpandedQuery, st.Intent = understand(query)
	obs.Emit(StageQueryUnderstanding, domain.StageCompleted)

	obs.Emit(StageRetrieval, domain.StageInProgress)
	matches, err := s.retriever.Query(ctx, st.ExpandedQuery, s.opts.TopN, s.opts.Filter)
	if err != nil {
		obs.Emit(StageRetrieval, domain.StageFailed)
		return nil, err
	}
	st.Matches = matches
	st.Results = rerank(matches, s.opts.LinkBonus, s.opts.DedupThreshold)
	obs.Emit(StageRetrieval, domain.StageCompleted)

	obs.Emit(StageExternalAugmentation, domain.StageInProgress)
	if s.augmenter != nil {
		st.External = s.augmenter.Search(ctx, query)
	}
	obs.Emit(StageExternalAugmentation, domain.StageCompleted)

	obs.Emit(StageContextEnrichment, domain.StageInProgress)
	st.RelatedTopics = s.relatedTopics(ctx, st.Results)
	obs.Emit(StageContextEnrichment, domain.StageCompleted)

	obs.Emit(StageFormatting, domain.StageInProgress)
	st.Response = format(st)
	obs.Emit(StageFormatting, domain.StageCompleted)

	log.Debug("navigate pipeline finished",
		zap.String("intent", string(st.Intent)),
		zap.Int("matches", len(st.Matches)),
		zap.Int("results", len(st.Results)),
		zap.Int("related_topics", len(st.RelatedTopics)),
	)
	return st.Response, nil
}

// relatedTopics walks one hop from the top result's document. Graph errors
// degrade to an empty list.
func (s *Service) relatedTopics(ctx context.Context, results []domain.Match) []string {
	if len(results) == 0 || s.graph == nil {
		return nil
	}

	edges, err := s.graph.Neighbors(ctx, results[0].DocumentID)
	if err != nil {
		logger.FromContext(ctx).Warn("context enrichment degraded",
			zap.String("doc_id", results[0].DocumentID), zap.Error(err))
		return nil
	}

	seen := map[string]struct{}{}
	var topics []string
	for _, e := range edges {
		if e.Relation != domain.RelationNextInModule && e.Relation != domain.RelationPrevInModule {
			continue
		}
		// Neighbors returns inbound edges too; their target is the document
		// itself, so only outbound edges name an actual neighbor.
		if e.TargetID == results[0].DocumentID {
			continue
		}
		title := e.Meta["target_title"]
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		topics = append(topics, title)
	}
	return topics
}
