// Package classify decides whether a query wants source navigation or
// conceptual tutoring. The keyword ladder is deterministic; only queries
// it cannot place reach the generative fallback.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
	"github.com/AazainKhan/luminate-ai-sub001/internal/logger"
	"github.com/AazainKhan/luminate-ai-sub001/internal/metrics"
)

type Service struct {
	fallback FreeformClassifier // optional
}

func New(fallback FreeformClassifier) *Service {
	return &Service{fallback: fallback}
}

// Classify resolves the query mode. Rules are tried in priority order and
// the first match wins; context is currently advisory only.
func (s *Service) Classify(ctx context.Context, query, conversationContext string) (domain.Classification, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Classification{}, fmt.Errorf("%w: empty query", domain.ErrInvalidQuery)
	}

	scores := score(query)

	switch {
	case scores.Navigate >= 2:
		return resolved(domain.ModeNavigate, 0.9, "navigate_keywords",
			fmt.Sprintf("navigate_score=%d >= 2", scores.Navigate), scores), nil

	case scores.Educate >= 2:
		return resolved(domain.ModeEducate, 0.9, "educate_keywords",
			fmt.Sprintf("educate_score=%d >= 2", scores.Educate), scores), nil

	case scores.Topic > 0 && scores.Educate > 0:
		return resolved(domain.ModeEducate, 0.95, "topic_educate",
			fmt.Sprintf("topic match with educate_score=%d", scores.Educate), scores), nil

	case scores.Topic > 0 && scores.Navigate > 0:
		return resolved(domain.ModeNavigate, 0.9, "topic_navigate",
			fmt.Sprintf("topic match with navigate_score=%d", scores.Navigate), scores), nil
	}

	if s.fallback != nil {
		c, err := s.fallback.ClassifyFreeform(ctx, query)
		if err == nil && c.Mode.Valid() {
			c.Scores = scores
			metrics.ClassifierRuleTotal.WithLabelValues("freeform").Inc()
			return c, nil
		}
		if err != nil {
			logger.FromContext(ctx).Warn("freeform classification failed, defaulting to navigate",
				zap.Error(err))
		}
	}

	// Ambiguous is not an error. Navigation is the safe default: retrieval
	// never mutates anything.
	return resolved(domain.ModeNavigate, 0.5, "default_navigate",
		"ambiguous query, defaulting to navigate", scores), nil
}

func resolved(mode domain.Mode, confidence float64, rule, rationale string, scores domain.KeywordScores) domain.Classification {
	metrics.ClassifierRuleTotal.WithLabelValues(rule).Inc()
	return domain.Classification{
		Mode:       mode,
		Confidence: confidence,
		Rationale:  rationale,
		Scores:     scores,
	}
}
