// Package educate answers "explain it to me" queries. Known formulas and
// concepts get a fixed four-level translation from a versioned registry;
// everything else is synthesized from retrieved course chunks.
package educate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
	"github.com/AazainKhan/luminate-ai-sub001/internal/logger"
)

// Explanation depth levels reported in the response.
const (
	LevelFormula   = "formula"
	LevelSynthesis = "synthesis"
	LevelNone      = "none"
)

// Pipeline stage names as they appear in agent traces.
const (
	StageConceptDetection = "concept_detection"
	StageRetrieval        = "retrieval"
	StageSynthesis        = "synthesis"
	StageFormatting       = "formatting"
)

// Response is the educate payload.
type Response struct {
	Answer         string          `json:"answer"`
	Level          string          `json:"level"`
	Sources        []domain.Source `json:"sources,omitempty"`
	QuizSuggestion string          `json:"quiz_suggestion,omitempty"`
}

type Options struct {
	TopK   int
	Filter map[string]string
}

type Service struct {
	registry  *Registry
	retriever Retriever
	opts      Options
}

func New(registry *Registry, retriever Retriever, opts Options) *Service {
	if opts.TopK < 10 {
		opts.TopK = 10
	}
	return &Service{registry: registry, retriever: retriever, opts: opts}
}

// Educate resolves the query through the registry first and synthesis
// second. Zero retrieved candidates produce an explicit no-information
// response, never invented content.
func (s *Service) Educate(ctx context.Context, query string, obs domain.TraceObserver) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidQuery)
	}

	obs.Emit(StageConceptDetection, domain.StageInProgress)
	entry, ok := s.registry.Match(query)
	obs.Emit(StageConceptDetection, domain.StageCompleted)

	if ok {
		obs.Emit(StageFormatting, domain.StageInProgress)
		resp := formatEntry(entry)
		if wantsQuiz(query) {
			resp.QuizSuggestion = fmt.Sprintf("Want a quick practice question on %s?", entry.Name)
		}
		obs.Emit(StageFormatting, domain.StageCompleted)
		return resp, nil
	}

	obs.Emit(StageRetrieval, domain.StageInProgress)
	matches, err := s.retriever.Query(ctx, query, s.opts.TopK, s.opts.Filter)
	if err != nil {
		obs.Emit(StageRetrieval, domain.StageFailed)
		return nil, err
	}
	obs.Emit(StageRetrieval, domain.StageCompleted)

	obs.Emit(StageSynthesis, domain.StageInProgress)
	if len(matches) == 0 {
		obs.Emit(StageSynthesis, domain.StageCompleted)
		logger.FromContext(ctx).Info("no candidates for educate query", zap.String("query", query))
		return noInformation(query), nil
	}
	resp := synthesize(query, matches)
	obs.Emit(StageSynthesis, domain.StageCompleted)

	obs.Emit(StageFormatting, domain.StageInProgress)
	if wantsQuiz(query) {
		resp.QuizSuggestion = "Would you like a short practice quiz on this topic?"
	}
	obs.Emit(StageFormatting, domain.StageCompleted)
	return resp, nil
}

// assessmentKeywords matches the navigate trigger so both answer modes offer
// a quiz under the same conditions.
var assessmentKeywords = []string{"quiz", "test", "exam", "practice", "assessment", "review"}

func wantsQuiz(query string) bool {
	lowered := strings.ToLower(query)
	for _, kw := range assessmentKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func noInformation(query string) *Response {
	return &Response{
		Answer: fmt.Sprintf("No information available in the course materials for %q.", query),
		Level:  LevelNone,
	}
}

// formatEntry renders the four fixed sections of a registry match.
func formatEntry(e Entry) *Response {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", e.Name)

	b.WriteString("## Intuition\n")
	b.WriteString(strings.TrimSpace(e.Intuition))

	b.WriteString("\n\n## Formal Statement\n")
	b.WriteString(strings.TrimSpace(e.Statement))
	if len(e.Glossary) > 0 {
		b.WriteString("\n\nwhere:\n")
		symbols := make([]string, 0, len(e.Glossary))
		for sym := range e.Glossary {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)
		for _, sym := range symbols {
			fmt.Fprintf(&b, "- %s: %s\n", sym, e.Glossary[sym])
		}
	}

	b.WriteString("\n## Reference Implementation\n```go\n")
	b.WriteString(strings.TrimRight(e.Implementation, "\n"))
	b.WriteString("\n```\n")

	b.WriteString("\n## Common Misconceptions\n")
	for _, m := range e.Misconceptions {
		fmt.Fprintf(&b, "- Wrong: %s\n  Right: %s\n", strings.TrimSpace(m.Wrong), strings.TrimSpace(m.Right))
	}

	return &Response{Answer: b.String(), Level: LevelFormula}
}
