package navigate

import "github.com/AazainKhan/luminate-ai-sub001/internal/domain"

// State is the shared object threaded through the pipeline. Stages append
// their fields and never rewrite an earlier stage's output, so a completed
// state replays the whole run for tracing.
type State struct {
	Query         string
	ExpandedQuery string
	Intent        Intent

	Matches []domain.Match // raw retrieval output
	Results []domain.Match // after rerank and dedup

	External      []domain.ExternalResource
	RelatedTopics []string

	Response *Response
}

// Intent is the coarse question shape detected during query understanding.
type Intent string

const (
	IntentDefinition Intent = "definition"
	IntentExample    Intent = "example"
	IntentLocation   Intent = "location"
	IntentGeneral    Intent = "general"
)

// Result is one entry of a navigate response.
type Result struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	URL       string `json:"url,omitempty"`
	Module    string `json:"module"`
	Rationale string `json:"rationale"`
}

// Response is the formatted navigate payload.
type Response struct {
	Answer            string                    `json:"answer"`
	TopResults        []Result                  `json:"top_results"`
	RelatedTopics     []string                  `json:"related_topics"`
	ExternalResources []domain.ExternalResource `json:"external_resources"`
	QuizSuggestion    string                    `json:"quiz_suggestion,omitempty"`
}
