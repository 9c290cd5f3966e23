package navigate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

const excerptLimit = 200

var assessmentKeywords = []string{"quiz", "test", "exam", "practice", "assessment", "review"}

// format renders the final response from an enriched state.
func format(st *State) *Response {
	resp := &Response{
		RelatedTopics:     st.RelatedTopics,
		ExternalResources: st.External,
	}
	if resp.RelatedTopics == nil {
		resp.RelatedTopics = []string{}
	}
	if resp.ExternalResources == nil {
		resp.ExternalResources = []domain.ExternalResource{}
	}

	for _, m := range st.Results {
		resp.TopResults = append(resp.TopResults, Result{
			Title:     m.Meta.Title,
			Excerpt:   excerpt(m.Content),
			URL:       m.Meta.URL,
			Module:    m.Meta.Module,
			Rationale: fmt.Sprintf("similarity %.2f, rank %d", m.Score, m.Rank+1),
		})
	}

	switch {
	case len(resp.TopResults) == 0:
		resp.Answer = fmt.Sprintf("No course materials matched %q. Try different keywords or browse by module.", st.Query)
	default:
		resp.Answer = fmt.Sprintf("Found %d relevant course materials for %q. The closest match is %q in %s.",
			len(resp.TopResults), st.Query, resp.TopResults[0].Title, moduleLabel(resp.TopResults[0].Module))
	}

	if wantsQuiz(st.Query) || len(resp.TopResults) >= 3 {
		resp.QuizSuggestion = "Would you like a short practice quiz on this topic?"
	}

	return resp
}

// excerpt truncates content to at most excerptLimit characters, preferring
// a word boundary and ending with an ellipsis when cut.
func excerpt(content string) string {
	runes := []rune(strings.Join(strings.Fields(content), " "))
	if len(runes) <= excerptLimit {
		return string(runes)
	}
	cut := excerptLimit - 1
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = excerptLimit - 1
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}

func wantsQuiz(query string) bool {
	lowered := strings.ToLower(query)
	for _, kw := range assessmentKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func moduleLabel(module string) string {
	if module == "" {
		return "the course"
	}
	return module
}
