package educate

import (
	"fmt"
	"strings"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// anchorFor picks the chunk that leads the synthesized explanation. The top
// document's index-0 chunk wins when it is among the candidates, even when
// a later chunk of the same document scored higher: chunk boundaries often
// start non-zero-index chunks mid-sentence, so they make poor lead-ins.
// Without an index-0 candidate the highest-similarity chunk is used.
func anchorFor(matches []domain.Match) domain.Match {
	topDoc := matches[0].DocumentID
	for _, m := range matches {
		if m.DocumentID == topDoc && m.Index == 0 {
			return m
		}
	}
	return matches[0]
}

// synthesize assembles an explanation from retrieved chunks: the anchor
// first, then chunks of other documents as related concepts unless their
// text is already contained in the anchor.
func synthesize(query string, matches []domain.Match) *Response {
	anchor := anchorFor(matches)
	used := []domain.Match{anchor}

	var related []domain.Match
	for _, m := range matches {
		if m.DocumentID == anchor.DocumentID {
			continue
		}
		if strings.Contains(anchor.Content, m.Content) {
			continue
		}
		related = append(related, m)
		used = append(used, m)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here is what the course materials say about %q:\n\n", query)
	b.WriteString(strings.TrimSpace(anchor.Content))

	if len(related) > 0 {
		b.WriteString("\n\n## Related Concepts\n")
		for _, m := range related {
			fmt.Fprintf(&b, "\n- %s: %s", sourceTitle(m), strings.TrimSpace(m.Content))
		}
	}

	b.WriteString("\n\n## Sources\n")
	sources := make([]domain.Source, 0, len(used))
	seen := map[string]struct{}{}
	for _, m := range used {
		key := m.DocumentID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		sources = append(sources, domain.Source{
			Title:  sourceTitle(m),
			Module: m.Meta.Module,
			URL:    m.Meta.URL,
		})
		fmt.Fprintf(&b, "\n- %s (%s)", sourceTitle(m), m.Meta.Module)
	}

	return &Response{
		Answer:  b.String(),
		Level:   LevelSynthesis,
		Sources: sources,
	}
}

func sourceTitle(m domain.Match) string {
	if m.Meta.Title != "" && m.Meta.Title != domain.None {
		return m.Meta.Title
	}
	return m.DocumentID
}
