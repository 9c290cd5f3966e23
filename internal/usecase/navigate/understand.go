package navigate

import (
	"sort"
	"strings"
)

// synonyms expands course-platform vocabulary so that a query phrased in
// one dialect still hits materials labeled in another.
var synonyms = map[string][]string{
	"slides":     {"presentation", "lecture notes"},
	"lecture":    {"lesson", "class"},
	"assignment": {"homework", "problem set"},
	"quiz":       {"test", "assessment"},
	"reading":    {"textbook", "chapter"},
	"notes":      {"summary", "handout"},
	"video":      {"recording"},
}

var (
	definitionMarkers = []string{"what is", "what are", "define", "definition", "meaning of"}
	exampleMarkers    = []string{"example", "examples", "sample", "instance", "demo"}
	locationMarkers   = []string{"where", "find", "locate", "which module", "which week", "link to"}
)

// understand expands the query with synonyms and detects coarse intent.
func understand(query string) (expanded string, intent Intent) {
	lowered := strings.ToLower(query)

	// Expansions append in sorted key order so that the same query always
	// produces the same expanded text (and the same embedding cache key).
	var matched []string
	for word := range synonyms {
		if containsWord(lowered, word) {
			matched = append(matched, word)
		}
	}
	sort.Strings(matched)

	var extra []string
	for _, word := range matched {
		extra = append(extra, synonyms[word]...)
	}
	expanded = query
	if len(extra) > 0 {
		expanded = query + " " + strings.Join(extra, " ")
	}

	switch {
	case containsAny(lowered, locationMarkers):
		intent = IntentLocation
	case containsAny(lowered, definitionMarkers):
		intent = IntentDefinition
	case containsAny(lowered, exampleMarkers):
		intent = IntentExample
	default:
		intent = IntentGeneral
	}
	return expanded, intent
}

func containsAny(lowered string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

func containsWord(lowered, word string) bool {
	idx := 0
	for {
		i := strings.Index(lowered[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(lowered[start-1])
		afterOK := end >= len(lowered) || !isAlnum(lowered[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
