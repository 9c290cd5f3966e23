package navigate

import (
	"sort"
	"strings"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// rerank orders matches by similarity plus a bonus for chunks that carry a
// platform external id, then drops near-duplicates. Linkable content ranks
// ahead of orphaned text at equal similarity because the response can point
// the user at it.
func rerank(matches []domain.Match, linkBonus, dedupThreshold float64) []domain.Match {
	scored := make([]domain.Match, len(matches))
	copy(scored, matches)

	for i := range scored {
		if scored[i].Meta.ExternalID != "" {
			scored[i].Score += linkBonus
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	var out []domain.Match
	for _, m := range scored {
		if isDuplicate(m, out, dedupThreshold) {
			continue
		}
		m.Rank = len(out)
		out = append(out, m)
	}
	return out
}

func isDuplicate(candidate domain.Match, accepted []domain.Match, threshold float64) bool {
	ct := trigrams(candidate.Content)
	for _, a := range accepted {
		if jaccard(ct, trigrams(a.Content)) > threshold {
			return true
		}
	}
	return false
}

// trigrams builds the word-trigram set of a text, lowercased.
func trigrams(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{})
	if len(words) < 3 {
		if len(words) > 0 {
			set[strings.Join(words, " ")] = struct{}{}
		}
		return set
	}
	for i := 0; i+3 <= len(words); i++ {
		set[strings.Join(words[i:i+3], " ")] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
