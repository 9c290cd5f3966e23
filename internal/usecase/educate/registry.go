package educate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// Misconception is one wrong→right correction pair.
type Misconception struct {
	Wrong string `yaml:"wrong"`
	Right string `yaml:"right"`
}

// Entry is one formula or concept with its static four-level translation.
// Content is fixed per registry version, never generated per query.
type Entry struct {
	Name           string            `yaml:"name"`
	Aliases        []string          `yaml:"aliases"`
	Intuition      string            `yaml:"intuition"`
	Statement      string            `yaml:"statement"`
	Glossary       map[string]string `yaml:"glossary"`
	Implementation string            `yaml:"implementation"`
	Misconceptions []Misconception   `yaml:"misconceptions"`
}

// Registry is the versioned formula/concept catalog, read-only after load.
type Registry struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

// LoadRegistry parses the embedded catalog.
func LoadRegistry() (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(registryYAML, &r); err != nil {
		return nil, fmt.Errorf("parse concept registry: %w", err)
	}
	for i, e := range r.Entries {
		if e.Name == "" || len(e.Aliases) == 0 {
			return nil, fmt.Errorf("concept registry entry %d: missing name or aliases", i)
		}
		// longest alias first, regardless of catalog order
		aliases := r.Entries[i].Aliases
		sort.SliceStable(aliases, func(a, b int) bool {
			return len(aliases[a]) > len(aliases[b])
		})
	}
	return &r, nil
}

// Match returns the first entry whose alias occurs in the query on word
// boundaries. Entries are checked in catalog order; LoadRegistry sorts each
// entry's aliases longest first, so "stochastic gradient descent" wins over
// "gradient descent" within an entry's own alias list.
func (r *Registry) Match(query string) (Entry, bool) {
	lowered := strings.ToLower(query)
	for _, e := range r.Entries {
		for _, alias := range e.Aliases {
			if matchesAlias(lowered, strings.ToLower(alias)) {
				return e, true
			}
		}
	}
	return Entry{}, false
}

func matchesAlias(lowered, alias string) bool {
	offset := 0
	for {
		i := strings.Index(lowered[offset:], alias)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(alias)
		if wordBoundary(lowered, start-1) && wordBoundary(lowered, end) {
			return true
		}
		offset = end
	}
}

func wordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	b := s[i]
	return !(b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9')
}
