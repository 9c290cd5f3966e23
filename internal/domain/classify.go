package domain

import "fmt"

// Mode is the top-level query-handling path. It is a closed union: only
// ModeNavigate and ModeEducate are valid.
type Mode string

const (
	// ModeNavigate routes a query to retrieval-first handling.
	ModeNavigate Mode = "navigate"
	// ModeEducate routes a query to explanation-first handling.
	ModeEducate Mode = "educate"
)

// Valid reports whether the mode is a member of the closed union.
func (m Mode) Valid() bool {
	return m == ModeNavigate || m == ModeEducate
}

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// KeywordScores is the raw keyword match breakdown behind a classification.
type KeywordScores struct {
	Navigate int `json:"navigate"`
	Educate  int `json:"educate"`
	Topic    int `json:"topic"`
}

// Classification is the outcome of classifying one query. Rationale names
// the rule that fired together with the raw scores.
type Classification struct {
	Mode       Mode          `json:"mode"`
	Confidence float64       `json:"confidence"`
	Rationale  string        `json:"rationale"`
	Scores     KeywordScores `json:"scores"`
}
