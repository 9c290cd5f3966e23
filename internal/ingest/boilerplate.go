package ingest

import (
	"regexp"
	"strings"
)

// boilerplateRules match whole lines of source-platform navigation chrome
// that survive element-level stripping. Line-based: a matching line is
// dropped entirely.
var boilerplateRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^skip to (main )?content$`),
	regexp.MustCompile(`(?i)^(dashboard|courses|calendar|inbox|history|help|account|my media)$`),
	regexp.MustCompile(`(?i)^(log ?in|log ?out|sign ?in|sign ?out)$`),
	regexp.MustCompile(`(?i)^(previous|next)( (module|page|item))?$`),
	regexp.MustCompile(`(?i)^(home|modules|pages|files|grades|people|syllabus|quizzes|discussions|announcements)$`),
	regexp.MustCompile(`(?i)^download .+ \(\d+(\.\d+)?\s?[kmg]?b\)$`),
	regexp.MustCompile(`(?i)^this (course|page) (content is offered|was exported)`),
	regexp.MustCompile(`(?i)^loading\.{0,3}$`),
	regexp.MustCompile(`(?i)^toggle (navigation|menu|sidebar)$`),
	regexp.MustCompile(`(?i)^you('| a)re currently viewing`),
	regexp.MustCompile(`^[\s>»/|•·-]*$`), // breadcrumb separators and rules
}

var multiBlank = regexp.MustCompile(`\n{3,}`)

// stripBoilerplate removes platform navigation text line by line.
func stripBoilerplate(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, "")
			continue
		}
		if matchesBoilerplate(trimmed) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(multiBlank.ReplaceAllString(strings.Join(kept, "\n"), "\n\n"))
}

func matchesBoilerplate(line string) bool {
	for _, rule := range boilerplateRules {
		if rule.MatchString(line) {
			return true
		}
	}
	return false
}
