package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdImage    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdHeading  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	mdEmphasis = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	mdFence    = regexp.MustCompile("(?m)^```[^\n]*$")
)

// Markdown extracts text from a markdown file. YAML front matter is parsed
// for id/title hints and removed from the body.
func Markdown(_ string, data []byte) (Result, error) {
	body := string(data)
	var res Result

	if fm, rest, ok := splitFrontMatter(body); ok {
		var meta map[string]any
		if err := yaml.Unmarshal([]byte(fm), &meta); err == nil {
			res.Title = stringField(meta, "title")
			res.StructuralID = firstStringField(meta, "external_id", "id", "page_id")
		}
		body = rest
	}

	if res.Title == "" {
		if m := regexp.MustCompile(`(?m)^#\s+(.+)$`).FindStringSubmatch(body); m != nil {
			res.Title = strings.TrimSpace(m[1])
		}
	}

	body = mdImage.ReplaceAllString(body, "")
	body = mdLink.ReplaceAllString(body, "$1")
	body = mdHeading.ReplaceAllString(body, "")
	body = mdEmphasis.ReplaceAllString(body, "$2")
	body = mdFence.ReplaceAllString(body, "")

	res.Text = collapseBlankLines(body)
	if res.Text == "" {
		return Result{}, fmt.Errorf("markdown file has no body text")
	}
	return res, nil
}

func splitFrontMatter(s string) (frontMatter, rest string, ok bool) {
	if !strings.HasPrefix(s, "---\n") {
		return "", s, false
	}
	end := strings.Index(s[4:], "\n---")
	if end < 0 {
		return "", s, false
	}
	fm := s[4 : 4+end]
	rest = s[4+end+4:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && strings.TrimSpace(rest[:nl]) == "" {
		rest = rest[nl+1:]
	}
	return fm, rest, true
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

func firstStringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := stringField(m, k); v != "" {
			return v
		}
	}
	return ""
}
