package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skippedElements are subtrees that never contribute body text.
var skippedElements = map[atom.Atom]struct{}{
	atom.Script:   {},
	atom.Style:    {},
	atom.Nav:      {},
	atom.Header:   {},
	atom.Footer:   {},
	atom.Aside:    {},
	atom.Noscript: {},
	atom.Iframe:   {},
}

// blockElements get a paragraph break around their text.
var blockElements = map[atom.Atom]struct{}{
	atom.P: {}, atom.Div: {}, atom.Section: {}, atom.Article: {},
	atom.H1: {}, atom.H2: {}, atom.H3: {}, atom.H4: {}, atom.H5: {}, atom.H6: {},
	atom.Li: {}, atom.Tr: {}, atom.Blockquote: {}, atom.Pre: {}, atom.Br: {},
}

var apiEndpointID = regexp.MustCompile(`/(\d+)\s*$`)

// HTML extracts visible text from an HTML export. Navigation chrome
// (nav/header/footer/aside) is dropped at the element level; textual
// boilerplate is handled later by the pattern rules.
func HTML(_ string, data []byte) (Result, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	var res Result
	var sb strings.Builder
	walkHTML(root, &sb, &res)

	res.Text = collapseBlankLines(sb.String())
	return res, nil
}

func walkHTML(n *html.Node, sb *strings.Builder, res *Result) {
	if n.Type == html.ElementNode {
		if _, skip := skippedElements[n.DataAtom]; skip {
			return
		}

		switch n.DataAtom {
		case atom.Title:
			if res.Title == "" {
				res.Title = strings.TrimSpace(textContent(n))
			}
			return
		case atom.H1:
			if res.Title == "" {
				res.Title = strings.TrimSpace(textContent(n))
			}
		case atom.Meta:
			captureMetaID(n, res)
		}

		// Platform exports carry the native object id in API endpoint hints.
		if res.StructuralID == "" {
			if v := attr(n, "data-api-endpoint"); v != "" {
				if m := apiEndpointID.FindStringSubmatch(v); m != nil {
					res.StructuralID = m[1]
				}
			}
		}
	}

	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			sb.WriteString(t)
			sb.WriteByte(' ')
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, sb, res)
	}

	if n.Type == html.ElementNode {
		if _, block := blockElements[n.DataAtom]; block {
			sb.WriteString("\n\n")
		}
	}
}

func captureMetaID(n *html.Node, res *Result) {
	if res.StructuralID != "" {
		return
	}
	name := attr(n, "name")
	if name == "identifier" || name == "page-id" {
		if v := strings.TrimSpace(attr(n, "content")); v != "" {
			res.StructuralID = v
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

var blankLines = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
