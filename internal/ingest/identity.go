package ingest

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"regexp"
	"strconv"
)

// filenameID matches the first platform-native numeric id embedded in a
// filename (exports name files like "lecture-800668.html").
var filenameID = regexp.MustCompile(`\d{4,}`)

// externalID resolves a file's stable identity, trying in order:
// filename-embedded numeric id, structural id found in content, and a
// content hash fallback. It never returns empty, so every chunk derived
// from the file has a stable identity.
func externalID(path, structuralID, content string) string {
	base := filepath.Base(path)
	if m := filenameID.FindString(base); m != "" {
		return m
	}
	if structuralID != "" {
		return structuralID
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return strconv.FormatUint(h.Sum64(), 10)
}

// canonicalURL is a pure function of (course id, external id): identical
// inputs always produce an identical URL. An absent course id means an
// absent URL, never a placeholder string masquerading as one.
func canonicalURL(base, courseID, externalID, contentType string) string {
	if base == "" || courseID == "" || externalID == "" {
		return ""
	}

	section := "files"
	if contentType == "page" {
		section = "pages"
	}

	return fmt.Sprintf("%s/courses/%s/%s/%s", base, courseID, section, externalID)
}

// contentTypeFor maps a file extension to the platform content type.
func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".html", ".htm":
		return "page"
	case ".md", ".markdown":
		return "page"
	case ".pdf":
		return "file"
	case ".ipynb":
		return "notebook"
	case ".txt", ".text":
		return "file"
	default:
		return "file"
	}
}
