package domain

import "fmt"

// None is the sentinel for absent optional metadata values. The vector index
// rejects null field values, so absence is always normalized to this string
// at ingestion time.
const None = "none"

// KeyPrefix namespaces all store keys.
const KeyPrefix = "luminate:"

// Metadata describes a document's provenance within a course. Chunks inherit
// an exact copy of their parent document's metadata.
type Metadata struct {
	CourseID    string `json:"course_id"`
	Module      string `json:"module"`
	Title       string `json:"title"`
	ExternalID  string `json:"external_id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// Normalized returns a copy with every absent optional field replaced by the
// None sentinel. CourseID and ExternalID are identity fields and stay empty
// when genuinely unknown; URL is derived from them and stays empty too.
func (m Metadata) Normalized() Metadata {
	out := m
	if out.Module == "" {
		out.Module = None
	}
	if out.Title == "" {
		out.Title = None
	}
	if out.ContentType == "" {
		out.ContentType = None
	}
	return out
}

// Primitives flattens the metadata into primitive string values for indexing.
// Absent optional fields become the None sentinel, never empty or null.
func (m Metadata) Primitives() map[string]string {
	n := m.Normalized()
	p := map[string]string{
		"module":       n.Module,
		"title":        n.Title,
		"content_type": n.ContentType,
	}
	if n.CourseID != "" {
		p["course_id"] = n.CourseID
	} else {
		p["course_id"] = None
	}
	if n.ExternalID != "" {
		p["external_id"] = n.ExternalID
	} else {
		p["external_id"] = None
	}
	if n.URL != "" {
		p["url"] = n.URL
	} else {
		p["url"] = None
	}
	return p
}

// Document is one ingested source file with its extracted text and chunks.
// Immutable once produced by an ingestion run.
type Document struct {
	ID     string   `json:"id"`
	Path   string   `json:"path"`
	Text   string   `json:"-"`
	Tokens int      `json:"tokens"`
	Meta   Metadata `json:"metadata"`
	Chunks []Chunk  `json:"chunks"`
}

// Chunk is a token-bounded window of a document's text. Indices are
// contiguous from 0; chunk 0 is the document's structured lead-in and is
// privileged as a synthesis anchor.
type Chunk struct {
	DocumentID string   `json:"document_id"`
	Index      int      `json:"index"`
	Tokens     int      `json:"tokens"`
	Content    string   `json:"content"`
	Meta       Metadata `json:"metadata"`
}

// ID returns the stable chunk identity derived from document id and index.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s:%d", c.DocumentID, c.Index)
}
