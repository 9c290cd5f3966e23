package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery rejects an empty or whitespace-only query before classification.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals the vector store is unreachable. Fatal for
	// the request, not the process.
	ErrStoreUnavailable = errors.New("vector store unavailable")
	// ErrExternalProvider signals an external content provider failure.
	// Always recoverable: callers degrade to an empty result.
	ErrExternalProvider = errors.New("external provider error")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrUnsupportedFile signals a file type with no registered extractor.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ParseError wraps a single-file extraction failure. Recoverable: the
// ingestion run skips the file and records an issue.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
