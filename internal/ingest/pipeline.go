// Package ingest turns a directory tree of heterogeneous course exports into
// documents, chunks, and a relationship graph. Runs are idempotent: every
// derived value (external id, URL, chunk id) is a pure function of file
// content and path, never of run history.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
	"github.com/AazainKhan/luminate-ai-sub001/internal/ingest/extractor"
	"github.com/AazainKhan/luminate-ai-sub001/internal/metrics"
)

// Config holds one pipeline's settings.
type Config struct {
	CourseID    string
	URLBase     string
	Registry    *extractor.Registry
	Chunker     Chunker
	Manifest    *Manifest // optional
	Concurrency int
	Logger      *zap.Logger
}

// Pipeline is the ingestion batch job.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline, filling zero-value config fields with defaults.
func New(cfg Config) *Pipeline {
	if cfg.Registry == nil {
		cfg.Registry = extractor.Default()
	}
	if cfg.Chunker == (Chunker{}) {
		cfg.Chunker = DefaultChunker()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg}
}

// Result is the complete output of one ingestion run.
type Result struct {
	Documents  []domain.Document
	Edges      []domain.Edge
	Containers []string // folder container ids referenced by CONTAINS edges
	Summary    Summary
}

// document pairs a produced domain document with walk context needed for
// edge construction.
type document struct {
	doc    domain.Document
	relDir string
}

// Run walks root and processes every supported file. File-level extraction
// runs in parallel with no shared mutable state; a broken or unsupported
// file becomes an issue entry, never an aborted run.
func (p *Pipeline) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	paths, err := collectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	type slot struct {
		doc   *document
		issue *Issue
	}
	slots := make([]slot, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, issue := p.processFile(root, rel)
			slots[i] = slot{doc: doc, issue: issue}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingestion interrupted: %w", err)
	}

	var docs []document
	var issues []Issue
	for _, s := range slots {
		if s.issue != nil {
			issues = append(issues, *s.issue)
			metrics.IngestFilesTotal.WithLabelValues("skipped").Inc()
			continue
		}
		if s.doc != nil {
			docs = append(docs, *s.doc)
			metrics.IngestFilesTotal.WithLabelValues("ok").Inc()
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].doc.Path < docs[j].doc.Path })
	docs, dupIssues := dropDuplicateIDs(docs)
	issues = append(issues, dupIssues...)

	edges, containers := buildEdges(docs)

	res := &Result{
		Edges:      edges,
		Containers: containers,
		Summary: Summary{
			RunID:    uuid.NewString(),
			CourseID: p.cfg.CourseID,
			Files:    len(paths),
			Skipped:  len(issues),
			ByType:   map[string]int{},
			ByModule: map[string]int{},
			Issues:   issues,
		},
	}

	for _, d := range docs {
		res.Documents = append(res.Documents, d.doc)
		res.Summary.Documents++
		res.Summary.Chunks += len(d.doc.Chunks)
		res.Summary.Tokens += d.doc.Tokens
		res.Summary.ByType[d.doc.Meta.ContentType]++
		res.Summary.ByModule[d.doc.Meta.Module]++
		metrics.IngestChunksTotal.Add(float64(len(d.doc.Chunks)))
	}
	res.Summary.ModuleOrder = moduleOrder(p.cfg.Manifest, res.Summary.ByModule)
	res.Summary.DurationMS = time.Since(start).Milliseconds()

	p.cfg.Logger.Info("ingestion run finished",
		zap.String("run_id", res.Summary.RunID),
		zap.Int("files", res.Summary.Files),
		zap.Int("documents", res.Summary.Documents),
		zap.Int("chunks", res.Summary.Chunks),
		zap.Int("skipped", res.Summary.Skipped),
	)

	return res, nil
}

// processFile runs the per-file stages: dispatch, extract, strip, identify,
// chunk. Pure with respect to other files.
func (p *Pipeline) processFile(root, rel string) (*document, *Issue) {
	full := filepath.Join(root, rel)

	fn, ok := p.cfg.Registry.Lookup(rel)
	if !ok {
		return nil, &Issue{Path: rel, Stage: "dispatch", Reason: domain.ErrUnsupportedFile.Error()}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &Issue{Path: rel, Stage: "read", Reason: err.Error()}
	}

	extracted, err := fn(rel, data)
	if err != nil {
		perr := &domain.ParseError{Path: rel, Err: err}
		p.cfg.Logger.Warn("file skipped", zap.String("path", rel), zap.Error(perr))
		return nil, &Issue{Path: rel, Stage: "extract", Reason: err.Error()}
	}

	text := stripBoilerplate(extracted.Text)
	if text == "" {
		return nil, &Issue{Path: rel, Stage: "extract", Reason: "no content after boilerplate removal"}
	}

	extID := externalID(rel, extracted.StructuralID, text)
	ctype := contentTypeFor(rel)
	relDir := filepath.Dir(rel)
	modName, _ := p.cfg.Manifest.moduleFor(relDir)

	title := extracted.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	}

	meta := domain.Metadata{
		CourseID:    p.cfg.CourseID,
		Module:      modName,
		Title:       title,
		ExternalID:  extID,
		URL:         canonicalURL(p.cfg.URLBase, p.cfg.CourseID, extID, ctype),
		ContentType: ctype,
	}.Normalized()

	windows := p.cfg.Chunker.Split(text)
	if len(windows) == 0 {
		return nil, &Issue{Path: rel, Stage: "chunk", Reason: "no chunkable content"}
	}

	doc := domain.Document{
		ID:     extID,
		Path:   rel,
		Text:   text,
		Tokens: EstimateTokens(text),
		Meta:   meta,
	}
	for i, w := range windows {
		doc.Chunks = append(doc.Chunks, domain.Chunk{
			DocumentID: doc.ID,
			Index:      i,
			Tokens:     w.tokens,
			Content:    w.content,
			Meta:       meta, // exact copy of the parent document's metadata
		})
	}

	return &document{doc: doc, relDir: relDir}, nil
}

// dropDuplicateIDs keeps the first document (by path order) per external id;
// later colliders are recorded as issues.
func dropDuplicateIDs(docs []document) ([]document, []Issue) {
	seen := make(map[string]string, len(docs))
	kept := docs[:0]
	var issues []Issue

	for _, d := range docs {
		if firstPath, dup := seen[d.doc.ID]; dup {
			issues = append(issues, Issue{
				Path:   d.doc.Path,
				Stage:  "identity",
				Reason: fmt.Sprintf("external id %s already used by %s", d.doc.ID, firstPath),
			})
			continue
		}
		seen[d.doc.ID] = d.doc.Path
		kept = append(kept, d)
	}
	return kept, issues
}

// collectFiles lists regular files under root (relative paths), skipping
// dotfiles and dot-directories.
func collectFiles(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
