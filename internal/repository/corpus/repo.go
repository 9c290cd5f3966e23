// Package corpus adapts the db layer into the chunk/edge vector store used
// by ingestion (writes) and the query workflows (reads).
package corpus

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AazainKhan/luminate-ai-sub001/internal/db"
	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

const (
	chunkKeyPrefix = domain.KeyPrefix + "chunk:"
	edgeKeyPrefix  = domain.KeyPrefix + "edges:"
	indexName      = domain.KeyPrefix + "chunks:idx"
)

// store is the consumer interface for corpus operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig tunes the vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo is the vector store adapter. All metadata values written through it
// are primitive strings; absent optional fields carry the domain.None
// sentinel, never an empty value.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a corpus repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim}
}

// WithHNSW overrides the HNSW build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the chunk FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(indexName).
		Prefix(chunkKeyPrefix).
		Tag("course_id").
		Tag("module").
		Tag("content_type").
		Tag("external_id").
		Tag("doc_id").
		Numeric("chunk_index").
		VectorHNSW("vector", r.vectorDim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// UpsertChunks writes chunks and their vectors. Rerunning ingestion
// overwrites: chunk keys derive purely from document id and index.
func (r *Repo) UpsertChunks(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	items := make([]db.HashSetItem, 0, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != r.vectorDim {
			return fmt.Errorf("chunk %s: vector dim %d, want %d", c.ID(), len(vectors[i]), r.vectorDim)
		}
		fields := c.Meta.Primitives()
		fields["doc_id"] = c.DocumentID
		fields["chunk_index"] = strconv.Itoa(c.Index)
		fields["tokens"] = strconv.Itoa(c.Tokens)
		fields["content"] = c.Content
		fields["vector"] = encodeVector(vectors[i])

		items = append(items, db.HashSetItem{Key: chunkKeyPrefix + c.ID(), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}
	return nil
}

// UpsertEdges stores the relationship edges touching each document, keyed by
// document id, for the one-hop walks done at query time.
func (r *Repo) UpsertEdges(ctx context.Context, edges []domain.Edge) error {
	byDoc := make(map[string][]domain.Edge)
	for _, e := range edges {
		byDoc[e.SourceID] = append(byDoc[e.SourceID], e)
		if e.TargetID != e.SourceID {
			byDoc[e.TargetID] = append(byDoc[e.TargetID], e)
		}
	}

	for docID, docEdges := range byDoc {
		data, err := json.Marshal(docEdges)
		if err != nil {
			return fmt.Errorf("marshal edges for %s: %w", docID, err)
		}
		if err := r.store.Set(ctx, edgeKeyPrefix+docID, data); err != nil {
			return fmt.Errorf("store edges for %s: %w", docID, err)
		}
	}
	return nil
}

// Neighbors returns the edges touching one document. A document with no
// stored edges yields an empty slice, not an error.
func (r *Repo) Neighbors(ctx context.Context, docID string) ([]domain.Edge, error) {
	data, err := r.store.Get(ctx, edgeKeyPrefix+docID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get edges for %s: %w", docID, err)
	}

	var edges []domain.Edge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("decode edges for %s: %w", docID, err)
	}
	return edges, nil
}

// SearchKNN runs a similarity query and converts hits into domain matches.
// A store failure surfaces as domain.ErrStoreUnavailable: fatal for the
// request, not the process.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, k int, filter map[string]string,
) ([]domain.Match, error) {
	q := &db.KNNQuery{
		IndexName: indexName,
		Tags:      filter,
		Vector:    vector,
		K:         k,
		ReturnFields: []string{
			"content", "doc_id", "chunk_index", "__vector_score",
			"course_id", "module", "title", "external_id", "url", "content_type",
		},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	matches := make([]domain.Match, 0, len(sr.Entries))
	for rank, entry := range sr.Entries {
		matches = append(matches, entryToMatch(entry, rank))
	}
	return matches, nil
}

func entryToMatch(entry db.SearchEntry, rank int) domain.Match {
	idx, _ := strconv.Atoi(entry.Fields["chunk_index"])
	return domain.Match{
		ChunkID:    strings.TrimPrefix(entry.Key, chunkKeyPrefix),
		DocumentID: entry.Fields["doc_id"],
		Index:      idx,
		Content:    entry.Fields["content"],
		Score:      entry.Score,
		Rank:       rank,
		Meta: domain.Metadata{
			CourseID:    sentinelToEmpty(entry.Fields["course_id"]),
			Module:      entry.Fields["module"],
			Title:       entry.Fields["title"],
			ExternalID:  sentinelToEmpty(entry.Fields["external_id"]),
			URL:         sentinelToEmpty(entry.Fields["url"]),
			ContentType: entry.Fields["content_type"],
		},
	}
}

// sentinelToEmpty undoes the None normalization for identity fields whose
// absence is meaningful at query time (linkability checks).
func sentinelToEmpty(v string) string {
	if v == domain.None {
		return ""
	}
	return v
}

func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
