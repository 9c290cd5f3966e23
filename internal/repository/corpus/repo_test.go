package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/AazainKhan/luminate-ai-sub001/internal/db"
	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// fakeStore records calls and replays canned responses.
type fakeStore struct {
	indexExists bool
	createdDef  *db.IndexDefinition
	hsetItems   []db.HashSetItem
	kv          map[string][]byte
	getErr      error
	searchRes   *db.SearchResult
	searchErr   error
	lastQuery   *db.KNNQuery
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	f.hsetItems = append(f.hsetItems, db.HashSetItem{Key: key, Fields: fields})
	return nil
}

func (f *fakeStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	f.hsetItems = append(f.hsetItems, items...)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	if f.kv == nil {
		f.kv = map[string][]byte{}
	}
	f.kv[key] = value
	return nil
}

func (f *fakeStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	f.createdDef = def
	return nil
}

func (f *fakeStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return f.indexExists, nil
}

func (f *fakeStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	f.lastQuery = q
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchRes, nil
}

func TestEnsureIndex_Schema(t *testing.T) {
	fs := &fakeStore{}
	repo := New(fs, 1536).WithHNSW(HNSWConfig{M: 32, EFConstruct: 400})

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	def := fs.createdDef
	if def == nil {
		t.Fatal("CreateIndex not called")
	}
	if def.Name != "luminate:chunks:idx" {
		t.Errorf("index name = %q", def.Name)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "luminate:chunk:" {
		t.Errorf("prefixes = %v", def.Prefixes)
	}

	fields := map[string]db.IndexField{}
	for _, f := range def.Fields {
		fields[f.Name] = f
	}
	for _, name := range []string{"course_id", "module", "content_type", "external_id", "doc_id"} {
		if f, ok := fields[name]; !ok || f.Type != db.IndexFieldTag {
			t.Errorf("field %s: want TAG, got %+v", name, f)
		}
	}
	if f := fields["chunk_index"]; f.Type != db.IndexFieldNumeric {
		t.Errorf("chunk_index: want NUMERIC, got %+v", f)
	}
	vec := fields["vector"]
	if vec.Type != db.IndexFieldVector || vec.VectorDim != 1536 ||
		vec.VectorDistance != db.DistanceCosine || vec.VectorM != 32 || vec.VectorEFConstruct != 400 {
		t.Errorf("vector field: %+v", vec)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	fs := &fakeStore{indexExists: true}
	repo := New(fs, 1536)

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatal(err)
	}
	if fs.createdDef != nil {
		t.Error("index recreated despite existing")
	}
}

func TestUpsertChunks(t *testing.T) {
	fs := &fakeStore{}
	repo := New(fs, 2)

	chunks := []domain.Chunk{
		{DocumentID: "800668", Index: 0, Content: "chunk text", Tokens: 3,
			Meta: domain.Metadata{CourseID: "CS101", Module: "module-1", Title: "Week 3"}.Normalized()},
	}
	vectors := [][]float32{{1, 0}}

	if err := repo.UpsertChunks(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("UpsertChunks: %v", err)
	}
	if len(fs.hsetItems) != 1 {
		t.Fatalf("got %d items", len(fs.hsetItems))
	}

	item := fs.hsetItems[0]
	if item.Key != "luminate:chunk:800668:0" {
		t.Errorf("key = %q", item.Key)
	}
	if item.Fields["doc_id"] != "800668" || item.Fields["chunk_index"] != "0" {
		t.Errorf("identity fields = %v", item.Fields)
	}
	if item.Fields["content"] != "chunk text" {
		t.Errorf("content = %q", item.Fields["content"])
	}
	// optional fields absent from the source carry the sentinel
	if item.Fields["external_id"] != domain.None {
		t.Errorf("external_id = %q, want sentinel", item.Fields["external_id"])
	}
	// float32 1.0 little-endian
	if item.Fields["vector"] != "\x00\x00\x80\x3f\x00\x00\x00\x00" {
		t.Errorf("vector bytes = %q", item.Fields["vector"])
	}
}

func TestUpsertChunks_DimensionMismatch(t *testing.T) {
	repo := New(&fakeStore{}, 4)

	chunks := []domain.Chunk{{DocumentID: "d", Index: 0, Content: "x"}}
	err := repo.UpsertChunks(context.Background(), chunks, [][]float32{{1, 0}})
	if err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestUpsertChunks_CountMismatch(t *testing.T) {
	repo := New(&fakeStore{}, 2)

	err := repo.UpsertChunks(context.Background(), []domain.Chunk{{DocumentID: "d"}}, nil)
	if err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestEdges_RoundTrip(t *testing.T) {
	fs := &fakeStore{}
	repo := New(fs, 2)

	edges := []domain.Edge{
		{SourceID: "a", TargetID: "b", Relation: domain.RelationNextInModule,
			Meta: map[string]string{"target_title": "B"}},
		{SourceID: "dir:module-1", TargetID: "a", Relation: domain.RelationContains},
	}
	if err := repo.UpsertEdges(context.Background(), edges); err != nil {
		t.Fatalf("UpsertEdges: %v", err)
	}

	got, err := repo.Neighbors(context.Background(), "a")
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both edges touching a, got %d", len(got))
	}

	got, err = repo.Neighbors(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Meta["target_title"] != "B" {
		t.Errorf("edges for b = %+v", got)
	}
}

func TestNeighbors_Unknown(t *testing.T) {
	repo := New(&fakeStore{}, 2)

	got, err := repo.Neighbors(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unknown doc must not error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil edges, got %v", got)
	}
}

func TestSearchKNN(t *testing.T) {
	fs := &fakeStore{searchRes: &db.SearchResult{
		Total: 1,
		Entries: []db.SearchEntry{{
			Key:   "luminate:chunk:800668:0",
			Score: 0.88,
			Fields: map[string]string{
				"doc_id": "800668", "chunk_index": "0", "content": "text",
				"course_id": "CS101", "module": "module-1", "title": "Week 3",
				"external_id": domain.None, "url": domain.None, "content_type": "page",
			},
		}},
	}}
	repo := New(fs, 2)

	matches, err := repo.SearchKNN(context.Background(), []float32{1, 0}, 5, map[string]string{"course_id": "CS101"})
	if err != nil {
		t.Fatalf("SearchKNN: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches", len(matches))
	}

	m := matches[0]
	if m.ChunkID != "800668:0" || m.DocumentID != "800668" || m.Rank != 0 {
		t.Errorf("match identity = %+v", m)
	}
	if m.Meta.ExternalID != "" || m.Meta.URL != "" {
		t.Errorf("sentinel fields must read back empty, got %+v", m.Meta)
	}
	if m.Meta.Title != "Week 3" {
		t.Errorf("title = %q", m.Meta.Title)
	}

	q := fs.lastQuery
	if q.IndexName != "luminate:chunks:idx" || q.K != 5 || q.Tags["course_id"] != "CS101" {
		t.Errorf("query = %+v", q)
	}
}

func TestSearchKNN_StoreFailure(t *testing.T) {
	fs := &fakeStore{searchErr: errors.New("connection refused")}
	repo := New(fs, 2)

	_, err := repo.SearchKNN(context.Background(), []float32{1, 0}, 5, nil)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
