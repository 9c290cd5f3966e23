package redis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/AazainKhan/luminate-ai-sub001/internal/db"
)

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- kv.go tests ---

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "luminate:edges:800668")).
		Return(mock.Result(mock.RedisString(`[{"source_id":"800668"}]`)))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "luminate:edges:800668")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "800668") {
		t.Errorf("unexpected value: %s", data)
	}
}

func TestSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Set(context.Background(), "k", []byte("v"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "luminate:chunk:800668:0"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "luminate:chunk:800668:0", map[string]string{"content": "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "luminate:chunk:800668:0")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"content": mock.RedisString("hello"),
			"doc_id":  mock.RedisString("800668"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "luminate:chunk:800668:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["doc_id"] != "800668" {
		t.Errorf("expected doc_id 800668, got %q", m["doc_id"])
	}
}

// --- search.go tests ---

func TestSearchKNN_CommandShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.SEARCH" || cmd[1] != "luminate:chunks:idx" {
				return false
			}
			if cmd[2] != "(@course_id:{CS101})=>[KNN 5 @vector $BLOB]" {
				return false
			}
			joined := strings.Join(cmd, " ")
			return strings.Contains(joined, "PARAMS 2 BLOB") && strings.Contains(joined, "DIALECT 2")
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "luminate:chunks:idx",
		Tags:      map[string]string{"course_id": "CS101"},
		Vector:    []float32{0.1, 0.2},
		K:         5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_ParsesEntriesAndScore(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("luminate:chunk:800668:0"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("0.25"),
				mock.RedisString("content"), mock.RedisString("week 3 slides"),
			),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "luminate:chunks:idx",
		Vector:    []float32{0.5},
		K:         1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
	e := res.Entries[0]
	if e.Key != "luminate:chunk:800668:0" {
		t.Errorf("unexpected key %q", e.Key)
	}
	if math.Abs(e.Score-0.75) > 1e-9 {
		t.Errorf("expected similarity 0.75, got %v", e.Score)
	}
	if _, ok := e.Fields["__vector_score"]; ok {
		t.Error("raw score field should be stripped")
	}
	if e.Fields["content"] != "week 3 slides" {
		t.Errorf("unexpected content %q", e.Fields["content"])
	}
}

func TestSearchKNN_ScoreClampedAtZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("luminate:chunk:x:0"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("1.9"),
			),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "luminate:chunks:idx",
		Vector:    []float32{0.5},
		K:         1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entries[0].Score != 0 {
		t.Errorf("expected clamped score 0, got %v", res.Entries[0].Score)
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "luminate:chunks:idx",
		Vector:    []float32{0.5},
		K:         1,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestBuildTagFilter_Deterministic(t *testing.T) {
	tags := map[string]string{"module": "Week 3", "course_id": "CS101"}
	want := "@course_id:{CS101} @module:{Week\\ 3}"

	for i := 0; i < 10; i++ {
		if got := buildTagFilter(tags); got != want {
			t.Fatalf("iteration %d: got %q, want %q", i, got, want)
		}
	}
}

func TestVectorToBytes_LittleEndian(t *testing.T) {
	got := vectorToBytes([]float32{1.0})
	// 1.0 as little-endian float32
	want := string([]byte{0x00, 0x00, 0x80, 0x3f})
	if got != want {
		t.Errorf("got % x, want % x", got, want)
	}
}
