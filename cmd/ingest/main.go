// Command ingest runs the offline ingestion batch: it walks a course export
// directory, produces Document/Chunk/Edge JSON artifacts, and optionally
// embeds and upserts everything straight into the vector store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/AazainKhan/luminate-ai-sub001/internal/config"
	dbRedis "github.com/AazainKhan/luminate-ai-sub001/internal/db/redis"
	"github.com/AazainKhan/luminate-ai-sub001/internal/ingest"
	logpkg "github.com/AazainKhan/luminate-ai-sub001/internal/logger"
	"github.com/AazainKhan/luminate-ai-sub001/internal/metrics"
	"github.com/AazainKhan/luminate-ai-sub001/internal/repository/corpus"
	openaiTransport "github.com/AazainKhan/luminate-ai-sub001/internal/transport/openai"
	"github.com/AazainKhan/luminate-ai-sub001/internal/version"
)

func main() {
	var (
		courseID     = flag.String("course", "", "course id used in canonical URLs (required)")
		src          = flag.String("src", "", "root directory of the course export (required)")
		manifestPath = flag.String("manifest", "", "optional hierarchy manifest (yaml)")
		outDir       = flag.String("out", "ingest-out", "output directory for JSON artifacts")
		upsert       = flag.Bool("upsert", false, "embed chunks and upsert into the vector store")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fatalf("failed to load config: %v", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if *courseID == "" || *src == "" {
		flag.Usage()
		fatalf("-course and -src are required")
	}

	logger.Info("Starting ingestion run",
		zap.String("version", version.Version),
		zap.String("course", *courseID),
		zap.String("src", *src),
		zap.Bool("upsert", *upsert),
	)

	metrics.RegisterCoreMetrics()

	var manifest *ingest.Manifest
	if *manifestPath != "" {
		manifest, err = ingest.LoadManifest(*manifestPath)
		if err != nil {
			logger.Fatal("Failed to load manifest", zap.Error(err))
		}
	}

	pipeline := ingest.New(ingest.Config{
		CourseID: *courseID,
		URLBase:  cfg.Course.URLBase,
		Chunker: ingest.Chunker{
			Target: cfg.Ingest.ChunkTargetTokens,
			Min:    cfg.Ingest.ChunkMinTokens,
			Max:    cfg.Ingest.ChunkMaxTokens,
		},
		Manifest:    manifest,
		Concurrency: cfg.Ingest.Concurrency,
		Logger:      logger,
	})

	ctx := context.Background()
	result, err := pipeline.Run(ctx, *src)
	if err != nil {
		logger.Fatal("Ingestion run failed", zap.Error(err))
	}

	if err := writeArtifacts(*outDir, result); err != nil {
		logger.Fatal("Failed to write artifacts", zap.Error(err))
	}
	logger.Info("Artifacts written", zap.String("dir", *outDir))

	if *upsert {
		if err := upsertAll(ctx, cfg, result, logger); err != nil {
			logger.Fatal("Upsert failed", zap.Error(err))
		}
		logger.Info("Corpus upserted",
			zap.Int("documents", result.Summary.Documents),
			zap.Int("chunks", result.Summary.Chunks),
		)
	}
}

// writeArtifacts emits one JSON record per document plus the edge array and
// the run summary.
func writeArtifacts(dir string, result *ingest.Result) error {
	docsDir := filepath.Join(dir, "documents")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return err
	}

	for _, doc := range result.Documents {
		if err := writeJSONFile(filepath.Join(docsDir, doc.ID+".json"), doc); err != nil {
			return fmt.Errorf("document %s: %w", doc.ID, err)
		}
	}
	if err := writeJSONFile(filepath.Join(dir, "edges.json"), result.Edges); err != nil {
		return fmt.Errorf("edges: %w", err)
	}
	if err := writeJSONFile(filepath.Join(dir, "summary.json"), result.Summary); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// upsertAll embeds every chunk and writes chunks and edges to the store.
func upsertAll(ctx context.Context, cfg config.Config, result *ingest.Result, logger *zap.Logger) error {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}

	embedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	repo := corpus.New(store, cfg.Embedding.Dimensions).WithHNSW(corpus.HNSWConfig{
		M:           cfg.Retrieval.HNSWM,
		EFConstruct: cfg.Retrieval.HNSWEFConstr,
	})
	if err := repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	for _, doc := range result.Documents {
		vectors := make([][]float32, len(doc.Chunks))
		for i, chunk := range doc.Chunks {
			res, err := embedder.Embed(ctx, chunk.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", chunk.ID(), err)
			}
			vectors[i] = res.Embedding
		}
		if err := repo.UpsertChunks(ctx, doc.Chunks, vectors); err != nil {
			return fmt.Errorf("upsert document %s: %w", doc.ID, err)
		}
		logger.Debug("document upserted",
			zap.String("doc_id", doc.ID),
			zap.Int("chunks", len(doc.Chunks)),
		)
	}

	if err := repo.UpsertEdges(ctx, result.Edges); err != nil {
		return fmt.Errorf("upsert edges: %w", err)
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
