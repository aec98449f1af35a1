package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/outfield/retriever"
	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/ingestion"
	"github.com/outfield/retriever/storage"
)

// seedRecords is a small corpus spanning a few categories so every search
// mode has something to chew on out of the box.
var seedRecords = []*core.Record{
	{
		Title:    "Fuzzy matching basics",
		Content:  "Fuzzy string matching tolerates typos by measuring edit distance between terms.",
		Category: "search",
		Tags:     []string{"fuzzy", "levenshtein"},
	},
	{
		Title:    "Query optimization",
		Content:  "Query optimization rewrites typos, expands abbreviations, and splits compound words before searching.",
		Category: "search",
		Tags:     []string{"optimizer", "rewriting"},
	},
	{
		Title:    "Hybrid retrieval",
		Content:  "Hybrid retrieval merges lexical scores with vector similarity for better ranking.",
		Category: "search",
		Tags:     []string{"hybrid", "vectors"},
	},
	{
		Title:    "Rank fusion",
		Content:  "Reciprocal rank fusion combines result lists by rank position rather than raw score.",
		Category: "search",
		Tags:     []string{"hybrid", "ranking"},
	},
	{
		Title:    "Database migrations",
		Content:  "Database migrations version schema changes so deployments stay reproducible.",
		Category: "infrastructure",
		Tags:     []string{"database", "migrations"},
	},
	{
		Title:    "Connection pooling",
		Content:  "Connection pooling reuses database connections to avoid handshake overhead under load.",
		Category: "infrastructure",
		Tags:     []string{"database", "performance"},
	},
	{
		Title:    "Configuration management",
		Content:  "Configuration management keeps environment specific settings out of application code.",
		Category: "infrastructure",
		Tags:     []string{"config"},
	},
	{
		Title:    "Structured logging",
		Content:  "Structured logging attaches key value pairs to log lines so they can be queried later.",
		Category: "observability",
		Tags:     []string{"logging"},
	},
	{
		Title:    "Distributed tracing",
		Content:  "Distributed tracing follows a request across service boundaries to find latency.",
		Category: "observability",
		Tags:     []string{"tracing", "latency"},
	},
	{
		Title:    "Error budgets",
		Content:  "Error budgets quantify how much unreliability a service can spend before changes freeze.",
		Category: "observability",
		Tags:     []string{"sre"},
	},
	{
		Title:    "Text embeddings",
		Content:  "Text embeddings map sentences into dense vectors where distance approximates meaning.",
		Category: "machine-learning",
		Tags:     []string{"embeddings", "vectors"},
	},
	{
		Title:    "Cosine similarity",
		Content:  "Cosine similarity compares the angle between two vectors regardless of their magnitude.",
		Category: "machine-learning",
		Tags:     []string{"vectors", "similarity"},
	},
	{
		Title:    "Tokenization",
		Content:  "Tokenization splits raw text into terms and is the first step of any indexing pipeline.",
		Category: "machine-learning",
		Tags:     []string{"nlp", "indexing"},
	},
	{
		Title:    "Stop word removal",
		Content:  "Stop word removal drops very common words that carry little retrieval signal.",
		Category: "machine-learning",
		Tags:     []string{"nlp"},
	},
	{
		Title:    "Inverted indexes",
		Content:  "An inverted index maps each term to the documents containing it for fast lookup.",
		Category: "search",
		Tags:     []string{"indexing"},
	},
	{
		Title:    "Caching strategies",
		Content:  "Caching strategies trade freshness for latency with policies like LRU and TTL eviction.",
		Category: "infrastructure",
		Tags:     []string{"cache", "performance"},
	},
	{
		Title:    "Worker pools",
		Content:  "Worker pools bound concurrency by reusing a fixed set of goroutines for queued jobs.",
		Category: "infrastructure",
		Tags:     []string{"concurrency"},
	},
	{
		Title:    "Exponential backoff",
		Content:  "Exponential backoff spaces out retries so a struggling dependency can recover.",
		Category: "infrastructure",
		Tags:     []string{"retries", "resilience"},
	},
	{
		Title:    "Graceful degradation",
		Content:  "Graceful degradation serves partial results when an optional dependency is unavailable.",
		Category: "infrastructure",
		Tags:     []string{"resilience"},
	},
	{
		Title:    "Spell correction",
		Content:  "Spell correction suggests likely intended words when a query returns nothing.",
		Category: "search",
		Tags:     []string{"fuzzy", "suggestions"},
	},
}

var (
	dbPath       = flag.String("db", "./retriever_db", "path to the store directory")
	seedFileName = flag.String("src", "", "file of seed data, one record per line")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over records built from lines in a file.
func linesFromFile(filename string) (iter.Seq[*core.Record], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(*core.Record) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(&core.Record{Content: scanner.Text()}) {
				return
			}
		}
	}, nil
}

// recordsFromSlice returns an iterator over a slice of records.
func recordsFromSlice(records []*core.Record) iter.Seq[*core.Record] {
	return func(yield func(*core.Record) bool) {
		for _, record := range records {
			if !yield(record) {
				return
			}
		}
	}
}

// ingestBatched reads from a source iterator and ingests records in batches.
// Records whose content is already stored are skipped rather than treated
// as failures, so reseeding an existing store is safe.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[*core.Record], batchSize int) error {
	batch := make([]*core.Record, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := pipeline.Ingest(ctx, batch...)
		if errors.Is(err, storage.ErrDuplicateKey) {
			slog.Info("skipping batch with already seeded records", "size", len(batch))
			err = nil
		}
		batch = batch[:0]
		return err
	}

	for record := range source {
		batch = append(batch, record)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

func main() {
	engine, err := retriever.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	var source iter.Seq[*core.Record]
	if *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = recordsFromSlice(seedRecords)
	}

	if err := ingestBatched(ctx, pipeline, source, 5); err != nil {
		panic(err)
	}
}
