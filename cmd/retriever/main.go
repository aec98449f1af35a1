// Copyright 2025 Outfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/outfield/retriever"
	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/hybrid"
	"github.com/outfield/retriever/queryopt"
	"github.com/outfield/retriever/reindex"
	"github.com/outfield/retriever/search"
	"github.com/outfield/retriever/vector"
)

func main() {
	app := &cli.App{
		Name:  "retriever",
		Usage: "Lexical and hybrid search over short text records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a record to the store",
				ArgsUsage: "<content>",
				Action:    addCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Optional record title",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Optional record category",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Optional record tag (repeatable)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the store with the lexical pipeline",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of results",
						Value: search.DefaultMaxResults,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum result score",
						Value: search.DefaultMinScore,
					},
				),
			},
			{
				Name:      "hybrid",
				Usage:     "Search the store with merged lexical and vector results",
				ArgsUsage: "<query>",
				Action:    hybridCommand,
				Flags: append(storeFlags(),
					embeddingFlags(
						&cli.StringFlag{
							Name:  "strategy",
							Usage: "Merge strategy (weighted, rank_fusion, best_of_both)",
							Value: string(hybrid.StrategyWeighted),
						},
						&cli.Float64Flag{
							Name:  "traditional-weight",
							Usage: "Lexical score weight under the weighted strategy",
							Value: hybrid.DefaultTraditionalWeight,
						},
						&cli.Float64Flag{
							Name:  "vector-weight",
							Usage: "Vector score weight under the weighted strategy",
							Value: hybrid.DefaultVectorWeight,
						},
						&cli.Float64Flag{
							Name:  "min-combined-score",
							Usage: "Minimum merged score",
							Value: hybrid.DefaultMinCombinedScore,
						},
						&cli.DurationFlag{
							Name:  "vector-timeout",
							Usage: "Vector source timeout before degrading to lexical-only",
							Value: hybrid.DefaultVectorTimeout,
						},
					)...,
				),
			},
			{
				Name:      "optimize",
				Usage:     "Show how a query would be rewritten",
				ArgsUsage: "<query>",
				Action:    optimizeCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed all stored records",
				Action: reindexCommand,
				Flags: append(storeFlags(),
					embeddingFlags(
						&cli.IntFlag{
							Name:  "batch-size",
							Usage: "Number of records to process in each batch",
							Value: 100,
						},
						&cli.IntFlag{
							Name:  "concurrency",
							Usage: "Batches in flight at once",
							Value: 4,
						},
						&cli.IntFlag{
							Name:  "report-interval",
							Usage: "Report progress every N records",
							Value: 100,
						},
						&cli.IntFlag{
							Name:  "max-retries",
							Usage: "Maximum retry attempts for failed operations",
							Value: 3,
						},
						&cli.DurationFlag{
							Name:  "retry-delay",
							Usage: "Base delay for exponential backoff",
							Value: 1 * time.Second,
						},
					)...,
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB store directory",
			Required: true,
		},
	}
}

func embeddingFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
	return append(flags, extra...)
}

func openEngine(c *cli.Context) (*retriever.Engine, error) {
	config := vector.DefaultConfig()
	if host := c.String("embedding-host"); host != "" {
		config.Host = host
	}
	if model := c.String("embedding-model"); model != "" {
		config.Model = model
	}
	return retriever.Open(c.String("db"), retriever.WithVectorConfig(config))
}

func addCommand(c *cli.Context) error {
	content := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if content == "" {
		return fmt.Errorf("content is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	added, err := pipeline.Ingest(context.Background(), &core.Record{
		Content:  content,
		Title:    c.String("title"),
		Category: c.String("category"),
		Tags:     c.StringSlice("tag"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added record %s\n", added[0].ID)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer engine.Close()

	opts := search.DefaultOptions()
	opts.MaxResults = c.Int("max-results")
	opts.MinScore = c.Float64("min-score")

	response, err := engine.Search(context.Background(), query, opts)
	if err != nil {
		return err
	}

	printSearchResponse(response)
	return nil
}

func hybridCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer engine.Close()

	opts := hybrid.DefaultOptions()
	opts.Strategy = hybrid.Strategy(c.String("strategy"))
	opts.TraditionalWeight = c.Float64("traditional-weight")
	opts.VectorWeight = c.Float64("vector-weight")
	opts.MinCombinedScore = c.Float64("min-combined-score")
	opts.VectorTimeout = c.Duration("vector-timeout")

	response, err := engine.HybridSearch(context.Background(), query, opts)
	if err != nil {
		return err
	}

	if response.Degraded {
		fmt.Println("(vector source unavailable, lexical results only)")
	}
	fmt.Printf("Found %d hits (%s)\n", response.Count, response.SearchType)
	for i, hit := range response.Results {
		sources := make([]string, len(hit.Sources))
		for j, s := range hit.Sources {
			sources[j] = string(s)
		}
		fmt.Printf("%d: %q (%s) [%0.3f lex=%0.3f vec=%0.3f %s]\n",
			i+1, hit.Record.Content, hit.Record.ID,
			hit.CombinedScore, hit.LexicalScore, hit.VectorScore,
			strings.Join(sources, "+"))
	}
	return nil
}

func optimizeCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	optimizer, err := queryopt.New()
	if err != nil {
		return err
	}

	fmt.Printf("Quality score: %.2f\n", optimizer.QualityScore(query))

	optimization := optimizer.Optimize(query)
	fmt.Printf("Optimized: %q (confidence %.2f)\n", optimization.Query, optimization.Confidence)
	for _, technique := range optimization.Techniques {
		fmt.Printf("  - %s\n", technique)
	}

	fmt.Println("Variations:")
	for _, variation := range optimizer.Variations(query, 10) {
		fmt.Printf("  %q (%s)\n", variation.Text, variation.Technique)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer engine.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		Concurrency:    c.Int("concurrency"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Store: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := engine.NewReindexer(config, os.Stderr).Run(context.Background()); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func printSearchResponse(response *core.SearchResponse) {
	if !response.Success {
		fmt.Println("Empty query")
		return
	}
	if response.OptimizedQuery != "" {
		fmt.Printf("Query rewritten to %q\n", response.OptimizedQuery)
	}
	fmt.Printf("Found %d hits (%s)\n", response.Count, response.SearchType)
	for i, hit := range response.Results {
		fmt.Printf("%d: %q (%s) [%0.3f]\n", i+1, hit.Record.Content, hit.Record.ID, hit.Score)
	}
	if len(response.Suggestions) > 0 {
		fmt.Printf("Did you mean: %s\n", strings.Join(response.Suggestions, ", "))
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
