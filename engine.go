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

// Package retriever is an in-process text-retrieval engine. It ranks
// short records against free-text queries, falling back from exact to
// fuzzy matching, retrying rewritten queries, and optionally blending
// in vector similarity from an embedding service.
package retriever

import (
	"context"
	"io"
	"log/slog"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/hybrid"
	"github.com/outfield/retriever/ingestion"
	"github.com/outfield/retriever/queryopt"
	"github.com/outfield/retriever/reindex"
	"github.com/outfield/retriever/search"
	"github.com/outfield/retriever/storage"
	"github.com/outfield/retriever/storage/badger"
	"github.com/outfield/retriever/vector"
	"github.com/outfield/retriever/vector/openai"
)

// Engine owns the record store and wires the optimizer, the lexical
// orchestrator and the hybrid merger together. It is safe for
// concurrent searches; Close releases the store.
type Engine struct {
	backend      *badger.Backend
	records      storage.RecordRepository
	embedder     vector.Embedder
	optimizer    *queryopt.Optimizer
	orchestrator *search.Orchestrator
	merger       *hybrid.Merger
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	vectorConfig *vector.Config
	embedder     vector.Embedder
	monitor      search.Monitor
	logger       *slog.Logger
	mergerOpts   []hybrid.Option
}

// WithVectorConfig points the default embedder at a specific
// OpenAI-compatible embedding service.
func WithVectorConfig(config *vector.Config) EngineOption {
	return func(o *engineOptions) {
		o.vectorConfig = config
	}
}

// WithEmbedder replaces the embedding service client entirely.
// Takes precedence over WithVectorConfig.
func WithEmbedder(embedder vector.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithMonitor sets the analytics sink receiving one event per search.
func WithMonitor(monitor search.Monitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithHybridOptions forwards extra options, such as a response cache,
// to the hybrid merger.
func WithHybridOptions(opts ...hybrid.Option) EngineOption {
	return func(o *engineOptions) {
		o.mergerOpts = append(o.mergerOpts, opts...)
	}
}

// Open creates an Engine over a BadgerDB store at filePath. An empty
// path opens an in-memory store, which is what tests use.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		vectorConfig: vector.DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.monitor == nil {
		options.monitor = search.NopMonitor{}
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}
	records := badger.NewRecordRepository(backend)

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.vectorConfig)
		if err != nil {
			records.Close()
			backend.Close()
			return nil, err
		}
	}

	optimizer, err := queryopt.New()
	if err != nil {
		records.Close()
		backend.Close()
		return nil, err
	}

	orchestrator, err := search.NewOrchestrator(optimizer,
		search.WithLogger(options.logger),
		search.WithMonitor(options.monitor))
	if err != nil {
		records.Close()
		backend.Close()
		return nil, err
	}

	source, err := vector.NewStoreSource(embedder, records)
	if err != nil {
		records.Close()
		backend.Close()
		return nil, err
	}

	mergerOpts := append([]hybrid.Option{
		hybrid.WithLogger(options.logger),
		hybrid.WithMonitor(options.monitor),
	}, options.mergerOpts...)
	merger, err := hybrid.NewMerger(records, orchestrator, source, mergerOpts...)
	if err != nil {
		records.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:      backend,
		records:      records,
		embedder:     embedder,
		optimizer:    optimizer,
		orchestrator: orchestrator,
		merger:       merger,
		logger:       options.logger,
	}, nil
}

// Close releases the record store.
func (e *Engine) Close() error {
	if err := e.records.Close(); err != nil {
		e.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Records exposes the underlying record repository.
func (e *Engine) Records() storage.RecordRepository {
	return e.records
}

// Optimizer exposes the query optimizer, e.g. for inspecting how a
// query would be rewritten.
func (e *Engine) Optimizer() *queryopt.Optimizer {
	return e.optimizer
}

// Search runs the lexical pipeline over every stored record.
func (e *Engine) Search(ctx context.Context, query string, opts search.Options) (*core.SearchResponse, error) {
	records, err := e.records.AllRecords(ctx)
	if err != nil {
		return nil, err
	}
	return e.orchestrator.Search(ctx, query, records, opts)
}

// HybridSearch runs the lexical pipeline and the vector source
// concurrently and merges their results.
func (e *Engine) HybridSearch(ctx context.Context, query string, opts hybrid.Options) (*core.HybridResponse, error) {
	return e.merger.Search(ctx, query, opts)
}

// NewPipeline creates an ingestion pipeline over the engine's store
// and embedder. The caller owns the pipeline and must Release it.
func (e *Engine) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.records, e.embedder, opts...)
}

// NewReindexer creates a reindexer over the engine's store and
// embedder, reporting progress to the given writer.
func (e *Engine) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(e.records, e.embedder, config, progress)
}
