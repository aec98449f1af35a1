package ingestion

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/storage"
	"github.com/outfield/retriever/vector"
)

// Pipeline validates and persists records, then enriches them with
// embedding vectors on a worker pool. Enrichment errors are logged and
// never fail the ingestion call.
type Pipeline struct {
	repository    storage.RecordRepository
	embeddingPool *ants.Pool
	embeddingProc processor
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for embedding generation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.RecordRepository, embedder vector.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:    repository,
		embeddingPool: pool,
		logger:        slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the processor after options so it sees the final config.
	proc, err := newEmbeddingProcessor(repository, embedder, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = proc

	return p, nil
}

// Ingest validates and stores the given records, then submits them for
// asynchronous embedding. Records without an ID come back with a
// deterministic content-based one. The returned slice has IDs and
// timestamps populated; the Vector field fills in once the embedding
// job completes.
func (p *Pipeline) Ingest(ctx context.Context, records ...*core.Record) ([]*core.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	for _, record := range records {
		if err := core.ValidateRecord(record); err != nil {
			return nil, err
		}
	}

	added, err := p.repository.AddRecords(ctx, records...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, record := range added {
		ids[i] = record.ID
	}

	if err := p.embeddingPool.Submit(func() {
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
		}
	}); err != nil {
		// The records are stored; a full pool only delays enrichment.
		p.logger.Error("error submitting embedding job", "err", err)
	}

	return added, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
