package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/storage"
	"github.com/outfield/retriever/vector"
)

// embeddingProcessor generates embedding vectors for stored records.
type embeddingProcessor struct {
	repository storage.RecordRepository
	embedder   vector.Embedder
	logger     *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

func newEmbeddingProcessor(repository storage.RecordRepository, embedder vector.Embedder, logger *slog.Logger) (*embeddingProcessor, error) {
	if repository == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		repository: repository,
		embedder:   embedder,
		logger:     logger.With("processor", "embeddings"),
	}, nil
}

// process embeds the identified records in one batch and stores the
// normalized vectors. Records that vanished between ingestion and
// processing are skipped silently.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Debug("processing records for embeddings", "records", len(ids))

	records, err := ep.repository.GetRecords(ctx, ids...)
	if err != nil {
		return fmt.Errorf("retrieving records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.EmbeddingText()
	}

	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("generating embeddings: %w", err)
	}
	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding result mismatch: expected %d, received %d", len(records), len(embeddings))
	}

	// Unit vectors let the store rank by dot product alone.
	for i := range embeddings {
		records[i].Vector = vector.Normalize(embeddings[i])
	}

	if _, err := ep.repository.UpdateRecords(ctx, records...); err != nil {
		return fmt.Errorf("storing embeddings: %w", err)
	}
	return nil
}
