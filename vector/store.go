package vector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/outfield/retriever/storage"
)

// SimilarityIndex is the slice of the record store a StoreSource needs:
// a persistent nearest-neighbour lookup over stored record vectors.
type SimilarityIndex interface {
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.ScoredRecord, error)
}

// StoreSource answers similarity queries against a persistent index:
// the query is embedded, then matched against vectors stored alongside
// the records themselves.
type StoreSource struct {
	embedder Embedder
	index    SimilarityIndex
	logger   *slog.Logger
}

var _ Source = (*StoreSource)(nil)

// NewStoreSource creates a Source backed by a similarity index.
func NewStoreSource(embedder Embedder, index SimilarityIndex) (*StoreSource, error) {
	if embedder == nil {
		return nil, ErrNilEmbedder
	}
	if index == nil {
		return nil, ErrNilIndex
	}

	return &StoreSource{
		embedder: embedder,
		index:    index,
		logger:   slog.Default().With("component", "store-source"),
	}, nil
}

// Similar embeds the query and delegates ranking to the index. Scores
// coming back from the index are clamped into [0, 1].
func (s *StoreSource) Similar(ctx context.Context, query string, limit int) ([]Match, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("failed to embed query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	scored, err := s.index.FindSimilar(ctx, Normalize(queryVector), 0, limit)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(scored))
	for _, sr := range scored {
		if sr == nil || sr.Record == nil {
			continue
		}
		score := float64(sr.Score)
		if score <= 0 {
			continue
		}
		if score > 1 {
			score = 1
		}
		matches = append(matches, Match{ID: sr.Record.ID, Score: score})
	}

	return matches, nil
}
