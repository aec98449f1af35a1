package vector

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/outfield/retriever/core"
)

// CorpusSource answers similarity queries over a fixed slice of records.
// The corpus is embedded lazily on first use: records that already carry
// a vector are used as-is, the rest are embedded in one batch. A
// CorpusSource is safe for concurrent use once constructed.
type CorpusSource struct {
	embedder Embedder
	records  []*core.Record
	logger   *slog.Logger

	once    sync.Once
	entries []corpusEntry
	prepErr error
}

type corpusEntry struct {
	id     core.ID
	vector []float32
}

var _ Source = (*CorpusSource)(nil)

// NewCorpusSource creates a Source over records. The slice is not
// copied; callers must not mutate it while the source is in use.
func NewCorpusSource(embedder Embedder, records []*core.Record) (*CorpusSource, error) {
	if embedder == nil {
		return nil, ErrNilEmbedder
	}

	return &CorpusSource{
		embedder: embedder,
		records:  records,
		logger:   slog.Default().With("component", "corpus-source"),
	}, nil
}

// Similar embeds the query and ranks the corpus by cosine similarity.
// Records with non-positive similarity are omitted; ties are broken by
// record id so results are deterministic.
func (s *CorpusSource) Similar(ctx context.Context, query string, limit int) ([]Match, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	if err := s.prepare(ctx); err != nil {
		return nil, err
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("failed to embed query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	matches := make([]Match, 0, len(s.entries))
	for _, e := range s.entries {
		score := float64(Cosine(queryVector, e.vector))
		if score <= 0 {
			continue
		}
		if score > 1 {
			score = 1
		}
		matches = append(matches, Match{ID: e.id, Score: score})
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// prepare embeds the corpus once. The error is sticky: a failed
// preparation fails every subsequent query on this source.
func (s *CorpusSource) prepare(ctx context.Context) error {
	s.once.Do(func() {
		s.entries = make([]corpusEntry, 0, len(s.records))

		var pendingTexts []string
		var pendingIdx []int
		for _, rec := range s.records {
			if rec == nil {
				continue
			}
			entry := corpusEntry{id: rec.ID}
			if len(rec.Vector) > 0 {
				entry.vector = rec.Vector
			} else {
				pendingIdx = append(pendingIdx, len(s.entries))
				pendingTexts = append(pendingTexts, rec.EmbeddingText())
			}
			s.entries = append(s.entries, entry)
		}

		if len(pendingTexts) == 0 {
			return
		}

		s.logger.Debug("embedding corpus", "pending", len(pendingTexts), "total", len(s.entries))

		vectors, err := s.embedder.EmbedTexts(ctx, pendingTexts)
		if err != nil {
			s.prepErr = fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
			return
		}
		if len(vectors) != len(pendingTexts) {
			s.prepErr = fmt.Errorf("%w: got %d embeddings for %d texts",
				ErrEmbeddingFailed, len(vectors), len(pendingTexts))
			return
		}

		for i, idx := range pendingIdx {
			s.entries[idx].vector = Normalize(vectors[i])
		}
	})

	return s.prepErr
}
