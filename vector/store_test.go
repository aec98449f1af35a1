package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIndex struct {
	scored    []*storage.ScoredRecord
	err       error
	gotVector []float32
	gotLimit  int
}

func (s *stubIndex) FindSimilar(_ context.Context, vector []float32, _ float32, limit int) ([]*storage.ScoredRecord, error) {
	s.gotVector = vector
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.scored, nil
}

func TestStoreSource_Similar(t *testing.T) {
	index := &stubIndex{scored: []*storage.ScoredRecord{
		{Record: &core.Record{ID: "a"}, Score: 0.9},
		{Record: &core.Record{ID: "b"}, Score: 1.2},
		{Record: &core.Record{ID: "c"}, Score: -0.1},
	}}
	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {3, 4}}}

	source, err := NewStoreSource(embedder, index)
	require.NoError(t, err)

	matches, err := source.Similar(context.Background(), "q", 5)
	require.NoError(t, err)

	require.Len(t, matches, 2, "non-positive scores are dropped")
	assert.Equal(t, core.ID("a"), matches[0].ID)
	assert.InDelta(t, 0.9, matches[0].Score, 1e-6)
	assert.Equal(t, core.ID("b"), matches[1].ID)
	assert.InDelta(t, 1.0, matches[1].Score, 1e-6, "scores clamp to 1.0")

	assert.Equal(t, 5, index.gotLimit)
	assert.InDelta(t, 0.6, index.gotVector[0], 1e-6, "query vector is normalized before lookup")
	assert.InDelta(t, 0.8, index.gotVector[1], 1e-6)
}

func TestStoreSource_EmbedderFailure(t *testing.T) {
	index := &stubIndex{}
	embedder := &stubEmbedder{err: errors.New("service down")}

	source, err := NewStoreSource(embedder, index)
	require.NoError(t, err)

	_, err = source.Similar(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestStoreSource_IndexFailure(t *testing.T) {
	indexErr := errors.New("iteration failed")
	index := &stubIndex{err: indexErr}
	embedder := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0}}}

	source, err := NewStoreSource(embedder, index)
	require.NoError(t, err)

	_, err = source.Similar(context.Background(), "q", 5)
	assert.ErrorIs(t, err, indexErr)
}

func TestNewStoreSource_RequiresDependencies(t *testing.T) {
	embedder := &stubEmbedder{}

	_, err := NewStoreSource(nil, &stubIndex{})
	assert.ErrorIs(t, err, ErrNilEmbedder)

	_, err = NewStoreSource(embedder, nil)
	assert.ErrorIs(t, err, ErrNilIndex)
}
