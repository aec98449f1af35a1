package hybrid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/vector"
	"github.com/outfield/retriever/vector/mock"
)

func TestSearch_CacheServesRepeatedQueries(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource(vector.Match{ID: "a", Score: 0.8})

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors,
		WithCache(16, time.Minute))
	require.NoError(t, err)

	first, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)
	second, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, lexical.callCount, "the second search must be served from the cache")
	assert.Equal(t, 1, vectors.CallCount())
	assert.Equal(t, first, second)
}

func TestSearch_CacheKeyedByOptions(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource(vector.Match{ID: "a", Score: 0.8})

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors,
		WithCache(16, time.Minute))
	require.NoError(t, err)

	_, err = merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Strategy = StrategyRankFusion
	opts.MinCombinedScore = 0
	_, err = merger.Search(context.Background(), "fuzzy", opts)
	require.NoError(t, err)

	assert.Equal(t, 2, lexical.callCount, "a different strategy must miss the cache")
}

func TestSearch_DegradedResponsesNotCached(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource(vector.Match{ID: "a", Score: 0.8})
	failures := 1
	vectors.SimilarFunc = func(ctx context.Context, query string, limit int) ([]vector.Match, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("transient failure")
		}
		return []vector.Match{{ID: "a", Score: 0.8}}, nil
	}

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors,
		WithCache(16, time.Minute))
	require.NoError(t, err)

	first, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, first.Degraded)

	second, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)
	assert.False(t, second.Degraded, "the retry must re-run both legs, not replay the degraded response")
}
