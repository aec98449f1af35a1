package hybrid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/search"
	"github.com/outfield/retriever/vector"
	"github.com/outfield/retriever/vector/mock"
)

// recordsStub serves a fixed record slice.
type recordsStub struct {
	records []*core.Record
	err     error
}

func (s *recordsStub) AllRecords(ctx context.Context) ([]*core.Record, error) {
	return s.records, s.err
}

// lexicalStub returns canned results so merge arithmetic can be checked
// against exact numbers.
type lexicalStub struct {
	results   []*core.SearchResult
	err       error
	callCount int
}

func (s *lexicalStub) Search(ctx context.Context, query string, records []*core.Record, opts search.Options) (*core.SearchResponse, error) {
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return &core.SearchResponse{
		Success:    true,
		Query:      query,
		Results:    s.results,
		Count:      len(s.results),
		SearchType: core.SearchTypeExact,
	}, nil
}

func testRecords() []*core.Record {
	return []*core.Record{
		{ID: "a", Content: "fuzzy search implementation"},
		{ID: "b", Content: "fuzzy string matching"},
		{ID: "c", Content: "unrelated text"},
	}
}

func lexicalResult(records []*core.Record, id core.ID, score float64) *core.SearchResult {
	for _, record := range records {
		if record.ID == id {
			return &core.SearchResult{Record: record, Score: score}
		}
	}
	return nil
}

func TestNewMerger_RequiredDependencies(t *testing.T) {
	records := &recordsStub{}
	lexical := &lexicalStub{}
	vectors := mock.NewMockSource()

	_, err := NewMerger(nil, lexical, vectors)
	assert.ErrorIs(t, err, ErrRecordSourceRequired)

	_, err = NewMerger(records, nil, vectors)
	assert.ErrorIs(t, err, ErrLexicalRequired)

	_, err = NewMerger(records, lexical, nil)
	assert.ErrorIs(t, err, ErrVectorSourceRequired)
}

func TestSearch_EmptyQuery(t *testing.T) {
	merger, err := NewMerger(&recordsStub{}, &lexicalStub{}, mock.NewMockSource())
	require.NoError(t, err)

	response, err := merger.Search(context.Background(), "   ", DefaultOptions())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Zero(t, response.Count)
}

func TestSearch_WeightedScenario(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource(
		vector.Match{ID: "a", Score: 0.5},
		vector.Match{ID: "b", Score: 0.8},
	)

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	response, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 2, response.Count)
	assert.False(t, response.Degraded)
	assert.Equal(t, core.SearchTypeMixed, response.SearchType)

	first, second := response.Results[0], response.Results[1]
	assert.Equal(t, core.ID("a"), first.Record.ID)
	assert.InDelta(t, 0.74, first.CombinedScore, 1e-9, "(0.9*0.6 + 0.5*0.4) / 1.0")
	assert.ElementsMatch(t, []core.ResultSource{core.SourceLexical, core.SourceVector}, first.Sources)

	assert.Equal(t, core.ID("b"), second.Record.ID)
	assert.InDelta(t, 0.32, second.CombinedScore, 1e-9, "(0 + 0.8*0.4) / 1.0")
	assert.Equal(t, []core.ResultSource{core.SourceVector}, second.Sources)
}

func TestSearch_WeightedScoresStayInRange(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 1.0),
		lexicalResult(records, "b", 0.5),
	}}
	vectors := mock.NewMockSource(
		vector.Match{ID: "a", Score: 1.0},
		vector.Match{ID: "c", Score: 0.9},
	)

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MinCombinedScore = 0
	response, err := merger.Search(context.Background(), "fuzzy", opts)
	require.NoError(t, err)

	require.NotEmpty(t, response.Results)
	for _, result := range response.Results {
		assert.GreaterOrEqual(t, result.CombinedScore, 0.0)
		assert.LessOrEqual(t, result.CombinedScore, 1.0)
	}
}

func TestSearch_RankFusion(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
		lexicalResult(records, "b", 0.4),
	}}
	vectors := mock.NewMockSource(
		vector.Match{ID: "b", Score: 0.8},
		vector.Match{ID: "c", Score: 0.7},
	)

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Strategy = StrategyRankFusion
	opts.MinCombinedScore = 0
	response, err := merger.Search(context.Background(), "fuzzy", opts)
	require.NoError(t, err)

	require.Equal(t, 3, response.Count)

	// "b" appears in both rankings: 1/(60+2) + 1/(60+1).
	assert.Equal(t, core.ID("b"), response.Results[0].Record.ID)
	assert.InDelta(t, 1.0/62+1.0/61, response.Results[0].CombinedScore, 1e-9)

	// "a" ranks first lexically, "c" second in the vector list; the tie
	// at 1/61 vs 1/62 puts "a" next.
	assert.Equal(t, core.ID("a"), response.Results[1].Record.ID)
	assert.InDelta(t, 1.0/61, response.Results[1].CombinedScore, 1e-9)
	assert.Equal(t, core.ID("c"), response.Results[2].Record.ID)
	assert.InDelta(t, 1.0/62, response.Results[2].CombinedScore, 1e-9)
}

func TestSearch_BestOfBoth(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.6),
		lexicalResult(records, "b", 0.5),
	}}
	vectors := mock.NewMockSource(
		vector.Match{ID: "b", Score: 0.9},
		vector.Match{ID: "c", Score: 0.4},
	)

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Strategy = StrategyBestOfBoth
	opts.MaxResults = 4 // top 2 of each engine
	opts.MinCombinedScore = 0
	response, err := merger.Search(context.Background(), "fuzzy", opts)
	require.NoError(t, err)

	require.Equal(t, 3, response.Count)

	// "b" appears in both top lists and keeps its better score.
	assert.Equal(t, core.ID("b"), response.Results[0].Record.ID)
	assert.InDelta(t, 0.9, response.Results[0].CombinedScore, 1e-9)
	assert.ElementsMatch(t, []core.ResultSource{core.SourceLexical, core.SourceVector}, response.Results[0].Sources)

	assert.Equal(t, core.ID("a"), response.Results[1].Record.ID)
	assert.Equal(t, core.ID("c"), response.Results[2].Record.ID)
}

func TestSearch_MinCombinedScoreFilters(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource(vector.Match{ID: "b", Score: 0.3})

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	// "b" combines to 0.3*0.4 = 0.12, below the default floor of 0.3.
	response, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 1, response.Count)
	assert.Equal(t, core.ID("a"), response.Results[0].Record.ID)
}

func TestSearch_VectorFailureDegrades(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource()
	vectors.SimilarFunc = func(ctx context.Context, query string, limit int) ([]vector.Match, error) {
		return nil, errors.New("embedding service unavailable")
	}

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	response, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err, "a vector failure must not fail the request")

	assert.True(t, response.Degraded)
	assert.Equal(t, core.SearchTypeExact, response.SearchType)
	require.Equal(t, 1, response.Count)
	assert.Equal(t, []core.ResultSource{core.SourceLexical}, response.Results[0].Sources)
	assert.InDelta(t, 0.9, response.Results[0].CombinedScore, 1e-9)
}

func TestSearch_VectorTimeoutDegrades(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource()
	vectors.SimilarFunc = func(ctx context.Context, query string, limit int) ([]vector.Match, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.VectorTimeout = 10 * time.Millisecond
	response, err := merger.Search(context.Background(), "fuzzy", opts)
	require.NoError(t, err)

	assert.True(t, response.Degraded)
	assert.Equal(t, 1, response.Count)
}

func TestSearch_LexicalFailureIsFatal(t *testing.T) {
	storeErr := errors.New("store unavailable")
	merger, err := NewMerger(&recordsStub{err: storeErr}, &lexicalStub{}, mock.NewMockSource())
	require.NoError(t, err)

	_, err = merger.Search(context.Background(), "fuzzy", DefaultOptions())
	assert.ErrorIs(t, err, storeErr)
}

func TestSearch_VectorMatchWithoutRecordDropped(t *testing.T) {
	records := testRecords()
	lexical := &lexicalStub{results: []*core.SearchResult{
		lexicalResult(records, "a", 0.9),
	}}
	vectors := mock.NewMockSource(vector.Match{ID: "ghost", Score: 0.95})

	merger, err := NewMerger(&recordsStub{records: records}, lexical, vectors)
	require.NoError(t, err)

	response, err := merger.Search(context.Background(), "fuzzy", DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 1, response.Count)
	assert.Equal(t, core.ID("a"), response.Results[0].Record.ID)
}

func TestSearch_UnknownStrategyRejected(t *testing.T) {
	merger, err := NewMerger(&recordsStub{}, &lexicalStub{}, mock.NewMockSource())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Strategy = "galactic"
	_, err = merger.Search(context.Background(), "fuzzy", opts)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
