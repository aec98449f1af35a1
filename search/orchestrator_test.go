package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/queryopt"
)

// recordingMonitor captures every event for assertions.
type recordingMonitor struct {
	mu     sync.Mutex
	events []Event
}

func (m *recordingMonitor) Record(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *recordingMonitor) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	optimizer, err := queryopt.New()
	require.NoError(t, err)
	orchestrator, err := NewOrchestrator(optimizer, opts...)
	require.NoError(t, err)
	return orchestrator
}

func sampleRecords() []*core.Record {
	return []*core.Record{
		{ID: "1", Content: "fuzzy search implementation", Title: "Search Engine", Category: "engineering", Tags: []string{"search", "fuzzy"}},
		{ID: "2", Content: "fuzzy string matching", Category: "engineering"},
		{ID: "3", Content: "database migration guide", Title: "Migrations", Tags: []string{"database"}},
	}
}

func TestNewOrchestrator_RequiresOptimizer(t *testing.T) {
	_, err := NewOrchestrator(nil)
	assert.ErrorIs(t, err, ErrOptimizerRequired)
}

func TestSearch_EmptyQuery(t *testing.T) {
	orchestrator := newTestOrchestrator(t)

	for _, query := range []string{"", "   ", "\t"} {
		response, err := orchestrator.Search(context.Background(), query, sampleRecords(), DefaultOptions())
		require.NoError(t, err)

		assert.False(t, response.Success, "query %q", query)
		assert.Zero(t, response.Count)
		assert.Empty(t, response.Results)
	}
}

func TestSearch_ExactTitleOutweighsContent(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	records := []*core.Record{
		{ID: "body", Content: "search appears here"},
		{ID: "titled", Title: "Search"},
	}

	response, err := orchestrator.Search(context.Background(), "search", records, DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 2, response.Count)
	assert.Equal(t, core.SearchTypeExact, response.SearchType)
	assert.Equal(t, core.ID("titled"), response.Results[0].Record.ID)
	assert.InDelta(t, 1.0, response.Results[0].Score, 1e-9, "title weight")
	assert.InDelta(t, 0.8, response.Results[1].Score, 1e-9, "content weight")
}

func TestSearch_ExactScoreCappedAtOne(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	records := []*core.Record{
		{ID: "1", Content: "search everything", Title: "search", Category: "search", Tags: []string{"search"}},
	}

	response, err := orchestrator.Search(context.Background(), "search", records, DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 1, response.Count)
	assert.InDelta(t, 1.0, response.Results[0].Score, 1e-9)
	assert.Len(t, response.Results[0].MatchDetails, 4, "one detail per matched field")
}

func TestSearch_ExactShortCircuitsFuzzy(t *testing.T) {
	orchestrator := newTestOrchestrator(t)

	// "fuzzy" is an exact substring of two records, so the response must
	// come from the exact pass even though the fuzzy pass would also hit.
	response, err := orchestrator.Search(context.Background(), "fuzzy", sampleRecords(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, core.SearchTypeExact, response.SearchType)
	require.NotZero(t, response.Count)
	for _, result := range response.Results {
		for _, detail := range result.MatchDetails {
			assert.NotEqual(t, core.FieldFuzzy, detail.Field)
		}
	}
}

func TestSearch_FuzzyFallback(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	opts := DefaultOptions()
	opts.AutoOptimizeQuery = false
	opts.TryQueryVariations = false

	// One transposition away from "fuzzy": no exact substring anywhere.
	response, err := orchestrator.Search(context.Background(), "fzuzy matching", sampleRecords(), opts)
	require.NoError(t, err)

	assert.Equal(t, core.SearchTypeFuzzy, response.SearchType)
	require.NotZero(t, response.Count)
	assert.Equal(t, core.ID("2"), response.Results[0].Record.ID)
	assert.Equal(t, core.FieldFuzzy, response.Results[0].MatchDetails[0].Field)
}

func TestSearch_TypoRoundTrip(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	records := []*core.Record{
		{ID: "1", Content: "fuzzy search implementation"},
		{ID: "2", Content: "fuzzy string matching"},
	}

	response, err := orchestrator.Search(context.Background(), "fuzy search", records, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, response.Success)
	require.NotZero(t, response.Count)
	assert.Contains(t, []core.SearchType{core.SearchTypeOptimized, core.SearchTypeFuzzy}, response.SearchType)
	assert.Equal(t, core.ID("1"), response.Results[0].Record.ID,
		"after typo correction record 1 contains the whole query verbatim")
}

func TestSearch_VariationsRescueHopelessQueries(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	records := []*core.Record{
		{ID: "1", Content: "database migration guide"},
	}
	opts := DefaultOptions()
	opts.AutoOptimizeQuery = false

	// "db" is neither a substring of "database" nor close enough for the
	// fuzzy pass; only the abbreviation-expansion variation matches.
	response, err := orchestrator.Search(context.Background(), "db", records, opts)
	require.NoError(t, err)

	require.NotZero(t, response.Count)
	assert.Equal(t, core.SearchTypeOptimized, response.SearchType)
	assert.NotEmpty(t, response.OptimizedQuery)
	assert.NotEqual(t, "db", response.OptimizedQuery)
}

func TestSearch_SuggestionsOnEmptyResult(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	opts := DefaultOptions()
	opts.AutoOptimizeQuery = false
	opts.TryQueryVariations = false
	// Raise the floor past what the fuzzy pass can score for a
	// transposed token so the pipeline reaches the suggestion stage.
	opts.MinScore = 0.9

	response, err := orchestrator.Search(context.Background(), "migratoin", sampleRecords(), opts)
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Zero(t, response.Count)
	assert.Contains(t, response.Suggestions, "migration")
	for _, suggestion := range response.Suggestions {
		assert.NotEqual(t, "migratoin", suggestion)
	}
}

func TestSearch_DisabledFieldsExcluded(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	opts := DefaultOptions()
	opts.SearchContent = false
	opts.IncludeSuggestions = false
	opts.TryQueryVariations = false
	records := []*core.Record{
		{ID: "1", Content: "migration lives only in content"},
	}

	response, err := orchestrator.Search(context.Background(), "migration", records, opts)
	require.NoError(t, err)

	assert.Zero(t, response.Count, "the only matching field is disabled")
}

func TestSearch_MaxResultsTruncates(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	records := make([]*core.Record, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		records = append(records, &core.Record{ID: core.ID(id), Content: "shared phrase"})
	}
	opts := DefaultOptions()
	opts.MaxResults = 3

	response, err := orchestrator.Search(context.Background(), "shared", records, opts)
	require.NoError(t, err)

	assert.Equal(t, 3, response.Count)
	// Stable ordering: equal scores keep record order.
	assert.Equal(t, core.ID("a"), response.Results[0].Record.ID)
	assert.Equal(t, core.ID("b"), response.Results[1].Record.ID)
	assert.Equal(t, core.ID("c"), response.Results[2].Record.ID)
}

func TestSearch_InvalidOptionsRejected(t *testing.T) {
	orchestrator := newTestOrchestrator(t)
	opts := DefaultOptions()
	opts.FuzzyTolerance = 1.5

	_, err := orchestrator.Search(context.Background(), "query", sampleRecords(), opts)
	assert.Error(t, err)
}

func TestSearch_EmitsOneEventPerCall(t *testing.T) {
	monitor := &recordingMonitor{}
	orchestrator := newTestOrchestrator(t, WithMonitor(monitor))

	_, err := orchestrator.Search(context.Background(), "fuzzy", sampleRecords(), DefaultOptions())
	require.NoError(t, err)
	_, err = orchestrator.Search(context.Background(), "", sampleRecords(), DefaultOptions())
	require.NoError(t, err)

	events := monitor.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "fuzzy", events[0].Query)
	assert.Equal(t, core.SearchTypeExact, events[0].SearchType)
	assert.NotZero(t, events[0].ResultCount)
	assert.NotEmpty(t, events[0].TopIDs)
	assert.Zero(t, events[1].ResultCount)
}

func TestHarvestVocabulary_SkipsStopWordsAndDuplicates(t *testing.T) {
	records := []*core.Record{
		{ID: "1", Content: "the quick fox", Tags: []string{"fox"}},
		{ID: "2", Content: "quick brown"},
	}

	vocabulary := harvestVocabulary(records, DefaultOptions())

	assert.Equal(t, []string{"quick", "fox", "brown"}, vocabulary)
}
