package hybrid

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/search"
	"github.com/outfield/retriever/vector"
)

// rrfK is the reciprocal rank fusion constant. The conventional value of
// 60 keeps single top ranks from dominating the fused score.
const rrfK = 60

// RecordSource supplies the candidate records for the lexical pass.
type RecordSource interface {
	AllRecords(ctx context.Context) ([]*core.Record, error)
}

// Lexical runs the staged lexical pipeline over a record set.
// *search.Orchestrator satisfies this interface.
type Lexical interface {
	Search(ctx context.Context, query string, records []*core.Record, opts search.Options) (*core.SearchResponse, error)
}

// Merger combines lexical and vector search over the same record
// corpus. Both engines run concurrently; the vector leg is optional at
// runtime in the sense that its failure or timeout degrades the
// response to lexical-only results rather than failing the request.
type Merger struct {
	records RecordSource
	lexical Lexical
	vectors vector.Source
	cache   *responseCache
	monitor search.Monitor
	logger  *slog.Logger
}

// Option configures a Merger.
type Option func(*Merger) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithMonitor sets the monitor receiving one event per hybrid search.
// Default is search.NopMonitor.
func WithMonitor(monitor search.Monitor) Option {
	return func(m *Merger) error {
		if monitor == nil {
			monitor = search.NopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// WithCache enables an LRU response cache of the given size whose
// entries expire after ttl. Cached responses are shared between
// callers and must not be mutated. Degraded responses are never cached.
func WithCache(size int, ttl time.Duration) Option {
	return func(m *Merger) error {
		m.cache = newResponseCache(size, ttl)
		return nil
	}
}

// NewMerger creates a new merger over the given collaborators.
func NewMerger(records RecordSource, lexical Lexical, vectors vector.Source, opts ...Option) (*Merger, error) {
	if records == nil {
		return nil, ErrRecordSourceRequired
	}
	if lexical == nil {
		return nil, ErrLexicalRequired
	}
	if vectors == nil {
		return nil, ErrVectorSourceRequired
	}

	m := &Merger{
		records: records,
		lexical: lexical,
		vectors: vectors,
		monitor: search.NopMonitor{},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

type lexicalLeg struct {
	response *core.SearchResponse
	records  []*core.Record
	err      error
}

type vectorLeg struct {
	matches []vector.Match
	err     error
}

// Search runs both engines concurrently and merges their result sets
// with the configured strategy. An empty query yields a response with
// Success false rather than an error. Only a failure of the lexical
// leg is returned as an error; a vector-leg failure or timeout marks
// the response Degraded and falls back to lexical-only results.
func (m *Merger) Search(ctx context.Context, query string, opts Options) (*core.HybridResponse, error) {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	if strings.TrimSpace(query) == "" {
		response := &core.HybridResponse{Query: query, SearchType: core.SearchTypeMixed}
		m.emit(response, time.Since(start))
		return response, nil
	}

	var cacheKey string
	if m.cache != nil {
		cacheKey = m.cache.key(query, opts)
		if cached, ok := m.cache.get(cacheKey); ok {
			m.logger.Debug("hybrid cache hit", "query", query)
			return cached, nil
		}
	}

	// Each leg fetches beyond the final budget so the merge has
	// candidates past the cutoff of either single engine.
	fetchLimit := opts.MaxResults * 2
	if opts.Lexical.MaxResults < fetchLimit {
		opts.Lexical.MaxResults = fetchLimit
	}

	lexCh := make(chan lexicalLeg, 1)
	vecCh := make(chan vectorLeg, 1)

	go func() {
		records, err := m.records.AllRecords(ctx)
		if err != nil {
			lexCh <- lexicalLeg{err: err}
			return
		}
		response, err := m.lexical.Search(ctx, query, records, opts.Lexical)
		lexCh <- lexicalLeg{response: response, records: records, err: err}
	}()

	go func() {
		vctx, cancel := context.WithTimeout(ctx, opts.VectorTimeout)
		defer cancel()
		matches, err := m.vectors.Similar(vctx, query, fetchLimit)
		vecCh <- vectorLeg{matches: matches, err: err}
	}()

	lex := <-lexCh
	vec := <-vecCh

	if lex.err != nil {
		return nil, lex.err
	}

	response := &core.HybridResponse{
		Success:    lex.response.Success,
		Query:      query,
		SearchType: core.SearchTypeMixed,
	}

	if vec.err != nil {
		m.logger.Warn("vector source failed, degrading to lexical-only results",
			"query", query, "err", vec.err)
		response.Degraded = true
		response.SearchType = lex.response.SearchType
		response.Results = lexicalOnly(lex.response.Results, opts)
	} else {
		merged, err := m.merge(lex.response.Results, vec.matches, indexRecords(lex.records), opts)
		if err != nil {
			return nil, err
		}
		response.Results = merged
	}

	response.Count = len(response.Results)
	m.emit(response, time.Since(start))

	if m.cache != nil && !response.Degraded {
		m.cache.put(cacheKey, response)
	}
	return response, nil
}

func (m *Merger) emit(response *core.HybridResponse, elapsed time.Duration) {
	event := search.Event{
		Query:       response.Query,
		SearchType:  response.SearchType,
		ResultCount: response.Count,
		Duration:    elapsed,
	}
	for i, result := range response.Results {
		if i == 5 {
			break
		}
		event.TopIDs = append(event.TopIDs, result.Record.ID)
	}
	m.monitor.Record(event)
}

// merge folds the two result sets together with the configured strategy,
// then filters, orders and truncates the union.
func (m *Merger) merge(lexical []*core.SearchResult, matches []vector.Match, index map[core.ID]*core.Record, opts Options) ([]*core.HybridResult, error) {
	var merged map[core.ID]*core.HybridResult
	switch opts.Strategy {
	case StrategyWeighted:
		merged = m.mergeWeighted(lexical, matches, index, opts)
	case StrategyRankFusion:
		merged = m.mergeRankFusion(lexical, matches, index)
	case StrategyBestOfBoth:
		merged = m.mergeBestOfBoth(lexical, matches, index, opts)
	default:
		return nil, ErrUnknownStrategy
	}

	results := make([]*core.HybridResult, 0, len(merged))
	for _, result := range merged {
		if result.CombinedScore < opts.MinCombinedScore {
			continue
		}
		results = append(results, result)
	}
	return orderAndTruncate(results, opts.MaxResults), nil
}

// mergeWeighted averages the two scores with the configured weights. A
// record absent from one set scores zero on that side.
func (m *Merger) mergeWeighted(lexical []*core.SearchResult, matches []vector.Match, index map[core.ID]*core.Record, opts Options) map[core.ID]*core.HybridResult {
	weightSum := opts.TraditionalWeight + opts.VectorWeight
	merged := make(map[core.ID]*core.HybridResult, len(lexical)+len(matches))

	for _, result := range lexical {
		merged[result.Record.ID] = &core.HybridResult{
			Record:       result.Record,
			LexicalScore: result.Score,
			Sources:      []core.ResultSource{core.SourceLexical},
		}
	}
	m.foldVector(merged, matches, index)

	for _, result := range merged {
		if weightSum > 0 {
			result.CombinedScore = (result.LexicalScore*opts.TraditionalWeight +
				result.VectorScore*opts.VectorWeight) / weightSum
		}
	}
	return merged
}

// mergeRankFusion scores each record by the sum of 1/(k+rank) over the
// rankings that contain it, with 1-based ranks. Raw scores are kept on
// the result for debugging but do not influence the fused score.
func (m *Merger) mergeRankFusion(lexical []*core.SearchResult, matches []vector.Match, index map[core.ID]*core.Record) map[core.ID]*core.HybridResult {
	merged := make(map[core.ID]*core.HybridResult, len(lexical)+len(matches))

	for rank, result := range lexical {
		merged[result.Record.ID] = &core.HybridResult{
			Record:        result.Record,
			LexicalScore:  result.Score,
			CombinedScore: 1 / float64(rrfK+rank+1),
			Sources:       []core.ResultSource{core.SourceLexical},
		}
	}
	for rank, match := range matches {
		if existing, ok := merged[match.ID]; ok {
			existing.VectorScore = match.Score
			existing.CombinedScore += 1 / float64(rrfK+rank+1)
			existing.Sources = append(existing.Sources, core.SourceVector)
			continue
		}
		record, ok := index[match.ID]
		if !ok {
			m.logger.Debug("vector match without a stored record", "id", match.ID)
			continue
		}
		merged[match.ID] = &core.HybridResult{
			Record:        record,
			VectorScore:   match.Score,
			CombinedScore: 1 / float64(rrfK+rank+1),
			Sources:       []core.ResultSource{core.SourceVector},
		}
	}
	return merged
}

// mergeBestOfBoth unions each engine's top half of the result budget.
// Records found by both keep their better score.
func (m *Merger) mergeBestOfBoth(lexical []*core.SearchResult, matches []vector.Match, index map[core.ID]*core.Record, opts Options) map[core.ID]*core.HybridResult {
	topK := (opts.MaxResults + 1) / 2
	if len(lexical) > topK {
		lexical = lexical[:topK]
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}

	merged := make(map[core.ID]*core.HybridResult, len(lexical)+len(matches))
	for _, result := range lexical {
		merged[result.Record.ID] = &core.HybridResult{
			Record:        result.Record,
			LexicalScore:  result.Score,
			CombinedScore: result.Score,
			Sources:       []core.ResultSource{core.SourceLexical},
		}
	}
	m.foldVector(merged, matches, index)

	for _, result := range merged {
		result.CombinedScore = max(result.LexicalScore, result.VectorScore)
	}
	return merged
}

// foldVector adds vector matches into merged, resolving records for
// vector-only hits through the index. Matches whose record is no longer
// stored are dropped.
func (m *Merger) foldVector(merged map[core.ID]*core.HybridResult, matches []vector.Match, index map[core.ID]*core.Record) {
	for _, match := range matches {
		if existing, ok := merged[match.ID]; ok {
			existing.VectorScore = match.Score
			existing.Sources = append(existing.Sources, core.SourceVector)
			continue
		}
		record, ok := index[match.ID]
		if !ok {
			m.logger.Debug("vector match without a stored record", "id", match.ID)
			continue
		}
		merged[match.ID] = &core.HybridResult{
			Record:      record,
			VectorScore: match.Score,
			Sources:     []core.ResultSource{core.SourceVector},
		}
	}
}

// lexicalOnly converts lexical results for a degraded response: the
// combined score is the lexical score, still subject to the combined
// score floor and the result budget.
func lexicalOnly(lexical []*core.SearchResult, opts Options) []*core.HybridResult {
	results := make([]*core.HybridResult, 0, len(lexical))
	for _, result := range lexical {
		if result.Score < opts.MinCombinedScore {
			continue
		}
		results = append(results, &core.HybridResult{
			Record:        result.Record,
			LexicalScore:  result.Score,
			CombinedScore: result.Score,
			Sources:       []core.ResultSource{core.SourceLexical},
		})
	}
	return orderAndTruncate(results, opts.MaxResults)
}

// orderAndTruncate orders results by descending combined score, breaking
// ties by ascending record id so the ranking is deterministic, and keeps
// the top max.
func orderAndTruncate(results []*core.HybridResult, max int) []*core.HybridResult {
	slices.SortFunc(results, func(a, b *core.HybridResult) int {
		if a.CombinedScore > b.CombinedScore {
			return -1
		}
		if a.CombinedScore < b.CombinedScore {
			return 1
		}
		return strings.Compare(string(a.Record.ID), string(b.Record.ID))
	})
	if len(results) > max {
		results = results[:max]
	}
	return results
}

func indexRecords(records []*core.Record) map[core.ID]*core.Record {
	index := make(map[core.ID]*core.Record, len(records))
	for _, record := range records {
		if record != nil {
			index[record.ID] = record
		}
	}
	return index
}
