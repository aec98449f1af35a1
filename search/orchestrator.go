package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/fuzzy"
	"github.com/outfield/retriever/queryopt"
)

// Field weights for the exact pass. A title hit outweighs a content hit;
// tags contribute once no matter how many of them match.
const (
	weightContent  = 0.8
	weightTitle    = 1.0
	weightCategory = 0.6
	weightTags     = 0.7
)

// autoOptimizeQualityFloor is the quality score below which a query is
// rewritten before the first pass.
const autoOptimizeQualityFloor = 0.5

// eventTopResults caps the number of result IDs carried on a monitor event.
const eventTopResults = 5

// Orchestrator runs the staged lexical pipeline: an exact substring pass,
// a fuzzy pass when that finds nothing, query variations when both come
// back empty, and suggestions as the terminal stage.
type Orchestrator struct {
	optimizer *queryopt.Optimizer
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithMonitor sets the monitor receiving one event per search.
// Default is NopMonitor.
func WithMonitor(monitor Monitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = NopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(optimizer *queryopt.Optimizer, opts ...Option) (*Orchestrator, error) {
	if optimizer == nil {
		return nil, ErrOptimizerRequired
	}

	o := &Orchestrator{
		optimizer: optimizer,
		monitor:   NopMonitor{},
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Search runs the pipeline over the given records. Passes run in order and
// each later pass runs only when the previous one found nothing: exact,
// fuzzy, query variations, then suggestions. An empty query yields a
// response with Success false rather than an error.
func (o *Orchestrator) Search(ctx context.Context, query string, records []*core.Record, opts Options) (*core.SearchResponse, error) {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	response := &core.SearchResponse{
		Query:      query,
		SearchType: core.SearchTypeExact,
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		o.emit(response, time.Since(start))
		return response, nil
	}
	response.Success = true

	// Rewrite low-quality queries before the first pass.
	effective := query
	if opts.AutoOptimizeQuery {
		if quality := o.optimizer.QualityScore(query); quality < autoOptimizeQualityFloor {
			optimization := o.optimizer.Optimize(query)
			if optimization.Query != query {
				effective = optimization.Query
				o.logger.Debug("rewrote low-quality query",
					"query", query,
					"rewritten", effective,
					"quality", quality,
					"confidence", optimization.Confidence)
			}
		}
	}

	results := o.exactPass(effective, records, opts)
	if len(results) == 0 {
		results = o.fuzzyPass(effective, records, opts)
		response.SearchType = core.SearchTypeFuzzy
	}
	if len(results) > 0 && effective != query {
		response.OptimizedQuery = effective
		response.SearchType = core.SearchTypeOptimized
	}

	if len(results) == 0 && opts.TryQueryVariations {
		tried := map[string]bool{query: true, effective: true}
		for _, variation := range o.optimizer.Variations(query, opts.MaxVariations) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if tried[variation.Text] {
				continue
			}
			tried[variation.Text] = true

			found := o.exactPass(variation.Text, records, opts)
			if len(found) == 0 {
				found = o.fuzzyPass(variation.Text, records, opts)
			}
			if len(found) > 0 {
				results = found
				response.OptimizedQuery = variation.Text
				response.SearchType = core.SearchTypeOptimized
				o.logger.Debug("query variation matched",
					"query", query,
					"variation", variation.Text,
					"technique", variation.Technique)
				break
			}
		}
	}

	if len(results) == 0 && opts.IncludeSuggestions {
		response.Suggestions = fuzzy.Suggestions(trimmed, harvestVocabulary(records, opts), opts.MaxSuggestions)
	}

	response.Results = results
	response.Count = len(results)
	o.emit(response, time.Since(start))
	return response, nil
}

func (o *Orchestrator) emit(response *core.SearchResponse, elapsed time.Duration) {
	event := Event{
		Query:           response.Query,
		OptimizedQuery:  response.OptimizedQuery,
		SearchType:      response.SearchType,
		ResultCount:     response.Count,
		SuggestionCount: len(response.Suggestions),
		Duration:        elapsed,
	}
	for i, result := range response.Results {
		if i == eventTopResults {
			break
		}
		event.TopIDs = append(event.TopIDs, result.Record.ID)
	}
	o.monitor.Record(event)
}

// exactPass scores records by case-folded substring containment, one weight
// per matching field, capped at 1.0.
func (o *Orchestrator) exactPass(query string, records []*core.Record, opts Options) []*core.SearchResult {
	queryNorm := normalizeCase(strings.TrimSpace(query), opts.CaseSensitive)
	if queryNorm == "" {
		return nil
	}

	var results []*core.SearchResult
	for _, record := range records {
		if record == nil {
			continue
		}

		var details []core.MatchDetail
		total := 0.0
		if opts.SearchContent && strings.Contains(normalizeCase(record.Content, opts.CaseSensitive), queryNorm) {
			details = append(details, core.MatchDetail{Field: core.FieldContent, MatchedTerms: []string{queryNorm}, FieldScore: weightContent})
			total += weightContent
		}
		if opts.SearchTitle && strings.Contains(normalizeCase(record.Title, opts.CaseSensitive), queryNorm) {
			details = append(details, core.MatchDetail{Field: core.FieldTitle, MatchedTerms: []string{queryNorm}, FieldScore: weightTitle})
			total += weightTitle
		}
		if opts.SearchCategory && strings.Contains(normalizeCase(record.Category, opts.CaseSensitive), queryNorm) {
			details = append(details, core.MatchDetail{Field: core.FieldCategory, MatchedTerms: []string{queryNorm}, FieldScore: weightCategory})
			total += weightCategory
		}
		if opts.SearchTags {
			var matched []string
			for _, tag := range record.Tags {
				if strings.Contains(normalizeCase(tag, opts.CaseSensitive), queryNorm) {
					matched = append(matched, tag)
				}
			}
			if len(matched) > 0 {
				details = append(details, core.MatchDetail{Field: core.FieldTags, MatchedTerms: matched, FieldScore: weightTags})
				total += weightTags
			}
		}

		if len(details) == 0 {
			continue
		}
		score := min(1.0, total)
		if score < opts.MinScore {
			continue
		}
		results = append(results, &core.SearchResult{
			Record:       record,
			Score:        score,
			MatchDetails: details,
		})
	}

	return sortAndTruncate(results, opts.MaxResults)
}

// fuzzyPass scores records by per-term edit-distance similarity across the
// enabled fields.
func (o *Orchestrator) fuzzyPass(query string, records []*core.Record, opts Options) []*core.SearchResult {
	matchOpts := fuzzy.MatchOptions{
		Threshold:     opts.FuzzyTolerance,
		CaseSensitive: opts.CaseSensitive,
		MaxDistance:   opts.MaxDistance,
		PartialMatch:  opts.PartialMatch,
	}
	matches := fuzzy.Search(query, records, func(r *core.Record) []string {
		return enabledFields(r, opts)
	}, matchOpts)

	var results []*core.SearchResult
	for _, match := range matches {
		if match.Score < opts.MinScore {
			continue
		}
		results = append(results, &core.SearchResult{
			Record: match.Item,
			Score:  match.Score,
			MatchDetails: []core.MatchDetail{{
				Field:        core.FieldFuzzy,
				MatchedTerms: match.MatchedTerms,
				FieldScore:   match.Score,
			}},
		})
	}

	return sortAndTruncate(results, opts.MaxResults)
}

// enabledFields returns the searchable text of a record per the field
// toggles: content, title and category as single strings, then each tag.
func enabledFields(record *core.Record, opts Options) []string {
	if record == nil {
		return nil
	}
	var fields []string
	if opts.SearchContent && record.Content != "" {
		fields = append(fields, record.Content)
	}
	if opts.SearchTitle && record.Title != "" {
		fields = append(fields, record.Title)
	}
	if opts.SearchCategory && record.Category != "" {
		fields = append(fields, record.Category)
	}
	if opts.SearchTags {
		fields = append(fields, record.Tags...)
	}
	return fields
}

// sortAndTruncate orders results by descending score and keeps the top max.
// The sort is stable so equal scores keep their input order.
func sortAndTruncate(results []*core.SearchResult, max int) []*core.SearchResult {
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(results) > max {
		results = results[:max]
	}
	return results
}

// normalizeCase lowercases s unless the search is case-sensitive.
func normalizeCase(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}
