// Copyright 2025 Outfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "fmt"

const (
	// DefaultFuzzyTolerance is the minimum per-term similarity accepted
	// during the fuzzy pass.
	DefaultFuzzyTolerance = 0.3

	// DefaultMaxResults caps the number of results returned per search.
	DefaultMaxResults = 10

	// DefaultMinScore filters out results scoring below this value.
	DefaultMinScore = 0.1

	// DefaultMaxSuggestions caps the number of "did you mean" suggestions.
	DefaultMaxSuggestions = 5

	// DefaultMaxVariations caps the number of query variations tried when
	// the earlier passes find nothing.
	DefaultMaxVariations = 10
)

// Options controls a single search request. The zero value is not usable;
// start from DefaultOptions and override what you need.
type Options struct {
	// FuzzyTolerance is the minimum similarity (0..1) a term must reach to
	// count as a fuzzy match.
	FuzzyTolerance float64

	// CaseSensitive matches exact substrings and fuzzy terms without case
	// folding when true.
	CaseSensitive bool

	// PartialMatch lets fuzzy terms match by containment in addition to
	// edit distance.
	PartialMatch bool

	// MaxDistance caps the edit distance considered by the fuzzy pass.
	// Zero means no cap.
	MaxDistance int

	// SearchContent, SearchTitle, SearchCategory and SearchTags toggle the
	// record fields each pass inspects.
	SearchContent  bool
	SearchTitle    bool
	SearchCategory bool
	SearchTags     bool

	// MaxResults caps the number of results returned.
	MaxResults int

	// MinScore drops results scoring below this value (0..1).
	MinScore float64

	// IncludeSuggestions computes "did you mean" terms when every pass
	// comes back empty.
	IncludeSuggestions bool

	// MaxSuggestions caps the number of suggestions returned.
	MaxSuggestions int

	// TryQueryVariations retries the search with rewritten queries when
	// the exact and fuzzy passes find nothing.
	TryQueryVariations bool

	// MaxVariations caps the number of variations tried.
	MaxVariations int

	// AutoOptimizeQuery rewrites low-quality queries before the first pass.
	AutoOptimizeQuery bool
}

// DefaultOptions returns the options used when the caller does not
// override anything: all fields searched, case-insensitive, partial
// matching on, suggestions and variations enabled.
func DefaultOptions() Options {
	return Options{
		FuzzyTolerance:     DefaultFuzzyTolerance,
		CaseSensitive:      false,
		PartialMatch:       true,
		SearchContent:      true,
		SearchTitle:        true,
		SearchCategory:     true,
		SearchTags:         true,
		MaxResults:         DefaultMaxResults,
		MinScore:           DefaultMinScore,
		IncludeSuggestions: true,
		MaxSuggestions:     DefaultMaxSuggestions,
		TryQueryVariations: true,
		MaxVariations:      DefaultMaxVariations,
		AutoOptimizeQuery:  true,
	}
}

// Normalize fills zero or negative limits with their defaults.
func (o *Options) Normalize() {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = DefaultMaxSuggestions
	}
	if o.MaxVariations <= 0 {
		o.MaxVariations = DefaultMaxVariations
	}
}

// Validate reports the first out-of-range option.
func (o *Options) Validate() error {
	if o.FuzzyTolerance < 0 || o.FuzzyTolerance > 1 {
		return fmt.Errorf("search options: FuzzyTolerance must be in [0,1], got %v", o.FuzzyTolerance)
	}
	if o.MinScore < 0 || o.MinScore > 1 {
		return fmt.Errorf("search options: MinScore must be in [0,1], got %v", o.MinScore)
	}
	if o.MaxDistance < 0 {
		return fmt.Errorf("search options: MaxDistance must be >= 0, got %d", o.MaxDistance)
	}
	return nil
}
