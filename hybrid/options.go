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

package hybrid

import (
	"fmt"
	"time"

	"github.com/outfield/retriever/search"
)

// Strategy selects how lexical and vector result sets are folded together.
type Strategy string

const (
	// StrategyWeighted combines the two scores as a weighted average.
	StrategyWeighted Strategy = "weighted"

	// StrategyRankFusion combines the two rankings by reciprocal rank
	// fusion, ignoring the raw scores.
	StrategyRankFusion Strategy = "rank_fusion"

	// StrategyBestOfBoth unions each engine's top half of the result
	// budget, keeping the better score for records found by both.
	StrategyBestOfBoth Strategy = "best_of_both"
)

const (
	// DefaultTraditionalWeight is the lexical score weight under the
	// weighted strategy.
	DefaultTraditionalWeight = 0.6

	// DefaultVectorWeight is the vector score weight under the weighted
	// strategy.
	DefaultVectorWeight = 0.4

	// DefaultMinCombinedScore filters out merged results scoring below
	// this value.
	DefaultMinCombinedScore = 0.3

	// DefaultMaxResults caps the number of merged results returned.
	DefaultMaxResults = 10

	// DefaultVectorTimeout bounds how long the merger waits for the
	// vector source before degrading to lexical-only results.
	DefaultVectorTimeout = 2 * time.Second
)

// Options controls a single hybrid search request. The zero value is not
// usable; start from DefaultOptions and override what you need.
type Options struct {
	// TraditionalWeight scales the lexical score under the weighted
	// strategy.
	TraditionalWeight float64

	// VectorWeight scales the vector score under the weighted strategy.
	VectorWeight float64

	// MinCombinedScore drops merged results scoring below this value.
	MinCombinedScore float64

	// Strategy selects the merge algorithm.
	Strategy Strategy

	// MaxResults caps the number of merged results returned.
	MaxResults int

	// VectorTimeout bounds the vector source call. On expiry the
	// response degrades to lexical-only results.
	VectorTimeout time.Duration

	// Lexical configures the lexical pass.
	Lexical search.Options
}

// DefaultOptions returns the options used when the caller does not
// override anything: the weighted strategy at 0.6/0.4 with the default
// lexical pipeline settings.
func DefaultOptions() Options {
	return Options{
		TraditionalWeight: DefaultTraditionalWeight,
		VectorWeight:      DefaultVectorWeight,
		MinCombinedScore:  DefaultMinCombinedScore,
		Strategy:          StrategyWeighted,
		MaxResults:        DefaultMaxResults,
		VectorTimeout:     DefaultVectorTimeout,
		Lexical:           search.DefaultOptions(),
	}
}

// Normalize fills zero limits and the empty strategy with their defaults.
func (o *Options) Normalize() {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.VectorTimeout <= 0 {
		o.VectorTimeout = DefaultVectorTimeout
	}
	if o.Strategy == "" {
		o.Strategy = StrategyWeighted
	}
	if o.TraditionalWeight == 0 && o.VectorWeight == 0 {
		o.TraditionalWeight = DefaultTraditionalWeight
		o.VectorWeight = DefaultVectorWeight
	}
	o.Lexical.Normalize()
}

// Validate reports the first out-of-range option.
func (o *Options) Validate() error {
	if o.TraditionalWeight < 0 {
		return fmt.Errorf("hybrid options: TraditionalWeight must be >= 0, got %v", o.TraditionalWeight)
	}
	if o.VectorWeight < 0 {
		return fmt.Errorf("hybrid options: VectorWeight must be >= 0, got %v", o.VectorWeight)
	}
	if o.MinCombinedScore < 0 || o.MinCombinedScore > 1 {
		return fmt.Errorf("hybrid options: MinCombinedScore must be in [0,1], got %v", o.MinCombinedScore)
	}
	switch o.Strategy {
	case StrategyWeighted, StrategyRankFusion, StrategyBestOfBoth:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, o.Strategy)
	}
	return o.Lexical.Validate()
}
