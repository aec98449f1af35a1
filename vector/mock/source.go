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


package mock

import (
	"context"

	"github.com/outfield/retriever/vector"
)

// MockSource is a test double for vector.Source.
// It returns canned matches unless custom behavior is injected.
type MockSource struct {
	// SimilarFunc is called by Similar if set.
	// If nil, the canned matches are returned, truncated to limit.
	SimilarFunc func(ctx context.Context, query string, limit int) ([]vector.Match, error)

	matches   []vector.Match
	callCount int
}

var _ vector.Source = (*MockSource)(nil)

// NewMockSource creates a mock source that answers every query with the
// given matches, in the given order.
func NewMockSource(matches ...vector.Match) *MockSource {
	return &MockSource{matches: matches}
}

// Similar returns the canned matches truncated to limit, or delegates
// to SimilarFunc when one is injected.
func (m *MockSource) Similar(ctx context.Context, query string, limit int) ([]vector.Match, error) {
	m.callCount++

	if m.SimilarFunc != nil {
		return m.SimilarFunc(ctx, query, limit)
	}

	if limit < 0 {
		limit = 0
	}
	out := m.matches
	if len(out) > limit {
		out = out[:limit]
	}
	// Copy so callers cannot mutate the canned set.
	result := make([]vector.Match, len(out))
	copy(result, out)
	return result, nil
}

// CallCount returns the number of times Similar was called.
func (m *MockSource) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockSource) Reset() {
	m.callCount = 0
	m.SimilarFunc = nil
}
