// Package mock provides test double implementations of the vector
// package interfaces.
//
// This package contains mock implementations of vector.Embedder and
// vector.Source for use in unit tests. The mocks allow tests to run
// without external embedding services and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vec, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Canned similarity results
//	source := mock.NewMockSource(
//	    vector.Match{ID: "a", Score: 0.9},
//	    vector.Match{ID: "b", Score: 0.4},
//	)
//
// # Default Behavior
//
//   - MockEmbedder: returns deterministic vectors based on text hash
//   - MockSource: returns its canned matches, truncated to the limit
package mock
