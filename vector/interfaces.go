package vector

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Source answers semantic-similarity queries over some record corpus.
// Implementations must be thread-safe for concurrent use.
type Source interface {
	// Similar returns up to limit record matches for the query, ordered
	// by descending similarity. Scores are in [0, 1]; records below any
	// implementation-level floor are simply absent. An empty result is
	// not an error.
	Similar(ctx context.Context, query string, limit int) ([]Match, error)
}
