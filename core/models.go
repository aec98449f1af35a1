package core

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for a record.
// Callers may supply their own IDs; records ingested without one receive a
// content-based ID from IDFromContent.
type ID string

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// Field identifies a searchable text field of a Record.
type Field string

const (
	// FieldContent is the record's main body text.
	FieldContent Field = "content"
	// FieldTitle is the record's optional title.
	FieldTitle Field = "title"
	// FieldCategory is the record's optional category label.
	FieldCategory Field = "category"
	// FieldTags covers the record's optional tag list.
	FieldTags Field = "tags"
	// FieldFuzzy marks a match produced by approximate matching rather
	// than by one specific field.
	FieldFuzzy Field = "fuzzy"
)

// Record is a short searchable document. Content is the only required
// field; Title, Category and Tags are optional and simply excluded from
// scoring when absent. A Record is treated as immutable for the duration
// of a search call.
type Record struct {
	ID        ID
	Content   string
	Title     string
	Category  string
	Tags      []string
	Vector    []float32         // Embedding vector for semantic search (populated by processors)
	CreatedAt time.Time         // When the record was inserted into the database
	UpdatedAt time.Time         // When the record was last updated
	Metadata  map[string]string // Optional metadata (e.g., "source", "author")
}

// EmbeddingText returns the record's textual fields joined into the single
// string that embedding providers receive.
func (r *Record) EmbeddingText() string {
	parts := make([]string, 0, 4)
	if r.Title != "" {
		parts = append(parts, r.Title)
	}
	if r.Content != "" {
		parts = append(parts, r.Content)
	}
	if r.Category != "" {
		parts = append(parts, r.Category)
	}
	if len(r.Tags) > 0 {
		parts = append(parts, strings.Join(r.Tags, " "))
	}
	return strings.Join(parts, " ")
}

// MatchDetail describes how a single field of a record matched a query.
type MatchDetail struct {
	Field        Field
	MatchedTerms []string
	FieldScore   float64 // in [0,1]
}

// SearchResult pairs a record with its relevance score for one search call.
// For exact matches Score is the capped sum of the matched field weights;
// for fuzzy matches it is the best single-field fuzzy score.
type SearchResult struct {
	Record       *Record
	Score        float64
	MatchDetails []MatchDetail
}

// SearchType reports which stage of the pipeline produced a result set.
type SearchType string

const (
	// SearchTypeExact means substring field matching on the query as given.
	SearchTypeExact SearchType = "exact"
	// SearchTypeFuzzy means approximate matching on the query as given.
	SearchTypeFuzzy SearchType = "fuzzy"
	// SearchTypeOptimized means the results came from a rewritten query,
	// either auto-optimization or a generated variation.
	SearchTypeOptimized SearchType = "optimized"
	// SearchTypeMixed means lexical and vector engines both contributed.
	SearchTypeMixed SearchType = "mixed"
)

// SearchResponse is the outcome of one orchestrated search call.
// Success is false only for degenerate input (empty query); a well-formed
// query that matches nothing still succeeds with Count zero.
type SearchResponse struct {
	Success        bool
	Query          string
	OptimizedQuery string // set when a rewritten query produced the results
	Results        []*SearchResult
	Count          int
	Suggestions    []string // set when the search came up empty and suggestions were requested
	SearchType     SearchType
}

// ResultSource identifies which engine found a hybrid result.
type ResultSource string

const (
	// SourceLexical marks results found by the lexical orchestrator.
	SourceLexical ResultSource = "lexical"
	// SourceVector marks results found by the vector similarity source.
	SourceVector ResultSource = "vector"
)

// HybridResult is a merged lexical+vector search hit. CombinedScore is a
// pure function of the two component scores and the merge strategy's
// parameters; it stays in [0,1] for every strategy except rank fusion,
// whose scores are unbounded but rank-monotonic.
type HybridResult struct {
	Record        *Record
	CombinedScore float64
	LexicalScore  float64
	VectorScore   float64
	Sources       []ResultSource
}

// HybridResponse is the outcome of one hybrid search call.
// Degraded is true when the vector source failed or timed out and the
// results are lexical-only.
type HybridResponse struct {
	Success    bool
	Query      string
	Results    []*HybridResult
	Count      int
	SearchType SearchType
	Degraded   bool
}
