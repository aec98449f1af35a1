package storage

import (
	"context"

	"github.com/outfield/retriever/core"
)

// ScoredRecord pairs a stored record with its vector similarity score.
// Scores are cosine similarities, so they fall in [-1, 1] and callers
// normally filter at zero or above.
type ScoredRecord struct {
	Record *core.Record
	Score  float32
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds records whose embedding vectors are similar to the
	// given vector. Returns records with similarity >= minSimilarity, up to
	// limit results. Results are ordered by similarity score (highest first).
	// Records without a stored vector are skipped.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*ScoredRecord, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// RecordRepository provides operations for managing searchable records.
type RecordRepository interface {
	Repository
	// AddRecords adds one or more records to storage.
	// Records with an empty ID receive a content-based ID derived from
	// their text fields. Sets CreatedAt if not already set.
	// Returns ErrDuplicateKey if a record with the same ID already exists.
	// Returns the records with IDs and timestamps populated.
	AddRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error)

	// UpdateRecords updates existing records.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error)

	// DeleteRecords removes records by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.Record, error)

	// GetRecords retrieves multiple records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.Record, error)

	// GetRecordsByCategory retrieves all records with the given category,
	// ordered by ID.
	GetRecordsByCategory(ctx context.Context, category string) ([]*core.Record, error)

	// AllRecords retrieves every stored record, ordered by ID.
	AllRecords(ctx context.Context) ([]*core.Record, error)

	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)
}
