package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository on top of an open backend.
func NewRecordRepository(backend *Backend) *RecordRepository {
	return &RecordRepository{backend: backend}
}

// Close is a no-op. The underlying database is owned by the Backend and
// must be closed separately.
func (r *RecordRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *RecordRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*storage.ScoredRecord, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecords adds one or more records to storage. Records with an empty ID
// receive a content-based ID derived from their text fields, so ingesting
// the same document twice surfaces as ErrDuplicateKey rather than a silent
// second copy.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			if record.ID == "" {
				record.ID = core.IDFromContent(record.EmbeddingText())
			}
			if record.CreatedAt.IsZero() {
				record.CreatedAt = now
			}
			record.UpdatedAt = now

			key := makeRecordKey(record.ID)
			if _, err := tx.Get(key); err == nil {
				return fmt.Errorf("%w: %s", storage.ErrDuplicateKey, record.ID)
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			// Store primary record
			if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
				return err
			}

			// Update category index
			if record.Category != "" {
				catKey := makeCategoryKey(record.Category, record.ID)
				if err := tx.Set(catKey, storage.MarshalID(record.ID)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateRecords updates existing records.
func (r *RecordRepository) UpdateRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeRecordKey(record.ID)

			// Read old record to detect changes
			old, err := readRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, record.ID)
			}

			// Carry over the original creation time unless the caller set one
			if record.CreatedAt.IsZero() {
				record.CreatedAt = old.CreatedAt
			}
			record.UpdatedAt = time.Now().UTC()

			// Store updated record
			if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
				return err
			}

			// Update category index if the category changed
			if old.Category != record.Category {
				if old.Category != "" {
					if err := tx.Delete(makeCategoryKey(old.Category, record.ID)); err != nil {
						return err
					}
				}
				if record.Category != "" {
					catKey := makeCategoryKey(record.Category, record.ID)
					if err := tx.Set(catKey, storage.MarshalID(record.ID)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// DeleteRecords removes records by their IDs.
func (r *RecordRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)

			// Read record to get metadata for index cleanup
			record, err := readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
			}

			// Delete from category index
			if record.Category != "" {
				if err := tx.Delete(makeCategoryKey(record.Category, id)); err != nil {
					return err
				}
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetRecords retrieves multiple records by their IDs.
func (r *RecordRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.Record, error) {
	var result []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readRecord(tx, makeRecordKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecordsByCategory retrieves all records with the given category.
// Results come back in ID order because the index keys embed the ID.
func (r *RecordRepository) GetRecordsByCategory(ctx context.Context, category string) ([]*core.Record, error) {
	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialCategoryKey(category)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			// Read the ID from the index
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// AllRecords retrieves every stored record in ID order.
func (r *RecordRepository) AllRecords(ctx context.Context) ([]*core.Record, error) {
	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.Record
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			}); err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountRecords returns the number of stored records.
func (r *RecordRepository) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Key-only iteration; values are never read
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// readRecord reads a record from the transaction.
// Returns nil with no error if the key does not exist.
func readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalRecord(val)
		return unmarshalErr
	})
	return record, err
}
