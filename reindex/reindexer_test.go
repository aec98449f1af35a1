package reindex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield/retriever/storage/badger"
	"github.com/outfield/retriever/vector/mock"
)

func TestReindexer_EmbedsEveryRecord(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedRecords(t, repo, 37)

	var progress strings.Builder
	config := &Config{
		BatchSize:      10,
		Concurrency:    3,
		ReportInterval: 10,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
	reindexer := NewReindexer(repo, mock.NewMockEmbedder(), config, &progress)

	require.NoError(t, reindexer.Run(context.Background()))

	records, err := repo.AllRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 37)
	for _, record := range records {
		assert.NotEmpty(t, record.Vector, "record %s has no vector", record.ID)
	}
	assert.Contains(t, progress.String(), "Reindex complete")
}

func TestReindexer_EmptyStore(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	var progress strings.Builder
	reindexer := NewReindexer(repo, mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, progress.String(), "No records found")
}

func TestReindexer_EmbeddingFailureAborts(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedRecords(t, repo, 5)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("service down")
	}

	var progress strings.Builder
	config := &Config{BatchSize: 2, Concurrency: 2, ReportInterval: 10, MaxRetries: 1, RetryDelay: time.Millisecond}
	reindexer := NewReindexer(repo, embedder, config, &progress)

	err = reindexer.Run(context.Background())
	assert.ErrorContains(t, err, "service down")
}
