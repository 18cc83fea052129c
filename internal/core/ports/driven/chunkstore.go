package driven

import (
	"context"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

// ChunkStore persists knowledge chunks (text and metadata). The vector index
// stores only chunk ids; search hits are hydrated against this store.
type ChunkStore interface {
	// Put inserts chunks. Existing ids are overwritten.
	Put(ctx context.Context, chunks []domain.KnowledgeChunk) error

	// Get retrieves a chunk by id. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (domain.KnowledgeChunk, error)

	// GetBatch retrieves multiple chunks, preserving input order.
	// Missing ids are skipped, not errors.
	GetBatch(ctx context.Context, ids []string) ([]domain.KnowledgeChunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear removes all chunks. Used by full rebuilds.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
