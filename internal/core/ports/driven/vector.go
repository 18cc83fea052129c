package driven

import "context"

// VectorIndex provides approximate nearest-neighbour search over chunk
// embeddings. Scores are cosine distances: lower means more similar.
//
// Implementations must allow concurrent Search calls against a stable
// snapshot; Add and Build take effect atomically with respect to readers.
type VectorIndex interface {
	// Build constructs the index over the given chunk ids and vectors,
	// replacing any previous contents. Returns domain.ErrEmptyCorpus when
	// no usable vectors are supplied.
	Build(ctx context.Context, chunkIDs []string, vectors [][]float32) error

	// Add inserts a vector for the given chunk ID into a live index.
	// On an empty index this is equivalent to Build.
	Add(ctx context.Context, chunkID string, vector []float32) error

	// Search finds up to k nearest neighbours to the query vector,
	// ordered by ascending distance. The internal candidate pool is at
	// least 3*k so downstream filtering does not starve the final top-k.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Stats reports the current index shape.
	Stats() IndexStats

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Distance is the cosine distance to the query (lower = more similar).
	Distance float64
}

// IndexStats describes an index's shape.
type IndexStats struct {
	// VectorCount is the number of stored vectors.
	VectorCount int

	// Dimension is the embedding dimensionality.
	Dimension int

	// Trained is true once the index holds at least one vector.
	Trained bool
}
