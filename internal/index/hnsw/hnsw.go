package hnsw

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default construction parameters, matching the corpus sizes this engine
// serves (tens of thousands of chunks).
const (
	// DefaultM is the maximum node degree on upper layers; layer 0 allows 2M.
	DefaultM = 16

	// DefaultEfConstruction is the candidate list breadth while building.
	DefaultEfConstruction = 200

	// DefaultEfSearch is the default candidate list breadth while searching.
	DefaultEfSearch = 100

	// normTolerance is the allowed deviation of an inserted vector's L2
	// norm from 1.
	normTolerance = 1e-3
)

// Config holds index construction parameters.
type Config struct {
	// Dimension is the embedding vector size. Required.
	Dimension int

	// M is the maximum graph degree above layer 0 (default 16).
	M int

	// EfConstruction is the candidate breadth while building (default 200).
	EfConstruction int

	// EfSearch is the default candidate breadth while searching (default 100).
	EfSearch int

	// ModelID names the embedding model the vectors came from. Recorded in
	// the persisted descriptor.
	ModelID string

	// Seed fixes the level generator for reproducible graphs. Zero means
	// time-seeded.
	Seed int64
}

// withDefaults fills unset parameters.
func (c Config) withDefaults() Config {
	if c.M <= 0 {
		c.M = DefaultM
	}
	if c.EfConstruction <= 0 {
		c.EfConstruction = DefaultEfConstruction
	}
	if c.EfSearch <= 0 {
		c.EfSearch = DefaultEfSearch
	}
	return c
}

// node is one graph vertex. neighbors holds one adjacency list per layer,
// from layer 0 (densest) up to the node's top layer.
type node struct {
	chunkID   string
	vector    []float32
	neighbors [][]uint32
}

func (n *node) level() int { return len(n.neighbors) - 1 }

// Index is an in-memory HNSW graph over unit vectors.
type Index struct {
	mu        sync.RWMutex
	cfg       Config
	nodes     []*node
	byID      map[string]uint32
	entry     uint32
	maxLevel  int // -1 while empty
	levelMult float64
	rng       *rand.Rand
	createdAt time.Time
	closed    bool
}

// New creates an empty index.
func New(cfg Config) (*Index, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("hnsw: dimension must be positive: %w", domain.ErrInvalidInput)
	}
	cfg = cfg.withDefaults()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Index{
		cfg:       cfg,
		byID:      make(map[string]uint32),
		maxLevel:  -1,
		levelMult: 1.0 / math.Log(float64(cfg.M)),
		rng:       rand.New(rand.NewSource(seed)),
		createdAt: time.Now().UTC(),
	}, nil
}

// Build constructs the graph over the given chunk ids and vectors,
// replacing any previous contents. Returns domain.ErrEmptyCorpus when no
// usable vectors are supplied.
func (i *Index) Build(ctx context.Context, chunkIDs []string, vectors [][]float32) error {
	if len(chunkIDs) != len(vectors) {
		return fmt.Errorf("hnsw: %d ids for %d vectors: %w", len(chunkIDs), len(vectors), domain.ErrInvalidInput)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return domain.ErrIndexClosed
	}

	usable := 0
	for idx := range chunkIDs {
		if chunkIDs[idx] != "" && len(vectors[idx]) > 0 {
			usable++
		}
	}
	if usable == 0 {
		return domain.ErrEmptyCorpus
	}

	// Reset and rebuild under the one write lock so readers only ever see
	// the previous complete graph or the new one.
	i.nodes = nil
	i.byID = make(map[string]uint32, usable)
	i.maxLevel = -1
	i.createdAt = time.Now().UTC()

	for idx := range chunkIDs {
		if chunkIDs[idx] == "" || len(vectors[idx]) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.addLocked(chunkIDs[idx], vectors[idx]); err != nil {
			return err
		}
	}
	return nil
}

// Add inserts a vector for the given chunk ID into the live graph.
// On an empty index this is equivalent to a one-vector Build.
func (i *Index) Add(_ context.Context, chunkID string, vector []float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return domain.ErrIndexClosed
	}
	return i.addLocked(chunkID, vector)
}

func (i *Index) addLocked(chunkID string, vector []float32) error {
	if chunkID == "" {
		return fmt.Errorf("hnsw: empty chunk id: %w", domain.ErrInvalidInput)
	}
	if len(vector) != i.cfg.Dimension {
		return fmt.Errorf("hnsw: vector has %d dimensions, index has %d: %w",
			len(vector), i.cfg.Dimension, domain.ErrDimensionMismatch)
	}
	if _, exists := i.byID[chunkID]; exists {
		return fmt.Errorf("hnsw: duplicate chunk id %q: %w", chunkID, domain.ErrInvalidInput)
	}
	if n := Norm(vector); math.Abs(n-1.0) > normTolerance {
		return fmt.Errorf("hnsw: vector norm %.6f for chunk %q: %w", n, chunkID, domain.ErrNotNormalized)
	}

	i.insert(chunkID, vector)
	return nil
}

// Search finds up to k nearest neighbours to the query vector, ordered by
// ascending cosine distance. The internal candidate breadth is at least 3*k
// so downstream filtering has enough material.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return nil, domain.ErrIndexClosed
	}
	if len(query) != i.cfg.Dimension {
		return nil, fmt.Errorf("hnsw: query has %d dimensions, index has %d: %w",
			len(query), i.cfg.Dimension, domain.ErrDimensionMismatch)
	}
	if k <= 0 || i.maxLevel < 0 {
		return nil, nil
	}

	ef := i.cfg.EfSearch
	if min := 3 * k; ef < min {
		ef = min
	}

	// Greedy descent through the sparse upper layers, then a breadth-ef
	// scan of layer 0.
	ep := i.entry
	for layer := i.maxLevel; layer > 0; layer-- {
		ep = i.greedyClosest(query, ep, layer)
	}
	candidates := i.searchLayer(query, ep, ef, 0)

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	hits := make([]driven.VectorHit, len(candidates))
	for idx, c := range candidates {
		hits[idx] = driven.VectorHit{
			ChunkID:  i.nodes[c.id].chunkID,
			Distance: c.dist,
		}
	}
	return hits, nil
}

// Stats reports the current graph shape.
func (i *Index) Stats() driven.IndexStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return driven.IndexStats{
		VectorCount: len(i.nodes),
		Dimension:   i.cfg.Dimension,
		Trained:     len(i.nodes) > 0,
	}
}

// Close releases the graph. Subsequent operations fail with ErrIndexClosed.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	i.nodes = nil
	i.byID = nil
	return nil
}

// Norm returns the L2 norm of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales a vector to unit L2 norm in place and returns it.
// Zero vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	inv := 1.0 / n
	for idx := range v {
		v[idx] = float32(float64(v[idx]) * inv)
	}
	return v
}
