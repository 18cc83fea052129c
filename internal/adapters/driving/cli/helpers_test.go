package cli

import (
	"context"

	configfile "github.com/samarth-labs/samarth-cli/internal/adapters/driven/config/file"
	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/services"
	"github.com/samarth-labs/samarth-cli/internal/index/hnsw"
)

// mockChunkStore implements driven.ChunkStore in memory.
type mockChunkStore struct {
	chunks map[string]domain.KnowledgeChunk
}

func newMockChunkStore(chunks ...domain.KnowledgeChunk) *mockChunkStore {
	s := &mockChunkStore{chunks: make(map[string]domain.KnowledgeChunk)}
	for _, c := range chunks {
		s.chunks[c.ID] = c
	}
	return s
}

func (s *mockChunkStore) Put(_ context.Context, chunks []domain.KnowledgeChunk) error {
	for _, c := range chunks {
		s.chunks[c.ID] = c
	}
	return nil
}

func (s *mockChunkStore) Get(_ context.Context, id string) (domain.KnowledgeChunk, error) {
	c, ok := s.chunks[id]
	if !ok {
		return domain.KnowledgeChunk{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *mockChunkStore) GetBatch(_ context.Context, ids []string) ([]domain.KnowledgeChunk, error) {
	out := make([]domain.KnowledgeChunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *mockChunkStore) Count(_ context.Context) (int, error) {
	return len(s.chunks), nil
}

func (s *mockChunkStore) Clear(_ context.Context) error {
	s.chunks = make(map[string]domain.KnowledgeChunk)
	return nil
}

func (s *mockChunkStore) Close() error { return nil }

// mockEmbedder returns the same unit vector for every text, so any query
// matches the indexed chunks.
type mockEmbedder struct {
	vector []float32
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return len(m.vector) }

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

func testYear(v int) *int { return &v }

// setupTestServices wires the package-level services against an in-memory
// corpus and returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldEngine := engine
	oldChunkStore := chunkStore
	oldEmbedder := embedder
	oldGenerator := generator
	oldSettings := settings

	chunks := []domain.KnowledgeChunk{
		{
			ID:   "chunk-1",
			Text: "PM-KISAN provides income support of Rs 6000 per year to farmer families.",
			Metadata: domain.ChunkMetadata{
				Source:   "government_policy",
				Scheme:   "pm_kisan",
				Year:     testYear(2019),
				Category: "income_support",
				URL:      "https://pmkisan.gov.in",
			},
		},
		{
			ID:   "chunk-2",
			Text: "Wheat is a rabi crop sown in winter across Punjab and Haryana.",
			Metadata: domain.ChunkMetadata{
				Source: "government_dataset",
				Crop:   "wheat",
				State:  "punjab",
				Year:   testYear(2021),
			},
		},
	}

	vec := hnsw.Normalize([]float32{1, 1, 1, 1})
	idx, err := hnsw.New(hnsw.Config{Dimension: 4, ModelID: "mock-embedder", Seed: 1})
	if err != nil {
		panic(err)
	}
	ids := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
		vectors[i] = vec
	}
	if err := idx.Build(context.Background(), ids, vectors); err != nil {
		panic(err)
	}

	store := newMockChunkStore(chunks...)
	chunkStore = store
	embedder = &mockEmbedder{vector: vec}
	generator = nil
	settings = configfile.Settings{}
	settings.Retrieval.MaxResults = 5
	settings.Index.Dir = "/tmp/samarth-test-index"
	engine = services.NewEngine(idx, store, embedder, nil)

	return func() {
		engine = oldEngine
		chunkStore = oldChunkStore
		embedder = oldEmbedder
		generator = oldGenerator
		settings = oldSettings
	}
}
