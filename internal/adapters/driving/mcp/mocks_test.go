package mcp

import (
	"context"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer       domain.Answer
	ranked       []domain.RetrievalCandidate
	err          error
	lastQuestion string
	lastMax      int
}

func (m *mockQueryService) Ask(_ context.Context, question string, maxResults int) (domain.Answer, error) {
	m.lastQuestion = question
	m.lastMax = maxResults
	return m.answer, m.err
}

func (m *mockQueryService) Retrieve(_ context.Context, question string, maxResults int) ([]domain.RetrievalCandidate, error) {
	m.lastQuestion = question
	m.lastMax = maxResults
	return m.ranked, m.err
}

// mockChunkStore is a mock implementation of driven.ChunkStore.
type mockChunkStore struct {
	chunk domain.KnowledgeChunk
	err   error
}

func (m *mockChunkStore) Put(_ context.Context, _ []domain.KnowledgeChunk) error {
	return m.err
}

func (m *mockChunkStore) Get(_ context.Context, _ string) (domain.KnowledgeChunk, error) {
	return m.chunk, m.err
}

func (m *mockChunkStore) GetBatch(_ context.Context, _ []string) ([]domain.KnowledgeChunk, error) {
	return nil, m.err
}

func (m *mockChunkStore) Count(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockChunkStore) Clear(_ context.Context) error {
	return m.err
}

func (m *mockChunkStore) Close() error {
	return nil
}

func fixedStats(stats driven.IndexStats) func() driven.IndexStats {
	return func() driven.IndexStats { return stats }
}
