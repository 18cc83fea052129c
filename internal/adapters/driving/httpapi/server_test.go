package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
)

// mockQueryService implements driving.QueryService for testing.
type mockQueryService struct {
	answer       domain.Answer
	err          error
	lastQuestion string
	lastMax      int
}

func (m *mockQueryService) Ask(_ context.Context, question string, maxResults int) (domain.Answer, error) {
	m.lastQuestion = question
	m.lastMax = maxResults
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return m.answer, nil
}

func (m *mockQueryService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievalCandidate, error) {
	return nil, nil
}

func testServer(queries *mockQueryService, stats driven.IndexStats) *Server {
	return NewServer(queries, func() driven.IndexStats { return stats }, Config{
		Version:         "test",
		EmbeddingModel:  "all-minilm",
		GenerationModel: "llama3.2",
	})
}

func TestRootBanner(t *testing.T) {
	srv := testServer(&mockQueryService{}, driven.IndexStats{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestHealthWithIndex(t *testing.T) {
	srv := testServer(&mockQueryService{}, driven.IndexStats{
		VectorCount: 128,
		Dimension:   384,
		Trained:     true,
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 128, body.TotalVectors)
	assert.Equal(t, 384, body.Dimension)
	assert.True(t, body.VectorstoreLoaded)
	assert.Equal(t, "all-minilm", body.EmbeddingModel)
}

func TestHealthWithoutIndex(t *testing.T) {
	srv := testServer(&mockQueryService{}, driven.IndexStats{Dimension: 384})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_index", body.Status)
	assert.False(t, body.VectorstoreLoaded)
}

func TestQuery(t *testing.T) {
	year := 2025
	queries := &mockQueryService{
		answer: domain.Answer{
			Text: "PM Dhan-Dhaanya targets 100 districts [Source 1].",
			Citations: []domain.Citation{
				{ID: 1, Source: domain.SourceGovernmentPolicy, Year: &year, Reliability: domain.ReliabilityHigh},
			},
			Confidence: 0.87,
		},
	}
	srv := testServer(queries, driven.IndexStats{Trained: true})

	payload := `{"question": "What is PM Dhan-Dhaanya Krishi Yojana?", "max_results": 3}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What is PM Dhan-Dhaanya Krishi Yojana?", queries.lastQuestion)
	assert.Equal(t, 3, queries.lastMax)

	var body struct {
		Question   string            `json:"question"`
		Answer     string            `json:"answer"`
		Citations  []domain.Citation `json:"citations"`
		Confidence float64           `json:"confidence_score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "What is PM Dhan-Dhaanya Krishi Yojana?", body.Question)
	assert.Contains(t, body.Answer, "[Source 1]")
	require.Len(t, body.Citations, 1)
	assert.Equal(t, domain.ReliabilityHigh, body.Citations[0].Reliability)
	assert.InDelta(t, 0.87, body.Confidence, 1e-9)
}

func TestQueryDefaultsMaxResults(t *testing.T) {
	queries := &mockQueryService{}
	srv := testServer(queries, driven.IndexStats{Trained: true})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"question": "rice production in Punjab"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, queries.lastMax)
}

func TestQueryRejectsEmptyQuestion(t *testing.T) {
	srv := testServer(&mockQueryService{}, driven.IndexStats{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryRejectsBadJSON(t *testing.T) {
	srv := testServer(&mockQueryService{}, driven.IndexStats{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryInvalidInputMapsTo400(t *testing.T) {
	queries := &mockQueryService{err: domain.ErrInvalidInput}
	srv := testServer(queries, driven.IndexStats{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"question": "x"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryEngineFailureMapsTo500(t *testing.T) {
	queries := &mockQueryService{err: domain.ErrEmptyCorpus}
	srv := testServer(queries, driven.IndexStats{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"question": "x"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQueryMethodNotAllowed(t *testing.T) {
	srv := testServer(&mockQueryService{}, driven.IndexStats{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/query", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
