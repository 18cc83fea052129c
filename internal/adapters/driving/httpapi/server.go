// Package httpapi exposes the query engine over HTTP.
//
// Endpoints:
//   - GET  /        service banner
//   - GET  /health  index and model status
//   - POST /query   answer a question
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driving"
	"github.com/samarth-labs/samarth-cli/internal/logger"
)

// maxQuestionLength bounds request bodies; questions are short by nature.
const maxQuestionLength = 4096

// Config holds server metadata reported by the banner and health endpoints.
type Config struct {
	// Version is the build version string.
	Version string

	// EmbeddingModel names the embedding model in use.
	EmbeddingModel string

	// GenerationModel names the generation model in use, empty when the
	// engine runs retrieval-only.
	GenerationModel string

	// DefaultMaxResults is the context size used when a request does not
	// specify one (default 5).
	DefaultMaxResults int
}

// Server handles HTTP requests against the query engine.
type Server struct {
	queries driving.QueryService
	stats   func() driven.IndexStats
	cfg     Config
	mux     *http.ServeMux
}

// NewServer creates a server around the query service. stats reports the
// live index shape for the health endpoint.
func NewServer(queries driving.QueryService, stats func() driven.IndexStats, cfg Config) *Server {
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = 5
	}

	s := &Server{
		queries: queries,
		stats:   stats,
		cfg:     cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /query", s.handleQuery)
	s.mux = mux

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// queryRequest is the POST /query request body.
type queryRequest struct {
	Question   string `json:"question"`
	MaxResults int    `json:"max_results,omitempty"`
}

// queryResponse wraps the answer with the echoed question and timing.
type queryResponse struct {
	Question string `json:"question"`
	domain.Answer
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// healthResponse is the GET /health response body.
type healthResponse struct {
	Status            string `json:"status"`
	VectorstoreLoaded bool   `json:"vectorstore_loaded"`
	TotalVectors      int    `json:"total_vectors"`
	Dimension         int    `json:"dimension"`
	EmbeddingModel    string `json:"embedding_model"`
	GenerationModel   string `json:"generation_model,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "Samarth Q&A API",
		"status":  "running",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.stats()

	status := "healthy"
	if !stats.Trained {
		status = "no_index"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:            status,
		VectorstoreLoaded: stats.Trained,
		TotalVectors:      stats.VectorCount,
		Dimension:         stats.Dimension,
		EmbeddingModel:    s.cfg.EmbeddingModel,
		GenerationModel:   s.cfg.GenerationModel,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuestionLength))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = s.cfg.DefaultMaxResults
	}

	start := time.Now()
	answer, err := s.queries.Ask(r.Context(), req.Question, req.MaxResults)
	if err != nil {
		logger.Warn("query failed: %v", err)
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "query failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Question:       req.Question,
		Answer:         answer,
		ProcessingTime: time.Since(start).Seconds(),
		Timestamp:      time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
