package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driving"
	"github.com/samarth-labs/samarth-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.QueryService = (*Engine)(nil)

// Default number of context chunks passed to generation.
const defaultMaxResults = 5

// fallbackContextChunks bounds the fallback template to the top chunks.
const fallbackContextChunks = 3

// Engine orchestrates the question-answering pipeline: intent
// classification, retrieval, re-ranking, generation and citation resolution.
//
// The engine itself is stateless per call; the only shared mutable state is
// the vector index handle, which may be swapped by a reload while queries
// are in flight.
type Engine struct {
	mu        sync.RWMutex
	index     driven.VectorIndex
	chunks    driven.ChunkStore
	embedder  driven.EmbeddingService
	generator driven.GenerationService
}

// NewEngine creates a query engine. The embedder and generator are optional
// (can be nil); their absence degrades answers instead of failing queries.
func NewEngine(
	index driven.VectorIndex,
	chunks driven.ChunkStore,
	embedder driven.EmbeddingService,
	generator driven.GenerationService,
) *Engine {
	return &Engine{
		index:     index,
		chunks:    chunks,
		embedder:  embedder,
		generator: generator,
	}
}

// SwapIndex atomically replaces the vector index. In-flight queries finish
// against the index they started with; new queries see the replacement.
// The previous index is returned so the caller can close it.
func (e *Engine) SwapIndex(idx driven.VectorIndex) driven.VectorIndex {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.index
	e.index = idx
	return old
}

// currentIndex returns the active index handle.
func (e *Engine) currentIndex() driven.VectorIndex {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index
}

// Stats reports the active index shape, or a zero value when no index is
// loaded.
func (e *Engine) Stats() driven.IndexStats {
	idx := e.currentIndex()
	if idx == nil {
		return driven.IndexStats{}
	}
	return idx.Stats()
}

// Ask runs the full pipeline for one question.
//
// Backend outages never fail the call: an unreachable embedding backend
// yields the no-context answer, and an unreachable generation backend yields
// a templated answer assembled from the top chunks, marked Degraded.
func (e *Engine) Ask(ctx context.Context, question string, maxResults int) (domain.Answer, error) {
	logger.Section("Query Pipeline")
	logger.Debug("Question: %q", question)

	if maxResults < 1 {
		maxResults = defaultMaxResults
	}

	intent := ClassifyIntent(question)
	logger.Debug("Intent: type=%s states=%v crops=%v schemes=%v years=%v",
		intent.Type, intent.States, intent.Crops, intent.Schemes, intent.Years)

	ranked, err := e.retrieve(ctx, question, intent, maxResults)
	if err != nil {
		return domain.Answer{}, err
	}
	logger.Debug("Context: %d chunks", len(ranked))

	if len(ranked) == 0 {
		return noContextAnswer(question), nil
	}

	chunks := contextChunks(ranked)
	answerText, degraded := e.generateAnswer(ctx, question, ranked)

	return domain.Answer{
		Text:          answerText,
		Citations:     ExtractCitations(answerText, chunks),
		PolicyContext: PolicyContext(chunks),
		Context:       ranked,
		Confidence:    confidenceScore(ranked),
		Degraded:      degraded,
	}, nil
}

// Retrieve runs the pipeline up to and including re-ranking.
func (e *Engine) Retrieve(ctx context.Context, question string, maxResults int) ([]domain.RetrievalCandidate, error) {
	if maxResults < 1 {
		maxResults = defaultMaxResults
	}
	return e.retrieve(ctx, question, ClassifyIntent(question), maxResults)
}

// retrieve embeds the question, fetches a broad candidate pool from the
// index, hydrates chunk records and re-ranks down to maxResults.
//
// An absent or unreachable embedding backend degrades to an empty context
// rather than failing the query.
func (e *Engine) retrieve(ctx context.Context, question string, intent domain.QueryIntent, maxResults int) ([]domain.RetrievalCandidate, error) {
	idx := e.currentIndex()
	if idx == nil || !idx.Stats().Trained {
		logger.Warn("Vector index not loaded")
		return nil, nil
	}
	if e.embedder == nil {
		logger.Warn("Embedding backend not configured: %v", domain.ErrEmbeddingUnavailable)
		return nil, nil
	}

	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		logger.Warn("Embedding failed (%v): %v", domain.ErrEmbeddingUnavailable, err)
		return nil, nil
	}
	normalize(vector)

	// Over-fetch so the hard filter and boosts have material to work with;
	// the index itself widens its internal pool to at least 3x again.
	hits, err := idx.Search(ctx, vector, maxResults*2)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}
	records, err := e.chunks.GetBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate chunks: %w", err)
	}
	byID := make(map[string]domain.KnowledgeChunk, len(records))
	for _, c := range records {
		byID[c.ID] = c
	}

	candidates := make([]domain.RetrievalCandidate, 0, len(hits))
	for _, h := range hits {
		chunk, ok := byID[h.ChunkID]
		if !ok {
			logger.Warn("Index hit %s missing from chunk store", h.ChunkID)
			continue
		}
		candidates = append(candidates, domain.RetrievalCandidate{
			Chunk:    chunk,
			RawScore: h.Distance,
		})
	}

	return Rerank(candidates, intent, maxResults), nil
}

// generateAnswer produces the answer text, falling back to a template
// assembled from the top chunks when the generation backend is unavailable.
func (e *Engine) generateAnswer(ctx context.Context, question string, ranked []domain.RetrievalCandidate) (text string, degraded bool) {
	if e.generator == nil {
		logger.Warn("Generation backend not configured: %v", domain.ErrGenerationUnavailable)
		return fallbackAnswer(ranked), true
	}

	prompt := buildPrompt(question, ranked)
	answer, err := e.generator.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("Generation failed (%v): %v", domain.ErrGenerationUnavailable, err)
		return fallbackAnswer(ranked), true
	}
	return strings.TrimSpace(answer), false
}

// buildPrompt assembles the generation prompt: numbered source blocks with
// reliability, vintage and metadata, followed by citation instructions.
// Block numbering matches the [Source N] marker convention the citation
// resolver expects back.
func buildPrompt(question string, ranked []domain.RetrievalCandidate) string {
	var b strings.Builder
	b.WriteString("You are an expert agricultural data analyst for the Government of India, ")
	b.WriteString("answering from the provided sources only.\n\n")
	b.WriteString("## Available Data Sources:\n")

	for i, c := range ranked {
		meta := c.Chunk.Metadata
		vintage := "Recent"
		if meta.Year != nil {
			vintage = fmt.Sprintf("%d", *meta.Year)
		}
		sourceType := meta.Source
		if sourceType == "" {
			sourceType = "Data Source"
		}
		fmt.Fprintf(&b, "[Source %d] (%s - %s - %s):\n%s\n",
			i+1, meta.Reliability(), vintage, sourceType, c.Chunk.Text)
		fmt.Fprintf(&b, "Metadata: State=%s, Crop=%s, Category=%s\n\n",
			orNA(meta.State), orNA(meta.Crop), orNA(meta.Category))
	}

	b.WriteString("## User Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n## Instructions:\n")
	b.WriteString("1. Answer directly using only the sources above\n")
	b.WriteString("2. Cite every claim with its [Source X] marker\n")
	b.WriteString("3. Include scheme and budget context where relevant\n")
	b.WriteString("4. Use specific numbers from the sources\n")
	b.WriteString("5. State data limitations or gaps clearly\n\n")
	b.WriteString("Answer:")
	return b.String()
}

// fallbackAnswer assembles a lower-quality templated answer directly from
// the top retrieved chunks, with literal [Source N] markers so citations
// still resolve against the context.
func fallbackAnswer(ranked []domain.RetrievalCandidate) string {
	var b strings.Builder
	b.WriteString("Based on available agricultural data sources:\n")

	limit := len(ranked)
	if limit > fallbackContextChunks {
		limit = fallbackContextChunks
	}
	for i := 0; i < limit; i++ {
		text := ranked[i].Chunk.Text
		if runes := []rune(text); len(runes) > 200 {
			text = string(runes[:200]) + "..."
		}
		fmt.Fprintf(&b, "\n[Source %d]: %s\n", i+1, text)
	}

	b.WriteString("\nThis is a reduced-quality summary: the answer generation backend was unavailable.")
	return b.String()
}

// noContextAnswer is the response when retrieval produced nothing usable.
// Not an error condition; confidence sits at the neutral default.
func noContextAnswer(question string) domain.Answer {
	return domain.Answer{
		Text: fmt.Sprintf("I don't have enough information to answer: %s. "+
			"Please ensure the relevant data sources are ingested.", question),
		Citations:     []domain.Citation{},
		PolicyContext: []domain.PolicyRecord{},
		Confidence:    0.5,
	}
}

// confidenceScore derives a [0,1] confidence from the context's adjusted
// scores: clamp(1 - mean(adjusted)). Lower distances mean higher confidence.
func confidenceScore(ranked []domain.RetrievalCandidate) float64 {
	if len(ranked) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, c := range ranked {
		sum += c.AdjustedScore
	}
	score := 1.0 - sum/float64(len(ranked))
	return math.Max(0, math.Min(1, score))
}

// contextChunks projects the ranked candidates to their chunks, in context
// order, for the citation resolver.
func contextChunks(ranked []domain.RetrievalCandidate) []domain.KnowledgeChunk {
	chunks := make([]domain.KnowledgeChunk, len(ranked))
	for i, c := range ranked {
		chunks[i] = c.Chunk
	}
	return chunks
}

// normalize scales a vector to unit L2 norm in place. Zero vectors are left
// untouched.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
