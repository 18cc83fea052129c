package driving

import (
	"context"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

// QueryService answers natural-language questions over the indexed corpus.
type QueryService interface {
	// Ask runs the full pipeline for one question: intent classification,
	// retrieval, re-ranking, generation and citation resolution.
	// maxResults bounds the context passed to generation (min 1).
	Ask(ctx context.Context, question string, maxResults int) (domain.Answer, error)

	// Retrieve runs the pipeline up to and including re-ranking, returning
	// the ranked context without generating an answer.
	Retrieve(ctx context.Context, question string, maxResults int) ([]domain.RetrievalCandidate, error)
}
