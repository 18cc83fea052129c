package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the natural-language question to answer"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of context chunks (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer     string            `json:"answer"`
	Citations  []domain.Citation `json:"citations"`
	Confidence float64           `json:"confidence"`
	Degraded   bool              `json:"degraded,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to retrieve context for"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []RetrievedChunk `json:"chunks"`
	Count  int              `json:"count"`
}

// RetrievedChunk is a single ranked chunk.
type RetrievedChunk struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Source   string  `json:"source,omitempty"`
	State    string  `json:"state,omitempty"`
	Crop     string  `json:"crop,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Category string  `json:"category,omitempty"`
	Scheme   string  `json:"scheme,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question over the indexed agricultural corpus with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve ranked context chunks for a question without generating an answer",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	answer, err := s.ports.Query.Ask(ctx, input.Question, maxResults)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:     answer.Text,
		Citations:  answer.Citations,
		Confidence: answer.Confidence,
		Degraded:   answer.Degraded,
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	ranked, err := s.ports.Query.Retrieve(ctx, input.Question, limit)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: make([]RetrievedChunk, len(ranked)),
		Count:  len(ranked),
	}

	for i := range ranked {
		chunk := ranked[i].Chunk
		output.Chunks[i] = RetrievedChunk{
			ID:       chunk.ID,
			Text:     chunk.Text,
			Score:    ranked[i].AdjustedScore,
			Source:   chunk.Metadata.Source,
			State:    chunk.Metadata.State,
			Crop:     chunk.Metadata.Crop,
			Year:     chunk.Metadata.Year,
			Category: chunk.Metadata.Category,
			Scheme:   chunk.Metadata.Scheme,
		}
	}

	return nil, output, nil
}
