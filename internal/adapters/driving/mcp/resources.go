package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Samarth resources.
	uriScheme = "samarth://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the index shape.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Shape of the local vector index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	// Template for chunk content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chunks/{chunkId}",
		Name:        "chunk-content",
		Description: "Text and metadata of a specific knowledge chunk",
		MIMEType:    "application/json",
	}, s.handleChunkResource)
}

// handleIndexResource returns the current index statistics.
func (s *Server) handleIndexResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type indexInfo struct {
		VectorCount int  `json:"vector_count"`
		Dimension   int  `json:"dimension"`
		Ready       bool `json:"ready"`
	}

	info := indexInfo{}
	if s.ports.Stats != nil {
		stats := s.ports.Stats()
		info = indexInfo{
			VectorCount: stats.VectorCount,
			Dimension:   stats.Dimension,
			Ready:       stats.Trained,
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleChunkResource returns the content of a specific chunk.
func (s *Server) handleChunkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chunks == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract chunkId from URI: samarth://chunks/{chunkId}
	chunkID := extractChunkID(req.Params.URI)
	if chunkID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunk, err := s.ports.Chunks.Get(ctx, chunkID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(chunk, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling chunk: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractChunkID extracts the chunk ID from a URI like samarth://chunks/{chunkId}.
func extractChunkID(uri string) string {
	const prefix = uriScheme + "chunks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
