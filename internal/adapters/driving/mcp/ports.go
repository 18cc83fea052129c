package mcp

import (
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driving"
)

// Ports aggregates the driving-side dependencies of the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions over the indexed corpus.
	Query driving.QueryService

	// Chunks resolves chunk ids to their stored text and metadata.
	Chunks driven.ChunkStore

	// Stats reports the current index shape.
	Stats func() driven.IndexStats
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Chunks and Stats are optional; the matching resources degrade.
	return nil
}
