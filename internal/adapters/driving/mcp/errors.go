// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants answer questions against the local corpus through
// the ask and retrieve tools.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
