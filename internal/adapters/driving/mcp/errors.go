// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the mail archive. It lets AI assistants like Claude search the indexed
// records and ask questions against them.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
