// Package driving defines the interfaces the CLI, MCP server, and chat
// TUI call into the core through: IndexerService for builds,
// QueryService for retrieval and answering, SettingsService for
// configuration. These are the "driving" ports in hexagonal
// architecture terminology.
//
// Implementations live in internal/core/services.
package driving
