package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the archive over the Model Context Protocol",
	Long: `Start the Model Context Protocol server, exposing the indexed
archive to AI assistants as search and ask tools.

By default the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --http to serve Streamable HTTP instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access over the network

Examples:
  # Stdio mode (default, for Claude Desktop)
  prmail mcp

  # HTTP mode (for MCP Inspector, remote access)
  prmail mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "prmail": {
        "command": "/path/to/prmail",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ports := &mcp.Ports{
		Query:   queryService,
		Records: recordReader,
		History: historyReader,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}
