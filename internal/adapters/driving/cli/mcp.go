package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose contract analysis to AI assistants over the Model Context Protocol.

Tools: analyze_contract, segment_document, score_clause, suggest_rewrite and
check_contract. Saved analyses and clause templates are published as
clauseguard:// resources.

The server speaks JSON-RPC over stdio unless --addr is given, in which case
it serves streamable HTTP. To share a port with the REST API use
'clauseguard serve --mcp'.

Assistant configuration:
  {
    "mcpServers": {
      "clauseguard": {
        "command": "/path/to/clauseguard",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "Serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Analysis:  analysisService,
		Templates: templateService,
	}, mcp.WithVersion(version))
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if mcpAddr != "" {
		cmd.Printf("MCP server listening on %s\n", mcpAddr)
		return server.RunHTTP(cmd.Context(), mcpAddr)
	}
	return server.Run(cmd.Context())
}
