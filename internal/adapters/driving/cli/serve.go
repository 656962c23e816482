package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/rest"
)

// defaultServeAddr is used when neither --addr nor server.addr is set.
const defaultServeAddr = ":8080"

var (
	serveAddr string
	serveMCP  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API",
	Long: `Serve the analysis pipeline over HTTP.

Routes:
  POST   /v1/analyses                      analyse JSON text or a multipart upload
  GET    /v1/analyses                      list saved analyses
  GET    /v1/analyses/{id}                 fetch one analysis
  DELETE /v1/analyses/{id}                 delete an analysis
  PUT    /v1/analyses/{id}/clauses/{n}/comment
  POST   /v1/segment | /v1/score | /v1/suggest | /v1/plausibility
  GET    /health, /metrics

With --mcp the Model Context Protocol server is mounted at /mcp on the
same listener. The listen address defaults to the server.addr setting.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Also serve MCP over streamable HTTP at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ports := &rest.Ports{
		Analysis: analysisService,
		Metrics:  metricsHandler,
	}
	if serveMCP && analysisService != nil {
		m, err := newMCPServer()
		if err != nil {
			return err
		}
		ports.MCP = m.Handler()
	}

	server, err := rest.NewServer(ports)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			addr = s.Server.Addr
		}
	}
	if addr == "" {
		addr = defaultServeAddr
	}

	cmd.Printf("REST API listening on %s\n", addr)
	if ports.MCP != nil {
		cmd.Printf("MCP endpoint at %s/mcp\n", addr)
	}
	return server.Run(cmd.Context(), addr)
}
