package main

import (
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tacboard/internal/mcp"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	m := metrics.New()
	src, err := httpSource(m)
	if err != nil {
		return err
	}
	svc, err := newServices(src)
	if err != nil {
		return err
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Reports:  svc.reports,
		Sessions: svc.sessions,
		Metrics:  m,
		Logger:   logger,
		Version:  version,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or the context is canceled.
	return mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}
