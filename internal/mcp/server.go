package mcp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/metrics"
)

// ReportService defines report operations needed by MCP.
type ReportService interface {
	Report(ctx context.Context, sessionID string, c tac.Criteria) (tac.Report, error)
}

// SessionService defines session operations needed by MCP.
type SessionService interface {
	Close(id string) bool
}

// Config contains server configuration.
type Config struct {
	Reports  ReportService
	Sessions SessionService
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Version  string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tacboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Transports without a session id (stdio, in-memory) share one dataset
	// session for the lifetime of the server.
	server.AddReceivingMiddleware(sessionMiddleware("mcp-" + uuid.NewString()))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{
		reports:  cfg.Reports,
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	})

	return server
}
