package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rpggio/tacboard/internal/config"
	"github.com/rpggio/tacboard/internal/domain/session"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/rpggio/tacboard/internal/source"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfg     config.Config
	logger  *slog.Logger
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "tacboard",
	Short: "Dashboard for TAC commitments published as a spreadsheet",
	Long: `tacboard loads the TAC commitments sheet (CSV) and serves a filterable
dashboard with a status chart, exports and an MCP endpoint.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		// stdout carries JSON-RPC in stdio mode and report bytes in export mode.
		logger, logFile = newLogger(os.Stderr, cfg.Log)
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd, exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. A configured log file replaces w.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, io.Closer) {
	var closer io.Closer
	if lc.Path != "" {
		fileWriter, file, err := newLogFileWriter(lc.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			w = fileWriter
			closer = file
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(lc.Level),
	})), closer
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func aggregateOptions(rc config.ReportConfig) (tac.AggregateOptions, error) {
	policy, err := tac.ParseExcludePolicy(rc.ExcludePolicy)
	if err != nil {
		return tac.AggregateOptions{}, err
	}
	return tac.AggregateOptions{Exclude: rc.ExcludeStatuses, Policy: policy}, nil
}

// services holds the shared report pipeline.
type services struct {
	sessions *session.Service
	reports  *tac.Service
}

func newServices(src session.DatasetSource) (services, error) {
	opts, err := aggregateOptions(cfg.Report)
	if err != nil {
		return services{}, err
	}
	sessionSvc := session.NewService(src, session.Options{
		MaxSessions: cfg.Session.Max,
		TTL:         cfg.Session.TTL,
	}, logger)
	return services{
		sessions: sessionSvc,
		reports:  tac.NewService(sessionSvc, opts, logger),
	}, nil
}

func httpSource(m *metrics.Metrics) (*source.HTTPSource, error) {
	if err := cfg.RequireSource(); err != nil {
		return nil, err
	}
	return source.NewHTTPSource(source.HTTPConfig{
		URL:       cfg.Source.URL,
		Timeout:   cfg.Source.Timeout,
		Normalize: cfg.Source.Normalize,
		Logger:    logger,
		Metrics:   m,
	}), nil
}
