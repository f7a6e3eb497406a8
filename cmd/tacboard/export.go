package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rpggio/tacboard/internal/domain/session"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/publish"
	"github.com/rpggio/tacboard/internal/render"
	"github.com/rpggio/tacboard/internal/repository"
	"github.com/rpggio/tacboard/internal/source"
	"github.com/spf13/cobra"
)

var exportOpts struct {
	format   string
	document string
	status   string
	search   string
	input    string
	out      string
	publish  bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a filtered report to a file, stdout or the configured publisher",
	Example: `  tacboard export --format csv --status "Concluído" --out concluidos.csv
  tacboard export --format xlsx --documento TAC-01 --publish
  tacboard export --input tacs.csv --format text`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.format, "format", string(render.FormatCSV), "Export format: csv, html, xlsx, json (all columns) or text (index and status columns only)")
	f.StringVar(&exportOpts.document, "documento", "", "Document filter (empty or Todos for all)")
	f.StringVar(&exportOpts.status, "status", "", "Status filter (empty or Todos for all)")
	f.StringVar(&exportOpts.search, "q", "", "Case-insensitive text search over every column")
	f.StringVar(&exportOpts.input, "input", "", "Read a local CSV instead of the configured source URL")
	f.StringVarP(&exportOpts.out, "out", "o", "-", "Output path, - for stdout")
	f.BoolVar(&exportOpts.publish, "publish", false, "Send the export to the configured publisher")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, err := render.ParseFormat(exportOpts.format)
	if err != nil {
		return err
	}

	var src session.DatasetSource
	if exportOpts.input != "" {
		src = source.FileSource{Path: exportOpts.input, Normalize: cfg.Source.Normalize}
	} else {
		httpSrc, err := httpSource(nil)
		if err != nil {
			return err
		}
		src = httpSrc
	}
	svc, err := newServices(src)
	if err != nil {
		return err
	}

	sess, err := svc.sessions.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.sessions.Close(sess.ID)

	report, err := svc.reports.Report(ctx, sess.ID, tac.Criteria{
		Document: exportOpts.document,
		Status:   exportOpts.status,
		Search:   exportOpts.search,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.Export(&buf, format, report); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	logger.Info("report exported", "format", format, "rows", len(report.Rows), "dataset_rows", report.DatasetSize)

	if exportOpts.publish {
		publisher, err := publish.FromConfig(ctx, cfg.Publish)
		if err != nil {
			return err
		}
		location, err := publishExport(ctx, publisher, format, time.Now(), buf.Bytes())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
		return err
	}

	return writeOutput(cmd.OutOrStdout(), exportOpts.out, buf.Bytes())
}

// publishExport stores body under a timestamped artifact name.
func publishExport(ctx context.Context, p repository.ArtifactPublisher, format render.Format, at time.Time, body []byte) (string, error) {
	name := fmt.Sprintf("tacs-%s.%s", at.UTC().Format("20060102-150405"), format.Extension())
	location, err := p.Publish(ctx, name, format.ContentType(), body)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	logger.Info("report published", "name", name, "location", location)
	return location, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
