package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/rpggio/tacboard/internal/render"
)

const defaultRowLimit = 100

type tools struct {
	reports  ReportService
	sessions SessionService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_filters",
		Description: "List the documents and status labels present in the TAC sheet",
	}, t.listFilters)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "filter_clauses",
		Description: "Return the TAC rows matching documento, status and q, in sheet order",
	}, t.filterClauses)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "status_summary",
		Description: "Tally the status labels of the matching rows with percentage labels",
	}, t.statusSummary)
}

func (t *tools) listFilters(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListFiltersParams) (*sdkmcp.CallToolResult, ListFiltersResult, error) {
	report, err := t.report(ctx, tac.Criteria{}, in.Refresh)
	if err != nil {
		return nil, ListFiltersResult{}, err
	}
	return nil, ListFiltersResult{
		Documents:   nonNil(report.Documents),
		Statuses:    nonNil(report.Statuses),
		DatasetSize: report.DatasetSize,
	}, nil
}

func (t *tools) filterClauses(ctx context.Context, _ *sdkmcp.CallToolRequest, in FilterClausesParams) (*sdkmcp.CallToolResult, FilterClausesResult, error) {
	if in.Limit < 0 {
		return nil, FilterClausesResult{}, mapError(fmt.Errorf("%w: %d", ErrInvalidLimit, in.Limit))
	}
	limit := in.Limit
	if limit == 0 {
		limit = defaultRowLimit
	}

	report, err := t.report(ctx, tac.Criteria{Document: in.Document, Status: in.Status, Search: in.Search}, in.Refresh)
	if err != nil {
		return nil, FilterClausesResult{}, err
	}

	rows := []tac.Record(report.Rows)
	out := FilterClausesResult{
		Criteria: report.Criteria,
		Matched:  len(rows),
	}
	if len(rows) > limit {
		rows = rows[:limit]
		out.Truncated = true
	}
	out.Rows = append([]tac.Record{}, rows...)
	out.Returned = len(out.Rows)
	if report.Empty() {
		out.Notice = render.NoResultsNotice
	}
	return nil, out, nil
}

func (t *tools) statusSummary(ctx context.Context, _ *sdkmcp.CallToolRequest, in StatusSummaryParams) (*sdkmcp.CallToolResult, StatusSummaryResult, error) {
	report, err := t.report(ctx, tac.Criteria{Document: in.Document, Status: in.Status, Search: in.Search}, in.Refresh)
	if err != nil {
		return nil, StatusSummaryResult{}, err
	}
	out := StatusSummaryResult{
		Criteria: report.Criteria,
		Matched:  len(report.Rows),
		Total:    report.Tally.Total,
		Slices:   append([]tac.Slice{}, report.Slices...),
	}
	switch {
	case report.Empty():
		out.Notice = render.NoResultsNotice
	case report.Tally.Empty():
		out.Notice = "Nenhum status preenchido nos registros selecionados."
	}
	return nil, out, nil
}

func (t *tools) report(ctx context.Context, c tac.Criteria, refresh bool) (tac.Report, error) {
	sessionID := getSessionID(ctx)
	if refresh {
		t.sessions.Close(sessionID)
		t.logger.Debug("session refreshed", "session_id", sessionID)
	}
	report, err := t.reports.Report(ctx, sessionID, c)
	if err != nil {
		t.logger.Warn("report failed", "session_id", sessionID, "error", err)
		return tac.Report{}, mapError(err)
	}
	t.metrics.ObserveReport(report.Empty())
	return report, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
