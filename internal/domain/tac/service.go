package tac

import (
	"context"
	"fmt"
	"log/slog"
)

// Service builds reports over session datasets.
type Service struct {
	datasets DatasetProvider
	opts     AggregateOptions
	logger   *slog.Logger
}

// NewService creates a new report service.
func NewService(datasets DatasetProvider, opts AggregateOptions, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		datasets: datasets,
		opts:     opts,
		logger:   logger,
	}
}

// Options returns the aggregation options the service was built with.
func (s *Service) Options() AggregateOptions {
	return s.opts
}

// Report filters the session dataset with c and summarizes the result.
func (s *Service) Report(ctx context.Context, sessionID string, c Criteria) (Report, error) {
	ds, err := s.datasets.Dataset(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("loading dataset: %w", err)
	}
	report := BuildReport(ds, c, s.opts)
	s.logger.DebugContext(ctx, "report built",
		"session_id", sessionID,
		"documento", report.Criteria.Document,
		"status", report.Criteria.Status,
		"q", report.Criteria.Search,
		"rows", len(report.Rows),
		"tallied", report.Tally.Total,
	)
	return report, nil
}

// BuildReport runs the filter and aggregation pipeline over ds.
func BuildReport(ds Dataset, c Criteria, opts AggregateOptions) Report {
	c = c.Normalize()
	view := Filter(ds.Records, c)
	tally := Aggregate(view, c, opts)
	return Report{
		Criteria:    c,
		Rows:        view,
		Tally:       tally,
		Slices:      tally.Slices(),
		Documents:   Documents(ds.Records),
		Statuses:    Statuses(ds.Records),
		DatasetSize: ds.Len(),
		LoadedAt:    ds.LoadedAt,
	}
}
