package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/render"
	"github.com/rpggio/tacboard/internal/repository"
	"github.com/stretchr/testify/require"
)

type reportStub struct {
	mu       sync.Mutex
	dataset  tac.Dataset
	err      error
	sessions []string
	closed   []string
}

func (s *reportStub) Report(_ context.Context, sessionID string, c tac.Criteria) (tac.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	if s.err != nil {
		return tac.Report{}, s.err
	}
	return tac.BuildReport(s.dataset, c, tac.AggregateOptions{}), nil
}

func (s *reportStub) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, id)
	return true
}

func fixtureDataset() tac.Dataset {
	return tac.Dataset{Records: []tac.Record{
		{Year: "2019", Document: "TAC-1", Clause: "1", ClauseStatus: "Concluído"},
		{Year: "2019", Document: "TAC-1", Clause: "2", ClauseStatus: "Pendente", SubClauseStatus: "Concluído"},
		{Year: "2020", Document: "TAC-2", Clause: "1", ClauseCommitment: "Relatório anual", ClauseStatus: "Pendente"},
		{Year: "2020", Document: "TAC-2", Clause: "2"},
	}}
}

func connect(t *testing.T, stub *reportStub) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewServer(Config{Reports: stub, Sessions: stub})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })
	return clientSession
}

func callTool[T any](t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) T {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s returned error: %+v", name, res.Content)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func toolErrorText(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, &reportStub{dataset: fixtureDataset()})

	res, err := cs.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"list_filters", "filter_clauses", "status_summary"}, names)
}

func TestListFilters(t *testing.T) {
	cs := connect(t, &reportStub{dataset: fixtureDataset()})

	out := callTool[ListFiltersResult](t, cs, "list_filters", map[string]any{})
	require.Equal(t, []string{"TAC-1", "TAC-2"}, out.Documents)
	require.Equal(t, []string{"Concluído", "Pendente"}, out.Statuses)
	require.Equal(t, 4, out.DatasetSize)
}

func TestFilterClauses(t *testing.T) {
	cs := connect(t, &reportStub{dataset: fixtureDataset()})

	out := callTool[FilterClausesResult](t, cs, "filter_clauses", map[string]any{"status": "Concluído"})
	require.Equal(t, 2, out.Matched)
	require.Equal(t, 2, out.Returned)
	require.False(t, out.Truncated)
	require.Equal(t, "1", out.Rows[0].Clause)
	require.Equal(t, "2", out.Rows[1].Clause)

	out = callTool[FilterClausesResult](t, cs, "filter_clauses", map[string]any{"documento": "Todos", "limit": 3})
	require.Equal(t, 4, out.Matched)
	require.Equal(t, 3, out.Returned)
	require.True(t, out.Truncated)
	require.Empty(t, out.Criteria.Document)

	out = callTool[FilterClausesResult](t, cs, "filter_clauses", map[string]any{"q": "RELATÓRIO"})
	require.Equal(t, 1, out.Matched)
	require.Equal(t, "TAC-2", out.Rows[0].Document)

	out = callTool[FilterClausesResult](t, cs, "filter_clauses", map[string]any{"documento": "TAC-9"})
	require.Zero(t, out.Matched)
	require.Empty(t, out.Rows)
	require.Equal(t, render.NoResultsNotice, out.Notice)
}

func TestFilterClauses_NegativeLimit(t *testing.T) {
	cs := connect(t, &reportStub{dataset: fixtureDataset()})

	text := toolErrorText(t, cs, "filter_clauses", map[string]any{"limit": -1})
	require.Contains(t, text, "INVALID_INPUT")
}

func TestStatusSummary(t *testing.T) {
	cs := connect(t, &reportStub{dataset: fixtureDataset()})

	out := callTool[StatusSummaryResult](t, cs, "status_summary", map[string]any{})
	require.Equal(t, 4, out.Total)
	require.Len(t, out.Slices, 2)
	require.Equal(t, "Concluído", out.Slices[0].Status)
	require.Equal(t, "50% (2)", out.Slices[0].Label)
	require.Equal(t, "Pendente", out.Slices[1].Status)

	out = callTool[StatusSummaryResult](t, cs, "status_summary", map[string]any{"status": "Pendente"})
	require.Equal(t, 2, out.Total)
	require.Len(t, out.Slices, 1)
	require.Equal(t, "100% (2)", out.Slices[0].Label)

	out = callTool[StatusSummaryResult](t, cs, "status_summary", map[string]any{"documento": "TAC-2", "q": "Relatório"})
	require.Equal(t, 1, out.Matched)
	require.Equal(t, 1, out.Total)
}

func TestSessionAndRefresh(t *testing.T) {
	stub := &reportStub{dataset: fixtureDataset()}
	cs := connect(t, stub)

	callTool[ListFiltersResult](t, cs, "list_filters", map[string]any{})
	callTool[ListFiltersResult](t, cs, "list_filters", map[string]any{"refresh": true})

	require.Len(t, stub.sessions, 2)
	require.NotEmpty(t, stub.sessions[0])
	require.Equal(t, stub.sessions[0], stub.sessions[1])
	require.Equal(t, []string{stub.sessions[0]}, stub.closed)
}

func TestLoadFailure(t *testing.T) {
	cs := connect(t, &reportStub{err: fmt.Errorf("loading dataset: %w", repository.ErrUnavailable)})

	text := toolErrorText(t, cs, "status_summary", map[string]any{})
	require.Contains(t, text, "SOURCE_UNAVAILABLE")
}

func TestSchemaResource(t *testing.T) {
	cs := connect(t, &reportStub{})

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "tacboard://schema"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "| STATUS_INCISO | Status Inciso | `status` filter, charted |")
	require.Contains(t, res.Contents[0].Text, "| DOCUMENTO | Documento | index; `documento` filter |")
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(fmt.Errorf("boom")))

	apiErr := MapError(&tac.SchemaError{Missing: []string{"ANO"}})
	require.NotNil(t, apiErr)
	require.Equal(t, "SCHEMA_MISMATCH", apiErr.Code)
	require.ErrorIs(t, apiErr, tac.ErrSchemaMismatch)

	require.Equal(t, "MALFORMED_DATASET", MapError(repository.ErrMalformed).Code)
}
