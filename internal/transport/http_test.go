package transport

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/rpggio/tacboard/internal/render"
	"github.com/rpggio/tacboard/internal/repository"
	"github.com/stretchr/testify/require"
)

type stubReporter struct {
	mu       sync.Mutex
	dataset  tac.Dataset
	err      error
	sessions []string
	closed   []string
}

func (s *stubReporter) Report(_ context.Context, sessionID string, c tac.Criteria) (tac.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	if s.err != nil {
		return tac.Report{}, s.err
	}
	return tac.BuildReport(s.dataset, c, tac.AggregateOptions{}), nil
}

func (s *stubReporter) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, id)
	return true
}

func fixtureDataset() tac.Dataset {
	return tac.Dataset{Records: []tac.Record{
		{Year: "2020", Document: "TAC-A", Clause: "1", ClauseCommitment: "Plantar mudas", ClauseStatus: "Concluído"},
		{Year: "2020", Document: "TAC-A", Clause: "1", SubClause: "I", SubClauseStatus: "Pendente"},
		{Year: "2021", Document: "TAC-B", Clause: "2", ClauseCommitment: "Monitorar água", ClauseStatus: "Concluído"},
	}}
}

func newTestServer(t *testing.T, stub *stubReporter, m *metrics.Metrics) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(Config{Reports: stub, Sessions: stub, Metrics: m}))
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, &stubReporter{}, nil)

	resp, body := get(t, http.DefaultClient, server.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)
}

func TestHTTPServer_Dashboard(t *testing.T) {
	stub := &stubReporter{dataset: fixtureDataset()}
	server := newTestServer(t, stub, nil)

	resp, body := get(t, http.DefaultClient, server.URL+"/?documento=TAC-A&status=Todos")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	require.Contains(t, body, `<option value="TAC-A" selected>TAC-A</option>`)
	require.Contains(t, body, "Plantar mudas")
	require.NotContains(t, body, "Monitorar água")
	require.Contains(t, body, `src="/chart.svg?documento=TAC-A"`)
	require.Contains(t, body, "Concluído: 50% (1)")
	require.Contains(t, body, "2 de 3 registros")

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Equal(t, []string{cookie.Value}, stub.sessions)
}

func TestHTTPServer_DashboardNoResults(t *testing.T) {
	server := newTestServer(t, &stubReporter{dataset: fixtureDataset()}, nil)

	resp, body := get(t, http.DefaultClient, server.URL+"/?q=inexistente")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, render.NoResultsNotice)
	require.NotContains(t, body, "<table")
	require.NotContains(t, body, "/chart.svg")
}

func TestHTTPServer_SessionCookieReused(t *testing.T) {
	stub := &stubReporter{dataset: fixtureDataset()}
	server := newTestServer(t, stub, nil)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	get(t, client, server.URL+"/")
	get(t, client, server.URL+"/api/report")
	get(t, client, server.URL+"/?refresh=1")

	require.Len(t, stub.sessions, 3)
	require.Equal(t, stub.sessions[0], stub.sessions[1])
	require.Equal(t, stub.sessions[0], stub.sessions[2])
	require.Equal(t, []string{stub.sessions[0]}, stub.closed)
}

func TestHTTPServer_Chart(t *testing.T) {
	server := newTestServer(t, &stubReporter{dataset: fixtureDataset()}, nil)

	resp, body := get(t, http.DefaultClient, server.URL+"/chart.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	require.Contains(t, body, "<svg")

	resp, body = get(t, http.DefaultClient, server.URL+"/chart.svg?q=inexistente")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, body)
}

func TestHTTPServer_ExportCSV(t *testing.T) {
	m := metrics.New()
	server := newTestServer(t, &stubReporter{dataset: fixtureDataset()}, m)

	resp, body := get(t, http.DefaultClient, server.URL+"/export/csv?documento=TAC-B")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "attachment; filename=tacs.csv", resp.Header.Get("Content-Disposition"))

	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, tac.Headers(), rows[0])
	require.Equal(t, "TAC-B", rows[1][1])

	_, out := get(t, http.DefaultClient, server.URL+"/metrics")
	require.Contains(t, out, `tacboard_exports_total{format="csv"} 1`)
	require.Contains(t, out, `tacboard_http_requests_total{code="200",route="/export/{format}"} 1`)
}

func TestHTTPServer_ExportUnknownFormat(t *testing.T) {
	server := newTestServer(t, &stubReporter{dataset: fixtureDataset()}, nil)

	resp, _ := get(t, http.DefaultClient, server.URL+"/export/pdf")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_APIReport(t *testing.T) {
	server := newTestServer(t, &stubReporter{dataset: fixtureDataset()}, nil)

	resp, body := get(t, http.DefaultClient, server.URL+"/api/report?status=Pendente")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report tac.Report
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	require.Len(t, report.Rows, 1)
	require.Equal(t, "Pendente", report.Criteria.Status)
	require.Equal(t, 1, report.Tally.Total)
	require.Equal(t, []string{"TAC-A", "TAC-B"}, report.Documents)
}

func TestHTTPServer_LoadFailure(t *testing.T) {
	stub := &stubReporter{err: fmt.Errorf("loading dataset: %w", repository.ErrUnavailable)}
	server := newTestServer(t, stub, nil)

	for _, path := range []string{"/", "/chart.svg", "/export/html", "/api/report"} {
		resp, body := get(t, http.DefaultClient, server.URL+path)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode, path)
		require.Contains(t, body, "dataset source unavailable", path)
	}
}

func TestStatusForError(t *testing.T) {
	require.Equal(t, http.StatusBadGateway, statusForError(&tac.SchemaError{Missing: []string{"ANO"}}))
	require.Equal(t, http.StatusBadGateway, statusForError(repository.ErrMalformed))
	require.Equal(t, http.StatusGatewayTimeout, statusForError(context.DeadlineExceeded))
	require.Equal(t, http.StatusInternalServerError, statusForError(io.ErrUnexpectedEOF))
	require.Equal(t, StatusClientClosedRequest, statusForError(fmt.Errorf("session s: %w", context.Canceled)))
}

func TestHTTPServer_ClientCancellationNotLoggedAsFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	stub := &stubReporter{err: fmt.Errorf("session s: %w", context.Canceled)}
	server := httptest.NewServer(NewServer(Config{Reports: stub, Sessions: stub, Logger: logger}))
	t.Cleanup(server.Close)

	resp, body := get(t, http.DefaultClient, server.URL+"/api/report")
	require.Equal(t, StatusClientClosedRequest, resp.StatusCode)
	require.Empty(t, body)
	require.Contains(t, logs.String(), "report cancelled by client")
	require.NotContains(t, logs.String(), "level=WARN")
}
