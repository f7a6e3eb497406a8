// Package testserver builds the full dashboard stack in-process against a
// fake CSV upstream.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tacboard/internal/domain/session"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/mcp"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/rpggio/tacboard/internal/source"
	"github.com/rpggio/tacboard/internal/transport"
)

// Upstream serves a CSV document and counts fetches.
type Upstream struct {
	Server *httptest.Server

	mu      sync.Mutex
	body    string
	status  int
	fetches int
}

// SetCSV replaces the served document.
func (u *Upstream) SetCSV(body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.body = body
}

// SetStatus makes the upstream answer with code instead of the document.
func (u *Upstream) SetStatus(code int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = code
}

// Fetches returns how many times the document was requested.
func (u *Upstream) Fetches() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.fetches
}

func (u *Upstream) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fetches++
	if u.status != 0 && u.status != http.StatusOK {
		http.Error(w, http.StatusText(u.status), u.status)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, _ = w.Write([]byte(u.body))
}

type TestServer struct {
	Server   *httptest.Server
	Upstream *Upstream
	Sessions *session.Service
	Metrics  *metrics.Metrics
}

// New starts an upstream serving csv and a dashboard server reading from it.
func New(t *testing.T, csv string) *TestServer {
	t.Helper()

	upstream := &Upstream{body: csv}
	upstream.Server = httptest.NewServer(upstream)

	m := metrics.New()
	src := source.NewHTTPSource(source.HTTPConfig{
		URL:     upstream.Server.URL + "/tacs.csv",
		Timeout: 5 * time.Second,
		Metrics: m,
	})
	sessionSvc := session.NewService(src, session.Options{MaxSessions: 16, TTL: time.Minute}, nil)
	reportSvc := tac.NewService(sessionSvc, tac.AggregateOptions{}, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Reports:  reportSvc,
		Sessions: sessionSvc,
		Metrics:  m,
		Version:  "test",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Reports:  reportSvc,
		Sessions: sessionSvc,
		MCP:      mcpHandler,
		Metrics:  m,
	}))

	t.Cleanup(func() {
		server.Close()
		upstream.Server.Close()
	})

	return &TestServer{
		Server:   server,
		Upstream: upstream,
		Sessions: sessionSvc,
		Metrics:  m,
	}
}
