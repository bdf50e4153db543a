// Package testutil provides shared test infrastructure for e2e tests.
// The server fixture assembles the same handler chain cmd/server builds,
// backed by the in-memory store and an optional fake S3 bucket, and serves
// it from an httptest listener.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/kuitang/noteledger/internal/api"
	"github.com/kuitang/noteledger/internal/export"
	"github.com/kuitang/noteledger/internal/mcp"
	"github.com/kuitang/noteledger/internal/memstore"
	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/obs"
	"github.com/kuitang/noteledger/internal/principal"
	"github.com/kuitang/noteledger/internal/ratelimit"
	"github.com/kuitang/noteledger/internal/s3client"
	"github.com/kuitang/noteledger/internal/web"
)

// =============================================================================
// Server Fixture
// =============================================================================

// Options configures a server fixture.
type Options struct {
	// RateLimit overrides the per-principal limits. The zero value uses
	// limits high enough that tests never trip them.
	RateLimit ratelimit.Config
	// WithS3 backs the export endpoints with an in-process fake S3 bucket.
	// Without it the export endpoints report 503.
	WithS3 bool
}

// ServerFixture is a complete noteledger server on a local listener: REST
// API, public web pages, and MCP transport behind the production middleware
// chain.
type ServerFixture struct {
	Server       *httptest.Server
	NotesService *notes.Service
	Store        notes.Store
	S3           *s3client.Client
}

// NewServerFixture assembles the handler chain the way cmd/server does and
// starts it. Cleanup is registered on t.
func NewServerFixture(t testing.TB, opts Options) *ServerFixture {
	t.Helper()

	store := memstore.New()
	notesService := notes.NewService(store)

	var s3 *s3client.Client
	var exporter *export.Exporter
	if opts.WithS3 {
		s3 = s3client.TestClient(t, "e2e-exports")
		exporter = export.New(notesService, s3)
	}

	limits := opts.RateLimit
	if limits.RPS == 0 {
		limits = ratelimit.Config{RPS: 10000, Burst: 10000, CleanupInterval: time.Hour}
	}
	limiter := ratelimit.NewRateLimiter(limits)
	t.Cleanup(limiter.Stop)

	mux := http.NewServeMux()
	api.NewHandler(notesService, exporter).RegisterRoutes(mux)
	web.NewHandler(notesService).RegisterRoutes(mux)
	mcpServer := mcp.NewServer(notesService)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions} {
		mux.Handle(method+" /mcp", mcpServer)
	}

	handler := obs.RequestContextMiddleware(
		obs.AccessLogMiddleware("e2e",
			ratelimit.Middleware(limiter, func(r *http.Request) string {
				return r.Header.Get(principal.Header)
			})(principal.Middleware(mux))))

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &ServerFixture{
		Server:       server,
		NotesService: notesService,
		Store:        store,
		S3:           s3,
	}
}

// Reset deletes every note in the backing store, regardless of owner.
// Identifier assignment keeps counting up across resets.
func (f *ServerFixture) Reset(t interface {
	Fatalf(format string, args ...any)
}) {
	all, err := f.Store.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list notes for reset: %v", err)
	}
	for _, n := range all {
		if err := f.Store.Delete(context.Background(), n.ID); err != nil {
			t.Fatalf("delete note %d during reset: %v", n.ID, err)
		}
	}
}

// =============================================================================
// HTTP Client Helpers
// =============================================================================

// Do sends a request with the given identity header and returns the response
// and its body. An empty who leaves the request anonymous; a nil body sends
// no payload.
func (f *ServerFixture) Do(t rapid.TB, method, path, who string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, f.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if who != "" {
		req.Header.Set(principal.Header, who)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp, data
}

// MustUnmarshal decodes JSON into dst or fails the test.
func MustUnmarshal(t rapid.TB, data []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("unmarshal response: %v body=%q", err, data)
	}
}
