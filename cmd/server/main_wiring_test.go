package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kuitang/noteledger/internal/config"
	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/principal"
)

func TestOpenStore_MemoryBackend(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Backend: config.BackendMemory}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer cleanup()

	created, err := store.Create(context.Background(), notes.Draft{Title: "wiring check", Owner: "u1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 0 {
		t.Fatalf("first id mismatch: got=%d want=0", created.ID)
	}
}

func TestOpenStore_SQLiteBackend(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Backend:      config.BackendSQLite,
		DatabasePath: filepath.Join(t.TempDir(), "notes.db"),
		MasterKey:    strings.Repeat("ab", 32),
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer cleanup()

	created, err := store.Create(context.Background(), notes.Draft{Title: "persisted", Owner: "u1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "persisted" {
		t.Fatalf("title mismatch: got=%q want=%q", got.Title, "persisted")
	}
}

func TestOpenStore_SQLiteRejectsBadMasterKey(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Backend:      config.BackendSQLite,
		DatabasePath: filepath.Join(t.TempDir(), "notes.db"),
		MasterKey:    "not-hex",
	}

	if _, _, err := openStore(cfg); err == nil {
		t.Fatal("expected error for malformed master key")
	}
}

func TestBuildExporter_DisabledWithoutS3(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{NoS3: true}

	exporter, err := buildExporter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("buildExporter failed: %v", err)
	}
	if exporter != nil {
		t.Fatalf("expected nil exporter with --no-s3, got %#v", exporter)
	}
}

func TestPrincipalFromRequest_ReadsIdentityHeader(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set(principal.Header, "alice")

	if got := principalFromRequest(req); got != "alice" {
		t.Fatalf("principal mismatch: got=%q want=%q", got, "alice")
	}
}
