// Command server runs the noteledger HTTP server: the REST API, the
// server-rendered web UI, and the MCP transport share one notes service.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kuitang/noteledger/internal/api"
	"github.com/kuitang/noteledger/internal/config"
	"github.com/kuitang/noteledger/internal/export"
	"github.com/kuitang/noteledger/internal/mcp"
	"github.com/kuitang/noteledger/internal/memstore"
	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/obs"
	"github.com/kuitang/noteledger/internal/principal"
	"github.com/kuitang/noteledger/internal/ratelimit"
	"github.com/kuitang/noteledger/internal/s3client"
	"github.com/kuitang/noteledger/internal/sqlitestore"
	"github.com/kuitang/noteledger/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	backend, noS3, addr := config.ParseFlags()
	cfg := config.MustLoadConfig(backend, noS3, addr)

	obs.Init()
	cfg.PrintStartupSummary()

	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("[STARTUP] failed to open %s store: %v", cfg.Backend, err)
	}
	defer cleanup()

	notesService := notes.NewService(store)

	exporter, err := buildExporter(context.Background(), cfg, notesService)
	if err != nil {
		log.Fatalf("[STARTUP] failed to initialize S3 export client: %v", err)
	}

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitConfig)
	defer limiter.Stop()

	mux := http.NewServeMux()
	api.NewHandler(notesService, exporter).RegisterRoutes(mux)
	web.NewHandler(notesService).RegisterRoutes(mux)
	mountMCPRoute(mux, "/mcp", mcp.NewServer(notesService))

	handler := obs.RequestContextMiddleware(
		obs.AccessLogMiddleware("server",
			ratelimit.Middleware(limiter, principalFromRequest)(
				principal.Middleware(mux))))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[STARTUP] listening on %s", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[STARTUP] server failed: %v", err)
		}
	case <-ctx.Done():
		log.Printf("[SHUTDOWN] signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[SHUTDOWN] graceful shutdown failed: %v", err)
		}
	}
}

// openStore builds the note store for the configured backend. The returned
// cleanup releases backend resources and is safe to call once.
func openStore(cfg *config.Config) (notes.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		masterKey, err := cfg.MasterKeyBytes()
		if err != nil {
			return nil, nil, err
		}
		key, err := sqlitestore.DeriveKey(masterKey)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlitestore.Open(cfg.DatabasePath, key)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("[SHUTDOWN] closing sqlite store: %v", err)
			}
		}, nil
	default:
		return memstore.New(), func() {}, nil
	}
}

// buildExporter wires the S3 export client, or returns nil when --no-s3
// leaves exports disabled. The API reports export endpoints unavailable
// when the exporter is nil.
func buildExporter(ctx context.Context, cfg *config.Config, svc *notes.Service) (*export.Exporter, error) {
	if cfg.NoS3 {
		return nil, nil
	}
	s3, err := s3client.New(ctx, s3client.Config{
		Endpoint:        cfg.AWSEndpointS3,
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		BucketName:      cfg.AWSBucketName,
		BaseURL:         cfg.AWSPublicURL,
	})
	if err != nil {
		return nil, err
	}
	return export.New(svc, s3), nil
}

func principalFromRequest(r *http.Request) string {
	return r.Header.Get(principal.Header)
}

// mountMCPRoute registers handler for each method the streamable MCP
// transport speaks. Method patterns keep the mux from answering 405
// before the transport sees the request.
func mountMCPRoute(mux *http.ServeMux, path string, handler http.Handler) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions} {
		mux.Handle(method+" "+path, handler)
	}
}
