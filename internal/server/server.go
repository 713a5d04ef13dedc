// Package server runs the root-application dev server: it serves the project
// HTML page with injections applied, exposes metrics and the session event
// log, and watches the import map files for changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/spaforge/internal/config"
	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
	"git.home.luguber.info/inful/spaforge/internal/eventstore"
	"git.home.luguber.info/inful/spaforge/internal/htmlinject"
	"git.home.luguber.info/inful/spaforge/internal/htmlpage"
	"git.home.luguber.info/inful/spaforge/internal/importmap"
	"git.home.luguber.info/inful/spaforge/internal/metrics"
	"git.home.luguber.info/inful/spaforge/internal/observability"
)

// Options wires the server's collaborators.
type Options struct {
	Config   *config.Config
	Mode     string
	Registry *htmlinject.Registry
	Files    importmap.FileResolver
	Recorder metrics.Recorder
	Events   eventstore.Store

	// PromRegistry backs the /metrics endpoint when Config.Serve.Metrics is set.
	PromRegistry *prom.Registry
}

// Server serves the transformed root HTML page.
type Server struct {
	cfg       *config.Config
	env       config.Environment
	registry  *htmlinject.Registry
	files     importmap.FileResolver
	recorder  metrics.Recorder
	events    eventstore.Store
	promReg   *prom.Registry
	sessionID string

	httpServer *http.Server
	watcher    *MapWatcher

	mu     sync.RWMutex
	cached []byte
}

// New constructs a dev server instance.
func New(opts Options) *Server {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Server{
		cfg:       opts.Config,
		env:       config.Environment{Command: config.CommandServe, Mode: opts.Mode},
		registry:  opts.Registry,
		files:     opts.Files,
		recorder:  recorder,
		events:    opts.Events,
		promReg:   opts.PromRegistry,
		sessionID: uuid.NewString(),
	}
}

// SessionID returns the serve session identifier.
func (s *Server) SessionID() string { return s.sessionID }

// Run starts the server and blocks until ctx is canceled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	ctx = observability.WithSessionID(ctx, s.sessionID)
	ctx = observability.WithCommand(ctx, string(config.CommandServe))

	addr := net.JoinHostPort(s.cfg.Serve.Host, fmt.Sprintf("%d", s.cfg.Serve.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.events != nil {
		payload := eventstore.SessionStartedPayload{
			AppType: string(s.cfg.App.Type),
			Mode:    s.env.Mode,
			Host:    s.cfg.Serve.Host,
			Port:    s.cfg.Serve.Port,
		}
		if err := eventstore.AppendPayload(ctx, s.events, s.sessionID, eventstore.TypeSessionStarted, payload); err != nil {
			observability.WarnContext(ctx, "failed to record session start", slog.String("error", err.Error()))
		}
	}

	watcher, err := NewMapWatcher(s.mapWatchPaths(), time.Duration(s.cfg.Serve.WatchDebounceMS)*time.Millisecond, s.onMapChange)
	if err != nil {
		observability.WarnContext(ctx, "map watching disabled", slog.String("error", err.Error()))
	} else {
		s.watcher = watcher
		if err := s.watcher.Start(ctx); err != nil {
			observability.WarnContext(ctx, "map watcher failed to start", slog.String("error", err.Error()))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		observability.InfoContext(ctx, "dev server listening", slog.String("addr", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err, ok := <-errCh:
		if ok && err != nil {
			return serrors.ServerError("listen", err)
		}
		return nil
	}
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.watcher != nil {
		s.watcher.Stop()
	}
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return serrors.ServerError("shutdown", err)
	}
	return nil
}

// routes wires the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/events", s.handleEvents)
	if s.cfg.Serve.Metrics && s.promReg != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.promReg))
	}
	mux.HandleFunc("/", s.handlePage)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "session": s.sessionID})
	s.recorder.IncHTTPRequest("/healthz", http.StatusOK)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		http.Error(w, "event log not configured", http.StatusNotFound)
		s.recorder.IncHTTPRequest("/events", http.StatusNotFound)
		return
	}

	events, err := s.events.Recent(r.Context(), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.recorder.IncHTTPRequest("/events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
	s.recorder.IncHTTPRequest("/events", http.StatusOK)
}

// handlePage serves the project HTML with the tag sequence injected. The
// transformed page is cached until a watched map file changes.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached != nil {
		s.writePage(w, cached)
		return
	}

	page, err := s.transformPage(r.Context())
	if err != nil {
		observability.ErrorContext(r.Context(), "page transform failed", slog.String("error", err.Error()))
		http.Error(w, "transform failed", http.StatusInternalServerError)
		s.recorder.IncHTTPRequest("/", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.cached = page
	s.mu.Unlock()

	s.writePage(w, page)
}

func (s *Server) writePage(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
	s.recorder.IncHTTPRequest("/", http.StatusOK)
}

// transformPage reads the configured HTML entry, applies the transform
// pipeline, and injects the produced tags.
func (s *Server) transformPage(ctx context.Context) ([]byte, error) {
	doc, err := os.ReadFile(s.cfg.Serve.HTMLPath)
	if err != nil {
		return nil, serrors.FileReadError(s.cfg.Serve.HTMLPath, err)
	}

	start := time.Now()
	tctx := &htmlinject.Context{
		Document: s.cfg.Serve.HTMLPath,
		Env:      s.env,
	}
	tags, err := s.registry.Apply(ctx, tctx)
	s.recordResolve(ctx, tctx.Resolved)
	if err != nil {
		return nil, err
	}

	out, err := htmlpage.Inject(doc, tags)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		payload := eventstore.TransformAppliedPayload{
			Document:   s.cfg.Serve.HTMLPath,
			TagCount:   len(tags),
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err := eventstore.AppendPayload(ctx, s.events, s.sessionID, eventstore.TypeTransformApplied, payload); err != nil {
			observability.WarnContext(ctx, "failed to record transform event", slog.String("error", err.Error()))
		}
	}

	return out, nil
}

// recordResolve logs the import map resolution outcome to the event store.
func (s *Server) recordResolve(ctx context.Context, res *htmlinject.ResolveResult) {
	if s.events == nil || res == nil {
		return
	}
	payload := eventstore.MapResolvedPayload{
		Outcome: string(res.Outcome),
		Path:    res.Path,
		MapType: string(res.Type),
	}
	if err := eventstore.AppendPayload(ctx, s.events, s.sessionID, eventstore.TypeMapResolved, payload); err != nil {
		observability.WarnContext(ctx, "failed to record resolve event", slog.String("error", err.Error()))
	}
}

// mapWatchPaths returns the import map candidates plus the HTML entry, the
// files whose changes must invalidate the cached page.
func (s *Server) mapWatchPaths() []string {
	var mapsOpts *config.ImportMapsOptions
	if s.cfg.App.Root != nil {
		mapsOpts = s.cfg.App.Root.ImportMaps
	}
	paths := importmap.Candidates(mapsOpts, s.env)
	return append(paths, s.cfg.Serve.HTMLPath)
}

// onMapChange invalidates the cached page and records the change.
func (s *Server) onMapChange(ctx context.Context, path, op string) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	observability.InfoContext(ctx, "watched file changed, cache invalidated",
		slog.String("path", path), slog.String("op", op))

	if s.events != nil {
		payload := eventstore.MapChangedPayload{Path: path, Op: op}
		if err := eventstore.AppendPayload(ctx, s.events, s.sessionID, eventstore.TypeMapChanged, payload); err != nil {
			observability.WarnContext(ctx, "failed to record map change", slog.String("error", err.Error()))
		}
	}
}
