// Package server exposes stored canvas documents over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /documents
//	POST   /documents
//	GET    /documents/{id}
//	PUT    /documents/{id}
//	DELETE /documents/{id}
//	POST   /documents/{id}/script   run a canvas script, save the result
//	POST   /documents/{id}/layout   add a generated graph
//	GET    /documents/{id}/check    structural check
//	GET    /documents/{id}/render   render one format
//
// Requests that modify a document hold a per-document lock for the whole
// load, edit and save cycle.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphcanvas/pkg/config"
	"github.com/matzehuels/graphcanvas/pkg/observability"
	"github.com/matzehuels/graphcanvas/pkg/pipeline"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

const (
	// MaxBodySize bounds request bodies.
	MaxBodySize = 4 << 20

	// DefaultScriptTimeout bounds a single script run.
	DefaultScriptTimeout = 10 * time.Second
)

// Server serves documents from a store.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	cfg    *config.Config
	logger *log.Logger

	scriptTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*docLock
}

type docLock struct {
	sync.Mutex
	refs int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig sets the styles, grid and render defaults.
func WithConfig(c *config.Config) Option {
	return func(s *Server) {
		if c != nil {
			s.cfg = c
		}
	}
}

// WithScriptTimeout bounds script runs.
func WithScriptTimeout(d time.Duration) Option {
	return func(s *Server) { s.scriptTimeout = d }
}

// New returns a server over st. A nil runner renders without caching.
func New(st store.Store, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		store:         st,
		runner:        runner,
		cfg:           config.Default(),
		logger:        log.Default(),
		scriptTimeout: DefaultScriptTimeout,
		locks:         make(map[string]*docLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooks)

	r.Get("/healthz", s.health)
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Put("/", s.putDocument)
			r.Delete("/", s.deleteDocument)
			r.Post("/script", s.runScript)
			r.Post("/layout", s.addLayout)
			r.Get("/check", s.checkDocument)
			r.Get("/render", s.renderDocument)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdown)
}

// lock serializes edits of one document and returns the unlock function.
func (s *Server) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &docLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// hooks reports every request to the observability HTTP hooks using the
// matched route pattern.
func hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		h := observability.HTTP()
		h.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}
