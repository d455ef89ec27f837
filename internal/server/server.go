// Package server exposes the profile catalog and the render pipeline over
// HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/files                         ?page&pageSize&search&sort&order
//	GET    /api/files/{id}
//	DELETE /api/files/{id}
//	GET    /api/files/{id}/dimensions
//	GET    /api/files/{id}/tasks
//	GET    /api/files/{id}/flamegraph         ?dimension&include&tasks
//	GET    /api/files/{id}/flamegraph.{format} plus render parameters
//
// Errors are JSON objects of the form {"error":{"code":...,"message":...}}.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/flametower/pkg/catalog"
	"github.com/matzehuels/flametower/pkg/observability"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	CORSOrigins    []string // empty allows every origin
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// Server serves the flametower HTTP API.
type Server struct {
	cfg     Config
	catalog *catalog.Catalog
	runner  *pipeline.Runner
	logger  *log.Logger
	hooks   observability.ServerHooks
	router  chi.Router
}

// New creates a server. A nil logger uses log.Default.
func New(cfg Config, cat *catalog.Catalog, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		catalog: cat,
		runner:  runner,
		logger:  logger,
		hooks:   observability.Server(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, cacheHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/files", func(r chi.Router) {
		r.Get("/", s.handleListFiles)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetFile)
			r.Delete("/", s.handleDeleteFile)
			r.Get("/dimensions", s.handleDimensions)
			r.Get("/tasks", s.handleTasks)
			r.Get("/flamegraph", s.handleFlameGraph)
			r.Get("/flamegraph.{format}", s.handleRender)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errMethodNotAllowed(r))
	})
	return r
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("flametower server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
