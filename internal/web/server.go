// Package web serves the parser over HTTP: parse an uploaded export, return
// it as JSON, CSV or XLSX, summarize it, and store parsed tables.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/genesis/internal/config"
	"github.com/JonMunkholm/genesis/internal/core"
	"github.com/JonMunkholm/genesis/internal/metrics"
	mw "github.com/JonMunkholm/genesis/internal/web/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of a Server. Store and DB may be nil, which
// disables the /api/tables routes.
type Deps struct {
	Config  *config.Config
	Store   TableStore
	DB      Pinger
	Metrics *metrics.Metrics
}

// Server is the HTTP server for the parse service.
type Server struct {
	cfg      *config.Config
	opts     core.Options
	limiter  *core.ParseLimiter
	store    TableStore
	db       Pinger
	metrics  *metrics.Metrics
	validate *validator.Validate
	rate     *ipRateLimiter

	router *chi.Mux
	server *http.Server

	stopOnce sync.Once
	stop     chan struct{}
}

// NewServer creates a Server. The parse defaults come from the Parser
// section of the configuration, which Load has already validated.
func NewServer(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	s := &Server{
		cfg:      d.Config,
		opts:     d.Config.ParserOptions(),
		limiter:  core.NewParseLimiter(d.Config.Parser.MaxConcurrent, d.Config.Parser.MaxWaitTime),
		store:    d.Store,
		db:       d.DB,
		metrics:  d.Metrics,
		validate: validator.New(),
		router:   chi.NewRouter(),
		stop:     make(chan struct{}),
	}
	s.metrics.RegisterLimiter(s.limiter)

	if s.cfg.Rate.Enabled {
		s.rate = newIPRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		go s.rate.run(s.stop)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		if s.rate != nil {
			r.Use(s.rate.middleware(s))
		}
		r.Use(mw.APIKeyAuth(&s.cfg.Security))
		r.Use(requestMetadata)

		r.Post("/parse", s.handleParse)
		r.Post("/parse/summary", s.handleSummary)

		r.Route("/tables", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Post("/", s.handleSaveTable)
			r.Get("/", s.handleListTables)
			r.Get("/{id}", s.handleGetTable)
			r.Delete("/{id}", s.handleDeleteTable)
		})
	})
}

// Start begins listening for HTTP requests. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// WaitForParses blocks until no parse is running or ctx ends.
func (s *Server) WaitForParses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses. The service
// serves no HTML, so the policy forbids everything.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
