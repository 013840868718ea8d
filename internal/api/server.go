// Package api serves per-site settings over HTTP for local front ends.
// It never accepts or returns master secrets or derived passwords.
package api

import (
	"context"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/lovincyrus/passwords101/internal/app"
)

// Server is the HTTP API server for site settings.
type Server struct {
	app        *app.App
	handler    http.Handler
	server     *http.Server
	writeLimit *rate.Limiter
	logger     *log.Logger
}

// Options tunes a Server.
type Options struct {
	// WriteRate caps saves and imports per second; <= 0 disables the cap.
	WriteRate float64
	Logger    *log.Logger
}

// New creates a new API server.
func New(a *app.App, addr string, opts Options) *Server {
	limit := rate.Inf
	if opts.WriteRate > 0 {
		limit = rate.Limit(opts.WriteRate)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		app:        a,
		writeLimit: rate.NewLimiter(limit, max(1, int(opts.WriteRate))),
		logger:     logger,
	}
	s.handler = s.routes()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(requestLogging(s.logger))
	r.Use(securityHeadersMiddleware)
	r.Use(bodySizeMiddleware)

	r.Get("/status", s.handleStatus)
	r.Get("/normalize", s.handleNormalize)
	r.Get("/suggest", s.handleSuggest)
	r.Get("/export", s.handleExport)

	r.Route("/sites", func(r chi.Router) {
		r.Get("/", s.handleListSites)
		r.Get("/{site}", s.handleGetSite)
		r.With(s.limitWrites).Put("/{site}", s.handleSaveSite)
	})
	r.With(s.limitWrites).Post("/import", s.handleImport)

	return r
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening. Returns immediately; use the returned listener to get the actual port.
func (s *Server) Start() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, err
	}
	go s.server.Serve(ln)
	return ln, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
