// Package server exposes the print geometry over a small JSON HTTP API for
// the storefront and fulfilment workers.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ByLCY/bookprint/metrics"
	"github.com/ByLCY/bookprint/printspec"
	"github.com/ByLCY/bookprint/renderer"
	canvasrenderer "github.com/ByLCY/bookprint/renderer/canvas"
)

const defaultMaxUploadBytes = 25 << 20

// Options configures the API server.
type Options struct {
	Format         printspec.Format
	Pricing        printspec.Pricing
	MaxUploadBytes int64
	// Renderer draws cover templates; nil uses the canvas renderer.
	Renderer renderer.Renderer
}

// Server holds the router and the settings handlers read from.
type Server struct {
	format   printspec.Format
	pricing  printspec.Pricing
	maxBytes int64
	render   renderer.Renderer
	router   *mux.Router
}

// New builds the router with every API route registered.
func New(opts Options) *Server {
	s := &Server{
		format:   opts.Format,
		pricing:  opts.Pricing,
		maxBytes: opts.MaxUploadBytes,
		render:   opts.Renderer,
	}
	if s.format.Name == "" {
		s.format = printspec.DefaultFormat()
	}
	if s.pricing == (printspec.Pricing{}) {
		s.pricing = printspec.DefaultPricing
	}
	if s.maxBytes <= 0 {
		s.maxBytes = defaultMaxUploadBytes
	}
	if s.render == nil {
		s.render = canvasrenderer.NewRenderer("")
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware)

	r.HandleFunc("/healthcheck", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/spine", s.handleSpine).Methods(http.MethodGet)
	r.HandleFunc("/api/cover", s.handleCover).Methods(http.MethodGet)
	r.HandleFunc("/api/cover/template.pdf", s.handleCoverTemplate).Methods(http.MethodGet)
	r.HandleFunc("/api/pages", s.handlePages).Methods(http.MethodGet)
	r.HandleFunc("/api/structure", s.handleStructure).Methods(http.MethodGet)
	r.HandleFunc("/api/images/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/api/pricing", s.handlePricing).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
	return s
}

// Handler returns the root handler, for embedding or httptest.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
