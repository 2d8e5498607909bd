// Package server implements the local static file server for the dashboard.
// File-serving semantics (MIME types, ranges, 404s) are delegated to
// net/http's FileServer; this package only adds the CORS headers, the
// startup preflight, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pkg/browser"
)

// Fixed cross-origin headers set on every response, including errors.
const (
	allowOrigin  = "*"
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type"
)

// Server serves a directory tree over HTTP with permissive CORS headers.
type Server struct {
	Port        int
	RootDir     string
	OpenBrowser bool

	ln     net.Listener
	logger *slog.Logger
}

// New returns a server for the current working directory on the given port.
func New(port int, openBrowser bool, logger *slog.Logger) *Server {
	return &Server{
		Port:        port,
		RootDir:     ".",
		OpenBrowser: openBrowser,
		logger:      logger,
	}
}

// URL returns the root URL the server is reachable at locally.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port)
}

// Listen binds the TCP listener on all interfaces. Callers print their
// startup banner only after this succeeds, so a failed bind never looks
// like a running server. When Port is 0 the assigned port is stored back.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Port))
	if err != nil {
		return fmt.Errorf("failed to bind port %d: %w", s.Port, err)
	}
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.Port = addr.Port
	}
	s.ln = ln
	return nil
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs the accept loop on the bound listener until ctx is cancelled,
// then shuts down gracefully so the socket is closed before returning. The
// browser launch is best-effort; its failure never aborts startup.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Handler: Handler(s.RootDir, s.logger),
	}

	if s.OpenBrowser {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
		_ = browser.OpenURL(s.URL())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(s.ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Handler returns the full handler chain for serving root: request logging
// around the CORS wrapper around the standard file server.
func Handler(root string, logger *slog.Logger) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return loggingMiddleware(logger, corsMiddleware(fs))
}

// corsMiddleware sets the three fixed cross-origin headers before the file
// server writes anything, so they appear on every response, 404s included.
// OPTIONS requests are answered directly since the headers advertise them.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs method, path, status, and duration at debug level.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start))
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
