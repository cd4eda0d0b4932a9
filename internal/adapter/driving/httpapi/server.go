package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/diillson/aws-cost-dashboard-go/internal/shared/sl"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// ShutdownTimeout bounds how long in-flight requests may take after a stop signal.
const ShutdownTimeout = 10 * time.Second

// Server wraps http.Server with a context-driven lifecycle.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// NewServer creates a Server for handler using the HTTP section of the config.
func NewServer(cfg types.HTTPConfig, handler http.Handler, log *slog.Logger) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = types.DefaultHTTPAddr
	}
	read := cfg.ReadTimeoutSeconds
	if read <= 0 {
		read = types.DefaultReadTimeout
	}
	write := cfg.WriteTimeoutSeconds
	if write <= 0 {
		write = types.DefaultWriteTimeout
	}

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Duration(read) * time.Second,
			WriteTimeout:      time.Duration(write) * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run with a caller-provided listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", slog.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.log.Error("server failed", sl.Err(err))
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
