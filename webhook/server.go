package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves webhook deliveries over HTTP or HTTPS.
type Server struct {
	srv      *http.Server
	certFile string
	keyFile  string
	logger   *slog.Logger
}

// NewServer creates a server for handler listening on addr.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// WithTLS serves HTTPS with the given PEM certificate and key files.
func (s *Server) WithTLS(certFile, keyFile string) *Server {
	s.certFile = certFile
	s.keyFile = keyFile
	return s
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// waiting for in-flight deliveries.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	tls := s.certFile != "" && s.keyFile != ""
	s.logger.Info("listening", "addr", ln.Addr().String(), "tls", tls)

	errCh := make(chan error, 1)
	go func() {
		if tls {
			errCh <- s.srv.ServeTLS(ln, s.certFile, s.keyFile)
			return
		}
		errCh <- s.srv.Serve(ln)
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
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
