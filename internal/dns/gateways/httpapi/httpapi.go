// Package httpapi implements the secondary HTTP forwarding endpoint: a
// thin JSON front door onto the same resolution pipeline the UDP server
// (C7) drives, plus a debug escape hatch that talks to one upstream
// server directly. It is not part of the core C1-C7 pipeline; it exists
// purely so a human or script can exercise a resolution without a DNS
// client on hand.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// Resolver is the full iterative pipeline (C6), the same seam the UDP
// server front-end depends on.
type Resolver interface {
	Resolve(ctx context.Context, query domain.Message) domain.Message
}

// Client is the C4 UDP transport, used when a caller names an explicit
// upstream host to bypass the resolution engine entirely.
type Client interface {
	Query(ctx context.Context, query domain.Message, host string, port int, timeout time.Duration) (domain.Message, error)
}

// directQueryPort is the fixed upstream port used for host-bypass queries,
// per the resolution engine's own upstream port convention.
const directQueryPort = 53

// directQueryTimeout bounds a single bypass query; it is independent of
// the resolver's own per-question wall-clock budget since no iterative
// walk is involved.
const directQueryTimeout = 2 * time.Second

// Server is the HTTP front-end. It wraps a stdlib http.Server so Start and
// Stop mirror the shape of the UDP server's lifecycle methods.
type Server struct {
	addr     string
	resolver Resolver
	client   Client
	logger   log.Logger

	httpServer *http.Server
}

// NewServer constructs an HTTP front-end bound to addr (host:port) once
// Start is called.
func NewServer(addr string, resolver Resolver, client Client, logger log.Logger) *Server {
	s := &Server{
		addr:     addr,
		resolver: resolver,
		client:   client,
		logger:   logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", s.handleResolve)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Address returns the configured bind address.
func (s *Server) Address() string {
	return s.addr
}

// Start begins serving in a background goroutine. It returns once the
// listening socket is bound, mirroring transport.Server.Start.
func (s *Server) Start(ctx context.Context) error {
	ln, err := newListener(s.addr)
	if err != nil {
		return err
	}

	s.logger.Info(map[string]any{"address": s.addr}, "http server listening")

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error(map[string]any{"error": err.Error()}, "http server exited unexpectedly")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down, idempotently.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	s.logger.Info(map[string]any{"address": s.addr}, "http server stopped")
	return err
}
