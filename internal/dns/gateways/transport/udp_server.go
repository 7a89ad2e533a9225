package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// maxDatagramSize is the standard DNS-over-UDP message size (RFC 1035
// §4.2.1). Larger inbound datagrams are truncated by the OS before this
// package ever sees them; the server decodes whatever arrives best-effort.
const maxDatagramSize = 512

// Resolver is the seam between the C7 front-end and the resolution engine
// (C6): given a decoded query message, it always returns a well-formed
// response, never an error.
type Resolver interface {
	Resolve(ctx context.Context, query domain.Message) domain.Message
}

// Server is the C7 UDP server front-end: it receives client datagrams,
// decodes them, invokes the resolution engine, and encodes and sends the
// response back to the originating address.
type Server struct {
	addr   string
	codec  MessageCodec
	logger log.Logger

	mu      sync.RWMutex
	conn    *net.UDPConn
	running bool
	stopCh  chan struct{}
}

// NewServer constructs a C7 server bound to addr (host:port) once Start is
// called, using the production wire codec.
func NewServer(addr string, logger log.Logger) *Server {
	return &Server{
		addr:   addr,
		codec:  NewWireCodec(),
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Address returns the configured bind address.
func (s *Server) Address() string {
	return s.addr
}

// Start binds the UDP socket and begins serving queries through resolver.
// It returns once the socket is bound; the receive loop runs in a
// background goroutine until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context, resolver Resolver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("udp server already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return fmt.Errorf("resolve bind address %s: %w", s.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("bind udp socket on %s: %w", s.addr, err)
	}

	s.conn = conn
	s.running = true

	s.logger.Info(map[string]any{"address": s.addr}, "udp server listening")

	go s.listenLoop(ctx, resolver)
	return nil
}

// Stop closes the listening socket, idempotently.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	close(s.stopCh)
	s.running = false

	var err error
	if s.conn != nil {
		err = s.conn.Close()
	}
	s.logger.Info(map[string]any{"address": s.addr}, "udp server stopped")
	return err
}

func (s *Server) listenLoop(ctx context.Context, resolver Resolver) {
	buf := make([]byte, maxDatagramSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		default:
		}

		n, clientAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			s.mu.RLock()
			running := s.running
			s.mu.RUnlock()
			if !running {
				return
			}
			s.logger.Warn(map[string]any{"error": err.Error()}, "failed to read udp datagram")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buf[:n])
		go s.handle(ctx, packet, clientAddr, resolver)
	}
}

func (s *Server) handle(ctx context.Context, packet []byte, clientAddr *net.UDPAddr, resolver Resolver) {
	query, err := s.codec.Decode(packet)
	if err != nil {
		s.logger.Debug(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
		}, "dropping malformed inbound datagram")
		return
	}

	resp := resolver.Resolve(ctx, query)
	if resp.Header.ID == 0 && len(resp.Questions) == 0 {
		resp = domain.NameError(query)
	}

	out, err := s.codec.Encode(resp)
	if err != nil {
		s.logger.Error(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
		}, "failed to encode dns response")
		return
	}

	if _, err := s.conn.WriteToUDP(out, clientAddr); err != nil {
		s.logger.Error(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
		}, "failed to send dns response")
	}
}
