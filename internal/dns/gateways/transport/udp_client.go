package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// DefaultQueryTimeout is the per-attempt budget for a single upstream
// exchange. C6 is responsible for retrying across multiple servers;
// the client never retransmits on its own.
const DefaultQueryTimeout = 2 * time.Second

// Client is the C4 UDP transport: it sends one query to one upstream
// server and waits for exactly one matching response.
type Client struct {
	codec  MessageCodec
	logger log.Logger
}

// NewClient constructs a C4 client against the production wire codec.
func NewClient(logger log.Logger) *Client {
	return &Client{codec: NewWireCodec(), logger: logger}
}

// Query sends query to (host, port) over a fresh UDP socket bound to an
// ephemeral local port, and waits up to timeout for a single response
// whose header ID matches the query's. The socket is closed on every exit
// path. A responder address mismatch is logged and retried within the
// same timeout budget rather than failing the attempt outright.
func (c *Client) Query(ctx context.Context, query domain.Message, host string, port int, timeout time.Duration) (domain.Message, error) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	packet, err := c.codec.Encode(query)
	if err != nil {
		return domain.Message{}, err
	}

	raddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return domain.Message{}, &domain.TransportErr{Addr: host, Reason: "could not resolve upstream address", Cause: err}
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return domain.Message{}, &domain.TransportErr{Addr: raddr.String(), Reason: "dial failed", Cause: err}
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return domain.Message{}, &domain.TransportErr{Addr: raddr.String(), Reason: "failed to set deadline", Cause: err}
	}

	if _, err := conn.Write(packet); err != nil {
		return domain.Message{}, &domain.TransportErr{Addr: raddr.String(), Reason: "send failed", Cause: err}
	}

	buf := make([]byte, 512)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return domain.Message{}, &domain.TransportErr{Addr: raddr.String(), Reason: "no response within timeout", Cause: domain.ErrTimeout}
			}
			return domain.Message{}, &domain.TransportErr{Addr: raddr.String(), Reason: "read failed", Cause: err}
		}

		if !from.IP.Equal(raddr.IP) || from.Port != raddr.Port {
			c.logger.Debug(map[string]any{
				"expected": raddr.String(),
				"actual":   from.String(),
			}, "ignoring datagram from unexpected responder")
			continue
		}

		resp, err := c.codec.Decode(buf[:n])
		if err != nil {
			return domain.Message{}, err
		}
		if resp.Header.ID != query.Header.ID {
			return domain.Message{}, domain.NewFormatErr("response ID does not match query ID")
		}
		return resp, nil
	}
}
