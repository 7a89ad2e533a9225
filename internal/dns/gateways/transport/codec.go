// Package transport implements the UDP boundary of the resolver: the
// outbound client (C4) used to query upstream name servers, and the
// inbound server front-end (C7) that answers client queries.
package transport

import (
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
	"github.com/nullhorizon/recon-dns/internal/dns/wire"
)

// MessageCodec is the seam between this package and internal/dns/wire,
// kept as an interface (rather than calling wire.EncodeMessage/DecodeMessage
// directly) so tests can inject a codec that fails or mutates messages
// without constructing malformed byte buffers by hand.
type MessageCodec interface {
	Encode(m domain.Message) ([]byte, error)
	Decode(data []byte) (domain.Message, error)
}

// wireCodec is the production MessageCodec, backed by internal/dns/wire.
type wireCodec struct{}

func (wireCodec) Encode(m domain.Message) ([]byte, error) { return wire.EncodeMessage(m) }
func (wireCodec) Decode(data []byte) (domain.Message, error) { return wire.DecodeMessage(data) }

// NewWireCodec returns the production MessageCodec.
func NewWireCodec() MessageCodec {
	return wireCodec{}
}
