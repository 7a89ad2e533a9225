package domain

import "fmt"

// RData is the decoded, tagged-variant form of a resource record's rdata.
// The concrete type is discriminated by the enclosing ResourceRecord's
// Type field; wire encoding/decoding of each variant lives in
// internal/dns/wire (C2), which is the only package that needs to know
// the byte layout.
type RData interface {
	// rrtype reports which RRType this variant encodes. It is unexported
	// because RData values are only ever constructed by this package or
	// by the wire codec, never synthesized by callers from scratch.
	rrtype() RRType
	// String renders the rdata in the conventional textual form used for
	// logging and the HTTP JSON endpoint (e.g. dotted-quad for A).
	String() string
}

// AData is the decoded rdata of an A record: an IPv4 address.
type AData struct {
	Address string // dotted-decimal, e.g. "93.184.216.34"
}

func (AData) rrtype() RRType  { return RRTypeA }
func (d AData) String() string { return d.Address }

// AAAAData is the decoded rdata of an AAAA record: an IPv6 address.
type AAAAData struct {
	Address string
}

func (AAAAData) rrtype() RRType  { return RRTypeAAAA }
func (d AAAAData) String() string { return d.Address }

// NSData is the decoded rdata of an NS record: the delegated server's name.
type NSData struct {
	NameServer string
}

func (NSData) rrtype() RRType  { return RRTypeNS }
func (d NSData) String() string { return d.NameServer }

// CNAMEData is the decoded rdata of a CNAME record: the canonical name.
type CNAMEData struct {
	Target string
}

func (CNAMEData) rrtype() RRType  { return RRTypeCNAME }
func (d CNAMEData) String() string { return d.Target }

// SOAData is the decoded rdata of an SOA record.
type SOAData struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (SOAData) rrtype() RRType { return RRTypeSOA }
func (d SOAData) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", d.MName, d.RName, d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum)
}

// TXTData is the decoded rdata of a TXT record: an opaque byte string, not
// length-prefixed character-string sub-framing.
type TXTData struct {
	Text []byte
}

func (TXTData) rrtype() RRType  { return RRTypeTXT }
func (d TXTData) String() string { return string(d.Text) }

// OpaqueData is the decoded rdata of any record type outside {A, AAAA, NS,
// CNAME, SOA, TXT}. The type enum recognizes these records but this system
// does not attempt semantic decoding of their payload.
type OpaqueData struct {
	Type RRType
	Raw  []byte
}

func (d OpaqueData) rrtype() RRType  { return d.Type }
func (d OpaqueData) String() string { return fmt.Sprintf("\\# %d %x", len(d.Raw), d.Raw) }
