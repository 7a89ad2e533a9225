package domain

import (
	"fmt"
	"time"
)

// ResourceRecord is a decoded name/type/class/TTL/rdata tuple, as carried
// in a Message's answer, authority, or additional sections (RFC 1035
// §4.1.3). RDLength is not stored: it is recomputed from RData at encode
// time and is only ever meaningful as an on-wire framing detail.
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	RData RData
}

// Validate reports whether the record is structurally sound: non-empty
// name, recognized type/class, and an RData variant whose tag agrees with
// Type (when RData is non-nil; a nil RData is legal for opaque/unsupported
// types encountered only during construction, but C2 always fills one in
// on decode).
func (r ResourceRecord) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("resource record name must not be empty")
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", r.Type)
	}
	if !r.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", r.Class)
	}
	if r.RData != nil && r.RData.rrtype() != r.Type {
		return fmt.Errorf("rdata variant %T does not match record type %s", r.RData, r.Type)
	}
	return nil
}

// TTLDuration returns the record's TTL as a time.Duration, for use when
// instructing a backing store how long to retain a cache entry derived
// from this record.
func (r ResourceRecord) TTLDuration() time.Duration {
	return time.Duration(r.TTL) * time.Second
}
