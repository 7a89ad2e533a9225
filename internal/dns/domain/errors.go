package domain

import "errors"

// Sentinel error kinds for the internal error taxonomy. These never leave
// the core as raw errors; every boundary (the resolver, the UDP front-end)
// converts them into a well-formed DNS response with an appropriate rcode.
var (
	// ErrFormat marks malformed wire data: bad length, illegal pointer,
	// an over-long label or name, a truncated section, or qdcount == 0.
	ErrFormat = errors.New("dns: format error")

	// ErrTimeout marks a C4 attempt that received no response within its
	// per-attempt budget.
	ErrTimeout = errors.New("dns: timeout")

	// ErrTransport marks an OS-level socket failure distinct from a timeout.
	ErrTransport = errors.New("dns: transport error")

	// ErrCache marks any failure reported by the answer cache's backing
	// store. Callers degrade this to a cache miss or a silently-dropped
	// write; it is never surfaced past the cache boundary.
	ErrCache = errors.New("dns: cache error")
)

// FormatErr wraps ErrFormat with a human-readable reason, e.g. "label
// exceeds 63 octets" or "pointer offset out of range".
type FormatErr struct {
	Reason string
}

func (e *FormatErr) Error() string {
	return "dns: format error: " + e.Reason
}

func (e *FormatErr) Unwrap() error {
	return ErrFormat
}

// NewFormatErr constructs a FormatErr with the given reason.
func NewFormatErr(reason string) error {
	return &FormatErr{Reason: reason}
}

// TransportErr wraps ErrTransport or ErrTimeout with the remote address and
// underlying cause, for structured logging at the C4 boundary.
type TransportErr struct {
	Addr   string
	Reason string
	Cause  error
}

func (e *TransportErr) Error() string {
	if e.Cause != nil {
		return "dns: transport error talking to " + e.Addr + ": " + e.Reason + ": " + e.Cause.Error()
	}
	return "dns: transport error talking to " + e.Addr + ": " + e.Reason
}

func (e *TransportErr) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrTransport
}

// IsTimeout reports whether this transport failure was a timeout, so
// callers that branch on Timeout vs other transport errors don't need to
// inspect the wrapped cause directly.
func (e *TransportErr) IsTimeout() bool {
	return e.Cause == ErrTimeout
}

// CacheErr wraps ErrCache with the operation and key that failed.
type CacheErr struct {
	Op    string
	Key   string
	Cause error
}

func (e *CacheErr) Error() string {
	if e.Cause != nil {
		return "dns: cache " + e.Op + " failed for " + e.Key + ": " + e.Cause.Error()
	}
	return "dns: cache " + e.Op + " failed for " + e.Key
}

func (e *CacheErr) Unwrap() error {
	return ErrCache
}
