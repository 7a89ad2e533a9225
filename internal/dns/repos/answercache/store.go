// Package answercache implements the TTL-bounded answer cache (C5) that
// sits in front of the resolution engine: a narrow KVStore contract plus
// two concrete backends, and a Cache that layers set-if-absent semantics
// and resource-record serialization on top of whichever backend is
// configured.
package answercache

import "time"

// KVStore is the narrow external-key-value-store contract the answer
// cache depends on. Any store satisfying it — in-memory, an embedded
// file, or a network KV service — is a valid backend.
type KVStore interface {
	// Get returns the stored value for key, or ok=false on a miss or an
	// expired entry.
	Get(key string) (value []byte, ok bool)
	// SetIfAbsent stores value under key with the given TTL only if key
	// has no unexpired value yet. It reports whether the write happened.
	SetIfAbsent(key string, value []byte, ttl time.Duration) (stored bool, err error)
	// Clear removes every entry. Test-only per the cache contract.
	Clear() error
}
