package answercache

import (
	"fmt"
	"strings"
)

// NewStoreFromDSN selects and opens the KVStore backend named by dsn. Two
// schemes are recognized:
//
//	bolt://<path>   a file-backed BoltStore at <path>
//	memory://       the bounded in-process MemoryStore, sized by lruSize
//
// This mirrors the "external key-value store" of the cache contract being
// swappable by configuration alone, without the resolver or cache layer
// ever knowing which backend is in play.
func NewStoreFromDSN(dsn string, lruSize int) (KVStore, error) {
	switch {
	case strings.HasPrefix(dsn, "bolt://"):
		path := strings.TrimPrefix(dsn, "bolt://")
		if path == "" {
			return nil, fmt.Errorf("answercache: bolt DSN missing a file path: %q", dsn)
		}
		return NewBoltStore(path)
	case strings.HasPrefix(dsn, "memory://"):
		return NewMemoryStore(lruSize), nil
	default:
		return nil, fmt.Errorf("answercache: unrecognized KV store DSN scheme: %q", dsn)
	}
}
