// Package negcache implements the negative-result short-circuit: a
// probabilistic record of cache keys (the resolution engine records an
// authority candidate's A-record key when resolving that candidate led
// nowhere). It is a soft
// operational hint, never a source of truth — a membership hit only
// skips the bounded glue-retry widening in the resolution engine, never
// the resolution itself.
package negcache

import (
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a bits-and-blooms BloomFilter with a mutex for writes;
// reads (MightHaveFailed) are safe for concurrent use without locking
// against other reads.
type Filter struct {
	mu sync.RWMutex
	bf *bloom.BloomFilter
}

// NewFilter constructs a Filter sized for an expected item count n and a
// target false-positive rate p.
func NewFilter(n uint, p float64) *Filter {
	return &Filter{bf: bloom.NewWithEstimates(n, p)}
}

// Record marks key (a question's cache key) as having most recently
// resolved to a dead branch.
func (f *Filter) Record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bf.AddString(key)
}

// MightHaveFailed reports whether key was possibly recorded by Record.
// False positives are expected and acceptable; a false negative is not
// possible for anything actually recorded (subject to the filter's error
// rate for the opposite direction only).
func (f *Filter) MightHaveFailed(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(key)
}

// Clear resets the filter. Test-only.
func (f *Filter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bf.ClearAll()
}
