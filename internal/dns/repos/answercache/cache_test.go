package answercache

import (
	"testing"
	"time"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return NewCache(NewMemoryStore(16), log.NewNoopLogger())
}

func TestCache_SetThenGet(t *testing.T) {
	c := newTestCache(t)
	q := domain.Question{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN}
	answers := []domain.ResourceRecord{
		{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 3600, RData: domain.AData{Address: "93.184.216.34"}},
	}

	c.Set(q, answers)
	got, ok := c.Get(q)
	require.True(t, ok)
	assert.Equal(t, answers, got)
}

func TestCache_GetMiss(t *testing.T) {
	c := newTestCache(t)
	q := domain.Question{Name: "nowhere.example", Type: domain.RRTypeA, Class: domain.RRClassIN}
	_, ok := c.Get(q)
	assert.False(t, ok)
}

func TestCache_SetIfAbsent(t *testing.T) {
	c := newTestCache(t)
	q := domain.Question{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN}
	first := []domain.ResourceRecord{
		{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 3600, RData: domain.AData{Address: "1.1.1.1"}},
	}
	second := []domain.ResourceRecord{
		{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 3600, RData: domain.AData{Address: "2.2.2.2"}},
	}
	c.Set(q, first)
	c.Set(q, second)

	got, ok := c.Get(q)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestCache_SetEmptyAnswersIsNoop(t *testing.T) {
	c := newTestCache(t)
	q := domain.Question{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN}
	c.Set(q, nil)
	_, ok := c.Get(q)
	assert.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	store := NewMemoryStore(16)
	c := NewCache(store, log.NewNoopLogger())
	q := domain.Question{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN}
	answers := []domain.ResourceRecord{
		{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 0, RData: domain.AData{Address: "1.1.1.1"}},
	}
	c.Set(q, answers)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get(q)
	assert.False(t, ok)
}

func TestCache_SOAAndNSRoundTrip(t *testing.T) {
	c := newTestCache(t)
	q := domain.Question{Name: "com", Type: domain.RRTypeNS, Class: domain.RRClassIN}
	answers := []domain.ResourceRecord{
		{Name: "com", Type: domain.RRTypeNS, Class: domain.RRClassIN, TTL: 900, RData: domain.NSData{NameServer: "a.gtld-servers.net"}},
		{
			Name: "com", Type: domain.RRTypeSOA, Class: domain.RRClassIN, TTL: 900,
			RData: domain.SOAData{MName: "a.gtld-servers.net", RName: "nstld.verisign-grs.com", Serial: 1, Refresh: 2, Retry: 3, Expire: 4, Minimum: 5},
		},
	}
	c.Set(q, answers)
	got, ok := c.Get(q)
	require.True(t, ok)
	assert.Equal(t, answers, got)
}
