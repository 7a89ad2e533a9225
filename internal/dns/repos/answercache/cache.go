package answercache

import (
	"encoding/hex"
	"encoding/json"

	"github.com/nullhorizon/recon-dns/internal/dns/common/log"
	"github.com/nullhorizon/recon-dns/internal/dns/domain"
	"github.com/nullhorizon/recon-dns/internal/dns/wire"
)

// Cache implements the C5 answer-cache contract (get/set/clear) on top of
// a KVStore. The serialized shape stored in the backend is internal and
// not on the wire: each ResourceRecord's rdata is encoded once through
// the same C2 codec the message codec uses, so the cache never needs its
// own parallel rdata format.
type Cache struct {
	store  KVStore
	logger log.Logger
}

// NewCache constructs a Cache over the given backend.
func NewCache(store KVStore, logger log.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// entry is the JSON-serializable form of one cached ResourceRecord.
type entry struct {
	Name  string `json:"name"`
	Type  uint16 `json:"type"`
	Class uint16 `json:"class"`
	TTL   uint32 `json:"ttl"`
	RData string `json:"rdata"` // hex-encoded C2 wire bytes
}

// Get returns the cached answer list for q, or a miss. Any backing-store
// or deserialization failure is logged and degraded to a miss, per the
// cache's best-effort contract.
func (c *Cache) Get(q domain.Question) ([]domain.ResourceRecord, bool) {
	raw, ok := c.store.Get(q.CacheKey())
	if !ok {
		return nil, false
	}
	rrs, err := decodeEntries(raw)
	if err != nil {
		c.logger.Warn(map[string]any{
			"key":   q.CacheKey(),
			"error": err.Error(),
		}, "answer cache entry could not be decoded, treating as miss")
		return nil, false
	}
	return rrs, true
}

// Set stores answers under q, set-if-absent, with a TTL equal to the
// first answer's TTL. An empty answers slice is a no-op. Any backing-store
// failure is logged and swallowed; callers never see it.
func (c *Cache) Set(q domain.Question, answers []domain.ResourceRecord) {
	if len(answers) == 0 {
		return
	}
	raw, err := encodeEntries(answers)
	if err != nil {
		c.logger.Warn(map[string]any{
			"key":   q.CacheKey(),
			"error": err.Error(),
		}, "answer cache entry could not be encoded, dropping write")
		return
	}
	if _, err := c.store.SetIfAbsent(q.CacheKey(), raw, answers[0].TTLDuration()); err != nil {
		c.logger.Warn(map[string]any{
			"key":   q.CacheKey(),
			"error": err.Error(),
		}, "answer cache set failed")
	}
}

// Clear empties the backing store. Test-only per the cache contract.
func (c *Cache) Clear() error {
	return c.store.Clear()
}

func encodeEntries(rrs []domain.ResourceRecord) ([]byte, error) {
	out := make([]entry, 0, len(rrs))
	for _, rr := range rrs {
		table := make(wire.CompressionTable)
		rdataBytes, err := wire.EncodeRData(rr.Type, rr.RData, table, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, entry{
			Name:  rr.Name,
			Type:  uint16(rr.Type),
			Class: uint16(rr.Class),
			TTL:   rr.TTL,
			RData: hex.EncodeToString(rdataBytes),
		})
	}
	return json.Marshal(out)
}

func decodeEntries(raw []byte) ([]domain.ResourceRecord, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	rrs := make([]domain.ResourceRecord, 0, len(entries))
	for _, e := range entries {
		rdataBytes, err := hex.DecodeString(e.RData)
		if err != nil {
			return nil, err
		}
		rrtype := domain.RRType(e.Type)
		rdata, err := wire.DecodeRData(rrtype, rdataBytes, 0, len(rdataBytes))
		if err != nil {
			return nil, err
		}
		rrs = append(rrs, domain.ResourceRecord{
			Name:  e.Name,
			Type:  rrtype,
			Class: domain.RRClass(e.Class),
			TTL:   e.TTL,
			RData: rdata,
		})
	}
	return rrs, nil
}
