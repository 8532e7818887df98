package cache

import (
	"github.com/coocood/freecache"
)

const noExpiry = 0

// Cache is a fixed-size in-memory byte cache. Entries are evicted when the
// cache is full or their TTL passes.
type Cache struct {
	inMem *freecache.Cache
	ttl   int
}

func New(sizeInBytes, ttlSeconds int) *Cache {
	if ttlSeconds < 0 {
		ttlSeconds = noExpiry
	}
	return &Cache{
		inMem: freecache.NewCache(sizeInBytes),
		ttl:   ttlSeconds,
	}
}

func (c *Cache) Get(key []byte) ([]byte, bool) {
	value, err := c.inMem.Get(key)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *Cache) Set(key, value []byte) error {
	return c.inMem.Set(key, value, c.ttl)
}

type Stats struct {
	Entries   int64   `json:"entries"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	Evictions int64   `json:"evictions"`
}

func (c *Cache) Stats() Stats {
	return Stats{
		Entries:   c.inMem.EntryCount(),
		Hits:      c.inMem.HitCount(),
		Misses:    c.inMem.MissCount(),
		HitRate:   c.inMem.HitRate(),
		Evictions: c.inMem.EvacuateCount(),
	}
}
