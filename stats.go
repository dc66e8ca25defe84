package tickcache

import (
	"github.com/google/uuid"
)

// Stats is a point-in-time snapshot of a Cache's size and counters.
type Stats struct {
	ID             uuid.UUID `json:"id"`
	Size           int       `json:"size"`
	Hits           uint64    `json:"hits"`
	Misses         uint64    `json:"misses"`
	Evictions      uint64    `json:"evictions"`
	TTLExpirations uint64    `json:"ttl_expirations"`
	Deletes        uint64    `json:"deletes"`
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	s := c.store.Stats()
	return Stats{
		ID:             c.id,
		Size:           s.Size,
		Hits:           s.Hits,
		Misses:         s.Misses,
		Evictions:      s.Evictions,
		TTLExpirations: s.TTLExpirations,
		Deletes:        s.Deletes,
	}
}
