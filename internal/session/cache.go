package session

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	"github.com/gofiber/fiber/v2/log"
)

// Cache holds completed stream lists so a replayed request can skip the
// provider round-trips entirely.
type Cache struct {
	store *freecache.Cache
	ttl   time.Duration
}

type cachedList struct {
	StoredAt time.Time   `json:"storedAt"`
	Entries  []FlatEntry `json:"entries"`
}

func NewCache(sizeBytes int, ttl time.Duration) *Cache {
	return &Cache{
		store: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

// Get returns the cached list for a target along with its age.
func (c *Cache) Get(target Target) ([]FlatEntry, time.Duration, bool) {
	raw, err := c.store.Get(target.cacheKey())
	if err != nil {
		return nil, 0, false
	}

	var stored cachedList
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warnf("Dropping corrupt cache entry for %s: %v", target.VideoID(), err)
		c.store.Del(target.cacheKey())
		return nil, 0, false
	}

	return stored.Entries, time.Since(stored.StoredAt), true
}

// Set stores a completed list. Empty results are not cached so the next
// request retries the providers.
func (c *Cache) Set(target Target, entries []FlatEntry) {
	if len(entries) == 0 {
		return
	}

	raw, err := json.Marshal(cachedList{StoredAt: time.Now(), Entries: entries})
	if err != nil {
		log.Errorf("Failed to encode cache entry for %s: %v", target.VideoID(), err)
		return
	}

	if err := c.store.Set(target.cacheKey(), raw, int(c.ttl.Seconds())); err != nil {
		log.Warnf("Failed to cache streams for %s: %v", target.VideoID(), err)
	}
}
