// Package cache holds recently assembled snapshots in memory so repeat
// extractions of the same URL can skip the browser entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/use-agent/brandlens/models"
)

// entry holds a cached snapshot with its creation timestamp.
type entry struct {
	snapshot  *models.BrandStyleSnapshot
	createdAt time.Time
}

// Cache is an in-memory snapshot cache. Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a Cache with the given capacity. A background goroutine
// evicts entries older than 1 hour every 5 minutes.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}
	go c.cleanupLoop()
	return c
}

// Key derives the cache key from the URL and the options that change the
// snapshot's content. Two requests differing only in timeout share a key.
func Key(req *models.ExtractRequest) string {
	h := sha256.New()
	h.Write([]byte(req.URL))
	fmt.Fprintf(h, "|%d|%v|%v", req.MaxImages, req.SkipDownloads, req.SkipContentPreview)
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached snapshot younger than maxAgeMs. maxAgeMs <= 0
// disables lookup.
func (c *Cache) Get(key string, maxAgeMs int) (*models.BrandStyleSnapshot, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.snapshot, true
}

// Set stores a snapshot. At capacity, one random entry is evicted to make
// room (map iteration order is random).
func (c *Cache) Set(key string, snap *models.BrandStyleSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		snapshot:  snap,
		createdAt: time.Now(),
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
