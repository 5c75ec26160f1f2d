package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// CacheEntry is a resolved module together with the content hash it was
// resolved from
type CacheEntry struct {
	Result   *ModuleResult
	Hash     string
	CachedAt time.Time
}

// Cache keeps module results between builds in watch mode. Entries are
// keyed by description file path and are only returned while the content
// hash still matches.
type Cache struct {
	entries map[string]*CacheEntry
	mu      sync.RWMutex
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*CacheEntry)}
}

// Get returns the cached result for path if it was built from hash
func (c *Cache) Get(path, hash string) (*ModuleResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[path]
	if !ok || entry.Hash != hash {
		return nil, false
	}
	return entry.Result, true
}

// Put stores a result
func (c *Cache) Put(path, hash string, result *ModuleResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = &CacheEntry{Result: result, Hash: hash, CachedAt: time.Now()}
}

// Delete removes the entry for path
func (c *Cache) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// HashSources computes a SHA-256 hash over a description file and its
// registry file. A missing registry hashes differently from an empty one.
func HashSources(metadata, registry []byte) string {
	h := sha256.New()
	h.Write(metadata)
	if registry == nil {
		h.Write([]byte{0})
	} else {
		h.Write([]byte{1})
		h.Write(registry)
	}
	return hex.EncodeToString(h.Sum(nil))
}
