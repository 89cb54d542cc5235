package render

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"

	"github.com/syssam/sqlgen/dialect"
)

// cacheVersion changes whenever the rendered output of an unchanged
// document may change. Files with another version are discarded.
const cacheVersion = 1

// Cache maps the hash of a document and its render settings to the
// rendered text. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]CacheEntry
	dirty   bool
}

// CacheEntry is a cached render.
type CacheEntry struct {
	Dialect    dialect.Dialect `msgpack:"dialect"`
	Text       string          `msgpack:"text"`
	Statements int             `msgpack:"statements"`
}

type cacheFile struct {
	Version int                   `msgpack:"version"`
	Entries map[uint64]CacheEntry `msgpack:"entries"`
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]CacheEntry)}
}

// CacheKey returns the key of a document rendered with d in the given mode.
func CacheKey(content []byte, d dialect.Dialect, prepared bool) uint64 {
	b := make([]byte, 0, len(content)+len(d)+3)
	b = append(b, content...)
	b = append(b, 0)
	b = append(b, d...)
	b = append(b, 0)
	if prepared {
		b = append(b, 1)
	}
	return xxh3.Hash(b)
}

// Get returns the entry stored under key.
func (c *Cache) Get(key uint64) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// Set stores e under key.
func (c *Cache) Set(key uint64, e CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[key]; ok && old == e {
		return
	}
	c.entries[key] = e
	c.dirty = true
}

// Delete removes the entry stored under key.
func (c *Cache) Delete(key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.dirty = true
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) > 0 {
		c.entries = make(map[uint64]CacheEntry)
		c.dirty = true
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// LoadCache reads the cache file at path. A missing file, or one written
// by another cache version, yields an empty cache.
func LoadCache(fs afero.Fs, path string) (*Cache, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return NewCache(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("render: read cache: %w", err)
	}
	var f cacheFile
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("render: decode cache %s: %w", path, err)
	}
	c := NewCache()
	if f.Version == cacheVersion {
		for k, e := range f.Entries {
			c.entries[k] = e
		}
	}
	return c, nil
}

// Save writes the cache to path if it changed since it was loaded or
// last saved.
func (c *Cache) Save(fs afero.Fs, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data, err := msgpack.Marshal(cacheFile{Version: cacheVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("render: encode cache: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("render: write cache: %w", err)
	}
	c.dirty = false
	return nil
}
