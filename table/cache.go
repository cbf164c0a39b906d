package table

import (
	"fmt"
	"os"
)

type cacheEntry struct {
	table   *Table
	modTime int64
	size    int64
}

// Cache is a session-scoped loader cache keyed by file path. A cached
// Table is reused while the file's modification time and size are
// unchanged, and reloaded otherwise.
//
// A Cache belongs to one session (one window). It is not safe for
// concurrent use; the owning session serializes access.
type Cache struct {
	entries map[string]cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the Table for path, loading it on first use or when the
// file changed on disk since the last load.
func (c *Cache) Get(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if e, ok := c.entries[path]; ok && e.modTime == info.ModTime().UnixNano() && e.size == info.Size() {
		return e.table, nil
	}

	t, err := Load(path)
	if err != nil {
		delete(c.entries, path)
		return nil, err
	}

	c.entries[path] = cacheEntry{
		table:   t,
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
	}
	return t, nil
}

// Invalidate drops the cached entry for path, forcing the next Get to
// reload from disk.
func (c *Cache) Invalidate(path string) {
	delete(c.entries, path)
}
