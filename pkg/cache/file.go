package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"
)

// FileCache stores entries as snappy-compressed files for CLI usage.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// cacheEntry is the on-disk form of one value. Key is kept so that
// [FileCache.Usage] can break entries down by type.
type cacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get retrieves a value from the cache. Unreadable and expired entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	entry, err := readEntry(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	var corrupt *corruptError
	if errors.As(err, &corrupt) || (err == nil && entry.expired(c.now())) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Data, true, nil
}

type corruptError struct{ err error }

func (e *corruptError) Error() string { return "corrupt cache entry: " + e.err.Error() }

// readEntry decodes the entry at path. Decoding failures are returned as
// *corruptError.
func readEntry(path string) (cacheEntry, error) {
	var entry cacheEntry
	raw, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	data, err := snappy.Decode(nil, raw)
	if err == nil {
		err = json.Unmarshal(data, &entry)
	}
	if err != nil {
		return entry, &corruptError{err}
	}
	return entry, nil
}

// Set stores a value in the cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write then rename so a concurrent Get never sees a partial entry.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, snappy.Encode(nil, encoded), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes every entry and the emptied shard directories. It returns
// the number of entries removed.
func (c *FileCache) Clear() (int, error) {
	return c.remove(func(string) bool { return true })
}

// Prune removes expired and unreadable entries and returns how many.
func (c *FileCache) Prune() (int, error) {
	now := c.now()
	return c.remove(func(path string) bool {
		entry, err := readEntry(path)
		return err != nil || entry.expired(now)
	})
}

// Usage counts live entries by key type (layout, artifact, source) and
// sums the bytes they occupy on disk.
func (c *FileCache) Usage() (map[string]int, int64, error) {
	counts := make(map[string]int)
	var size int64
	now := c.now()
	err := c.walk(func(path string, d fs.DirEntry) {
		entry, err := readEntry(path)
		if err != nil || entry.expired(now) {
			return
		}
		counts[keyType(entry.Key)]++
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
	})
	return counts, size, err
}

// remove deletes the entries drop selects, then any shard directories
// left empty.
func (c *FileCache) remove(drop func(path string) bool) (int, error) {
	count := 0
	err := c.walk(func(path string, _ fs.DirEntry) {
		if drop(path) && os.Remove(path) == nil {
			count++
		}
	})
	shards, _ := os.ReadDir(c.dir)
	for _, d := range shards {
		if d.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, d.Name())) // fails unless empty
		}
	}
	return count, err
}

// walk visits every entry file under the cache directory.
func (c *FileCache) walk(fn func(path string, d fs.DirEntry)) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			fn(path, d)
		}
		return nil
	})
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path shards entries by the first two hex characters of the key hash.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".sz")
}

var _ Cache = (*FileCache)(nil)
