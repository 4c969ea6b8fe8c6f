package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps entries as JSON files below a directory, two hex digits
// of the key hash per subdirectory.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens dir as a cache, creating it and its parents.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value from the cache. Corrupt and expired entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if c.expired(entry) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (c *FileCache) expired(e fileEntry) bool {
	return !e.ExpiresAt.IsZero() && c.now().After(e.ExpiresAt)
}

// Set writes data to a temporary file and renames it over the entry, so
// concurrent readers never see a partial entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, entryData, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes the entry file, if any.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Stats counts the entries and their total size on disk.
func (c *FileCache) Stats() (entries int, bytes int64, err error) {
	err = c.walk(func(path string, info fs.FileInfo) error {
		entries++
		bytes += info.Size()
		return nil
	})
	return entries, bytes, err
}

// Prune removes expired and unreadable entries and reports how many went.
func (c *FileCache) Prune() (int, error) {
	removed := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entry fileEntry
		if json.Unmarshal(data, &entry) == nil && !c.expired(entry) {
			return nil
		}
		removed++
		return os.Remove(path)
	})
	return removed, err
}

// Clear removes every entry.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		removed++
		return os.Remove(path)
	})
	return removed, err
}

func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
}

// Close is a no-op; entries live on disk.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
