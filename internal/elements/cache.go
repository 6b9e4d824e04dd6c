package elements

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Cache stores a single satellite's element record as a plain-text file:
// the name line followed by the two element lines. A refresh overwrites the
// file wholesale; the file's modification time is the staleness clock.
//
// The write is a plain truncate-and-write with no torn-write protection.
// Callers sharing one cache path across processes need external locking or
// their own write-then-rename scheme.
type Cache struct {
	path string
}

// NewCache creates a Cache backed by the given file path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Write persists the record's exact lines, replacing any prior content.
func (c *Cache) Write(set *Set) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}

	data := set.Name + "\n" + set.Line1 + "\n" + set.Line2 + "\n"
	if err := os.WriteFile(c.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Load reads and parses the cached record. RetrievedAt is taken from the
// file's modification time and Source is the cache path, so staleness
// checks on the returned Set are pure value operations.
func (c *Cache) Load(logger *slog.Logger) (*Set, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("stat cache file: %w", err)
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	sets, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("parsing cache file: %w", err)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("cache file %s holds no valid element record", c.path)
	}

	set := sets[0]
	set.RetrievedAt = info.ModTime()
	set.Source = c.path
	return &set, nil
}

// Touch updates the cache file's modification time, resetting the
// staleness clock without rewriting content.
func (c *Cache) Touch(now time.Time) error {
	return os.Chtimes(c.path, now, now)
}
