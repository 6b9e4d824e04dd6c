// Package elements manages the lifecycle of orbital element sets: fetching
// them from a network source, caching a single satellite's record on disk,
// and deciding when a cached set is too old to trust for propagation.
package elements

import (
	"errors"
	"time"
)

// DefaultMaxAge is how old an element set may be before it must be
// refreshed ahead of propagation.
const DefaultMaxAge = 10 * 24 * time.Hour

// ErrDataUnavailable is returned when an element set cannot be fetched or
// when the requested satellite is missing from the fetched payload. The
// caller decides whether to retry, fall back to a stale cache, or abort;
// the store itself never retries.
var ErrDataUnavailable = errors.New("element set unavailable")

// Set is one satellite's two-line element record. A Set is never mutated
// in place: a refresh produces a new value that replaces the cached one.
type Set struct {
	Name    string
	NORADID int
	Line1   string
	Line2   string

	// Epoch is the element-set epoch encoded in line 1.
	Epoch time.Time

	// RetrievedAt is when this record was obtained from its source. For
	// cache loads this is the cache file's modification time.
	RetrievedAt time.Time

	// Source is the URL or cache file path the record came from.
	Source string
}

// IsStale reports whether the set is too old to propagate with.
// A set is stale once now - RetrievedAt >= maxAge.
func (s *Set) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.RetrievedAt) >= maxAge
}

// Age returns how long ago the set was retrieved.
func (s *Set) Age(now time.Time) time.Duration {
	return now.Sub(s.RetrievedAt)
}
