package elements

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store combines the fetcher and the cache into the element-set lifecycle:
// serve from cache while fresh, otherwise fetch, extract the requested
// satellite's record, and persist it.
//
// Instances share no mutable state; concurrent callers must not share a
// single cache path without external locking.
type Store struct {
	fetcher *Fetcher
	cache   *Cache
	logger  *slog.Logger

	// now is swappable for staleness tests.
	now func() time.Time
}

// NewStore creates a Store fetching from sourceURL and caching at cachePath.
func NewStore(sourceURL, cachePath string, logger *slog.Logger) *Store {
	return &Store{
		fetcher: NewFetcher(sourceURL),
		cache:   NewCache(cachePath),
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns a ready-to-propagate element set for the named satellite.
//
// If the cached record exists, is younger than maxAge, and names the
// requested satellite, it is returned. Otherwise a fresh payload is fetched
// and the matching record is persisted over the old cache. A failed fetch
// or a missing satellite name is ErrDataUnavailable: the store does not
// retry, and does not silently fall back to a stale cache; that decision
// belongs to the caller.
func (s *Store) Get(ctx context.Context, name string, maxAge time.Duration) (*Set, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	now := s.now()
	cached, err := s.cache.Load(s.logger)
	switch {
	case err != nil:
		s.logger.Info("no usable element cache, fetching", "satellite", name, "error", err)
	case cached.Name != name:
		s.logger.Info("cached element set is for a different satellite, fetching",
			"satellite", name, "cached", cached.Name)
	case cached.IsStale(now, maxAge):
		s.logger.Info("cached element set is stale, fetching",
			"satellite", name,
			"age_hours", cached.Age(now).Hours(),
			"max_age_hours", maxAge.Hours(),
		)
	default:
		s.logger.Debug("serving element set from cache",
			"satellite", name,
			"age_hours", cached.Age(now).Hours(),
		)
		return cached, nil
	}

	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching elements for %q: %v", ErrDataUnavailable, name, err)
	}

	sets, err := Parse(bytes.NewReader(data), s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing element payload for %q: %v", ErrDataUnavailable, name, err)
	}

	set, ok := Find(sets, name)
	if !ok {
		return nil, fmt.Errorf("%w: satellite %q not found among %d records from %s",
			ErrDataUnavailable, name, len(sets), s.fetcher.SourceURL())
	}

	set.RetrievedAt = now
	set.Source = s.fetcher.SourceURL()

	if err := s.cache.Write(set); err != nil {
		// The fetched set is still usable; a failed cache write only costs
		// the next call a refetch.
		s.logger.Warn("failed to persist element cache", "satellite", name, "error", err)
	} else {
		s.logger.Info("element set refreshed",
			"satellite", name,
			"norad_id", set.NORADID,
			"epoch", set.Epoch.UTC().Format(time.RFC3339),
			"cache_path", s.cache.Path(),
		)
	}

	return set, nil
}
