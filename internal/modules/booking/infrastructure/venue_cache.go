package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"stolikiApi/internal/modules/booking/application/port"
	"stolikiApi/internal/modules/booking/domain"
)

// CachedVenueStore wraps a VenueStore with a TTL read cache. Cache misses
// and stale entries fall through to the store; only a definitive
// not-found is cached negatively so repeated bad ids don't hammer the
// database.
type CachedVenueStore struct {
	store port.VenueStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]venueCacheEntry
}

type venueCacheEntry struct {
	venue    *domain.Venue
	missing  bool
	cachedAt time.Time
}

func NewCachedVenueStore(store port.VenueStore, ttl time.Duration) *CachedVenueStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedVenueStore{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]venueCacheEntry),
	}
}

func (c *CachedVenueStore) FindByID(ctx context.Context, id string) (*domain.Venue, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.cachedAt) < c.ttl {
		if entry.missing {
			return nil, port.ErrVenueNotFound
		}
		cloned := *entry.venue
		return &cloned, nil
	}

	venue, err := c.store.FindByID(ctx, id)
	switch {
	case errors.Is(err, port.ErrVenueNotFound):
		c.put(id, venueCacheEntry{missing: true, cachedAt: c.now()})
		return nil, err
	case err != nil:
		// Store trouble must not poison the cache; serve the stale entry
		// if one exists, it is still the best answer available.
		if ok && !entry.missing {
			slog.Warn("venue store unavailable, serving stale cache", slog.String("restaurantId", id), slog.Any("error", err))
			cloned := *entry.venue
			return &cloned, nil
		}
		return nil, err
	default:
		c.put(id, venueCacheEntry{venue: venue, cachedAt: c.now()})
		cloned := *venue
		return &cloned, nil
	}
}

func (c *CachedVenueStore) FindActive(ctx context.Context) ([]domain.Venue, error) {
	return c.store.FindActive(ctx)
}

// Invalidate drops a cached venue, used by CMS hooks after edits.
func (c *CachedVenueStore) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

func (c *CachedVenueStore) put(id string, entry venueCacheEntry) {
	c.mu.Lock()
	c.entries[id] = entry
	c.mu.Unlock()
}
