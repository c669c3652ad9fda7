package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"stolikiApi/internal/modules/booking/application/port"
	"stolikiApi/internal/modules/booking/domain"
)

type stubVenueStore struct {
	venues map[string]domain.Venue
	err    error
	calls  int
}

func (s *stubVenueStore) FindByID(_ context.Context, id string) (*domain.Venue, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	venue, ok := s.venues[id]
	if !ok {
		return nil, port.ErrVenueNotFound
	}
	return &venue, nil
}

func (s *stubVenueStore) FindActive(context.Context) ([]domain.Venue, error) {
	return nil, s.err
}

func newTestCache(store *stubVenueStore, ttl time.Duration) (*CachedVenueStore, *time.Time) {
	cache := NewCachedVenueStore(store, ttl)
	current := time.Date(2024, 6, 25, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }
	return cache, &current
}

func TestCachedVenueStoreServesHitWithoutStoreCall(t *testing.T) {
	store := &stubVenueStore{venues: map[string]domain.Venue{
		"V1": {ID: "V1", Title: "Север", PointID: 203003, Active: true},
	}}
	cache, _ := newTestCache(store, time.Minute)

	ctx := context.Background()
	if _, err := cache.FindByID(ctx, "V1"); err != nil {
		t.Fatalf("warm-up read: %v", err)
	}
	venue, err := cache.FindByID(ctx, "V1")
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if venue.PointID != 203003 {
		t.Fatalf("unexpected venue: %+v", venue)
	}
	if store.calls != 1 {
		t.Fatalf("expected a single store call, got %d", store.calls)
	}
}

func TestCachedVenueStoreExpiresByTTL(t *testing.T) {
	store := &stubVenueStore{venues: map[string]domain.Venue{
		"V1": {ID: "V1", Active: true, PointID: 1},
	}}
	cache, current := newTestCache(store, time.Minute)

	ctx := context.Background()
	if _, err := cache.FindByID(ctx, "V1"); err != nil {
		t.Fatal(err)
	}
	*current = current.Add(61 * time.Second)
	if _, err := cache.FindByID(ctx, "V1"); err != nil {
		t.Fatal(err)
	}
	if store.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", store.calls)
	}
}

func TestCachedVenueStoreCachesNotFound(t *testing.T) {
	store := &stubVenueStore{venues: map[string]domain.Venue{}}
	cache, _ := newTestCache(store, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := cache.FindByID(ctx, "ghost"); !errors.Is(err, port.ErrVenueNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
	}
	if store.calls != 1 {
		t.Fatalf("negative entry should absorb repeats, got %d calls", store.calls)
	}
}

func TestCachedVenueStoreServesStaleOnStoreError(t *testing.T) {
	store := &stubVenueStore{venues: map[string]domain.Venue{
		"V1": {ID: "V1", Title: "Север", Active: true, PointID: 1},
	}}
	cache, current := newTestCache(store, time.Minute)

	ctx := context.Background()
	if _, err := cache.FindByID(ctx, "V1"); err != nil {
		t.Fatal(err)
	}

	*current = current.Add(2 * time.Minute)
	store.err = errors.New("connection refused")

	venue, err := cache.FindByID(ctx, "V1")
	if err != nil {
		t.Fatalf("expected stale entry to be served, got %v", err)
	}
	if venue.Title != "Север" {
		t.Fatalf("unexpected venue: %+v", venue)
	}
}

func TestCachedVenueStoreInvalidateForcesRefetch(t *testing.T) {
	store := &stubVenueStore{venues: map[string]domain.Venue{
		"V1": {ID: "V1", Active: true, PointID: 1},
	}}
	cache, _ := newTestCache(store, time.Minute)

	ctx := context.Background()
	if _, err := cache.FindByID(ctx, "V1"); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate("V1")
	if _, err := cache.FindByID(ctx, "V1"); err != nil {
		t.Fatal(err)
	}
	if store.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", store.calls)
	}
}
