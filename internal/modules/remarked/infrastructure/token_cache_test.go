package infrastructure

import (
	"testing"
	"time"
)

func TestTokenCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := newTokenCache(55 * time.Minute)
	cache.now = func() time.Time { return now }

	cache.set(1, "tok-a")
	if token, ok := cache.get(1); !ok || token != "tok-a" {
		t.Fatalf("expected cached token, got %q ok=%v", token, ok)
	}

	now = now.Add(54 * time.Minute)
	if _, ok := cache.get(1); !ok {
		t.Fatal("token should still be valid inside the TTL")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.get(1); ok {
		t.Fatal("token should have expired")
	}
}

func TestTokenCacheInvalidate(t *testing.T) {
	cache := newTokenCache(time.Minute)
	cache.set(1, "tok-a")
	cache.set(2, "tok-b")
	cache.invalidate(1)

	if _, ok := cache.get(1); ok {
		t.Fatal("invalidated entry must be gone")
	}
	if token, ok := cache.get(2); !ok || token != "tok-b" {
		t.Fatal("other venues must keep their tokens")
	}
}

func TestTokenCacheIgnoresEmptyTokens(t *testing.T) {
	cache := newTokenCache(time.Minute)
	cache.set(1, "")
	if _, ok := cache.get(1); ok {
		t.Fatal("empty token must not be cached")
	}
}
