package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testCache(t *testing.T) (*SuggestionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSuggestionCache(client), mr
}

func TestSuggestionCacheMiss(t *testing.T) {
	c, _ := testCache(t)

	payload, err := c.Get(context.Background(), "nothing here")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if payload != nil {
		t.Errorf("expected nil payload on miss, got %q", payload)
	}
}

func TestSuggestionCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	want := []byte(`[{"text":"algorithms"}]`)
	if err := c.Set(ctx, "algo", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "algo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("payload: got %q, want %q", got, want)
	}
}

func TestSuggestionKeyNormalizesQuery(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "Algo", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "  algo ")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Error("case and whitespace variants must share a cache entry")
	}
}

func TestSuggestionCacheExpiry(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "algo", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(suggestionTTL + 1)

	got, err := c.Get(ctx, "algo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("entry must expire after the TTL")
	}
}
