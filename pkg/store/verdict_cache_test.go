package store

import (
	"context"
	"testing"
	"time"

	"ai-research-safety-be/pkg/moderation"
	"ai-research-safety-be/pkg/risk"
)

func TestCacheKey(t *testing.T) {
	base := moderation.Request{Text: "hello"}

	if CacheKey(base) != CacheKey(moderation.Request{Text: "hello"}) {
		t.Error("identical requests must share a key")
	}

	variants := []moderation.Request{
		{Text: "hello!"},
		{Text: "hello", StrictMode: true},
		{Text: "hello", ImageURL: "https://example.com/x.png"},
		{Text: "hello", ImageBase64: "aGk="},
		{Text: "hello", Context: "forum post"},
		{Text: "hello", CheckCategories: []string{"nsfw", "violence"}},
	}
	seen := map[string]bool{CacheKey(base): true}
	for _, v := range variants {
		key := CacheKey(v)
		if seen[key] {
			t.Errorf("request %+v collides with an earlier key", v)
		}
		seen[key] = true
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	verdict := &moderation.Verdict{IsSafe: false, OverallRiskLevel: risk.LevelHigh}
	key := CacheKey(moderation.Request{Text: "cached"})

	if _, found := cache.Get(ctx, key); found {
		t.Fatal("unexpected hit before Set")
	}

	cache.Set(ctx, key, verdict)

	got, found := cache.Get(ctx, key)
	if !found {
		t.Fatal("expected a hit after Set")
	}
	if got.OverallRiskLevel != risk.LevelHigh || got.IsSafe {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	key := CacheKey(moderation.Request{Text: "ephemeral"})
	cache.Set(ctx, key, &moderation.Verdict{IsSafe: true})

	time.Sleep(30 * time.Millisecond)

	if _, found := cache.Get(ctx, key); found {
		t.Error("entry survived past its TTL")
	}
}
