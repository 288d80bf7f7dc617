package store

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-research-safety-be/pkg/moderation"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// VerdictCache short-circuits repeat moderation of identical payloads.
// Verdicts are keyed by a content hash so the raw content never becomes a key.
type VerdictCache interface {
	Get(ctx context.Context, key string) (*moderation.Verdict, bool)
	Set(ctx context.Context, key string, verdict *moderation.Verdict)
}

// CacheKey hashes the full request payload. Strict and lax analyses of the
// same content are distinct entries, as are differing category selections.
func CacheKey(req moderation.Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%v|%s",
		req.Text, req.ImageURL, req.ImageBase64, req.Context,
		req.StrictMode, strings.Join(req.CheckCategories, ","))
	return fmt.Sprintf("verdict:%x", h.Sum(nil))
}

// --- In-memory implementation (default) ---

type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (*moderation.Verdict, bool) {
	value, found := m.cache.Get(key)
	if !found {
		return nil, false
	}
	verdict, ok := value.(*moderation.Verdict)
	return verdict, ok
}

func (m *MemoryCache) Set(_ context.Context, key string, verdict *moderation.Verdict) {
	m.cache.SetDefault(key, verdict)
}

// --- Redis implementation (shared cache across replicas) ---

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) (*moderation.Verdict, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var verdict moderation.Verdict
	if err := json.Unmarshal(data, &verdict); err != nil {
		return nil, false
	}
	return &verdict, true
}

func (r *RedisCache) Set(ctx context.Context, key string, verdict *moderation.Verdict) {
	data, err := json.Marshal(verdict)
	if err != nil {
		return
	}
	// Best effort; a cache write failure must never fail the request
	r.client.Set(ctx, key, data, r.ttl)
}
