package risk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"kycflow/internal/onboarding/models"
)

const cacheKeyPrefix = "kycflow:risk:"

// Cache stores assessments by profile fingerprint. A miss is (_, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (models.RiskAssessment, bool, error)
	Set(ctx context.Context, key string, a models.RiskAssessment, ttl time.Duration) error
}

// CacheKey fingerprints the parts of a request that influence the answer.
func CacheKey(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", req.EntityName, req.EntityType)
	for _, k := range req.Attributes.Keys() {
		fmt.Fprintf(h, "%s=%s\x00", k, req.Attributes.Get(k))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Cached serves repeat analyses of an unchanged profile from a cache.
// Only successful answers from next are stored.
type Cached struct {
	next   Analyzer
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(next Analyzer, cache Cache, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *Cached) Analyze(ctx context.Context, req Request) (models.RiskAssessment, error) {
	key := CacheKey(req)
	if a, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "risk cache read failed", "error", err)
	} else if ok {
		return a, nil
	}

	a, err := c.next.Analyze(ctx, req)
	if err != nil {
		return a, err
	}
	if err := c.cache.Set(ctx, key, a, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "risk cache write failed", "error", err)
	}
	return a, nil
}

type memoryEntry struct {
	value     models.RiskAssessment
	expiresAt time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) (models.RiskAssessment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return models.RiskAssessment{}, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return models.RiskAssessment{}, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, a models.RiskAssessment, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = memoryEntry{value: a, expiresAt: expiresAt}
	return nil
}

// RedisCache shares assessments between instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (models.RiskAssessment, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.RiskAssessment{}, false, nil
	}
	if err != nil {
		return models.RiskAssessment{}, false, err
	}
	var a models.RiskAssessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return models.RiskAssessment{}, false, fmt.Errorf("decode cached assessment: %w", err)
	}
	return a, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, a models.RiskAssessment, ttl time.Duration) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}
