package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/invindex/pkg/redis"
)

const keyPrefix = "invindex:query:"

// Store is the key-value backend of the cache. *pkgredis.Client
// satisfies it; a missing key must be reported with pkgredis.ErrNil.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache stores query results keyed by the index fingerprint and the
// ordered query terms, so results from a rebuilt index are never served.
type QueryCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, fingerprint uint32, terms []string) ([]string, bool) {
	key := buildKey(fingerprint, terms)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var docIDs []string
	if err := json.Unmarshal([]byte(data), &docIDs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hit()
	c.logger.Debug("cache hit", "terms", terms, "key", key)
	return docIDs, true
}

func (c *QueryCache) Set(ctx context.Context, fingerprint uint32, terms []string, docIDs []string) {
	key := buildKey(fingerprint, terms)
	data, err := json.Marshal(docIDs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or runs computeFn once per key,
// storing its result. The boolean reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	fingerprint uint32,
	terms []string,
	computeFn func() ([]string, error),
) ([]string, bool, error) {
	if docIDs, ok := c.Get(ctx, fingerprint, terms); ok {
		return docIDs, true, nil
	}
	key := buildKey(fingerprint, terms)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		docIDs, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, fingerprint, terms, docIDs)
		return docIDs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]string), false, nil
}

// Invalidate drops every cached result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) hit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// Term order is part of the key: results follow the first term's postings.
// Terms are hashed in their JSON array form so no term boundary can be
// forged by a byte inside a term.
func buildKey(fingerprint uint32, terms []string) string {
	if terms == nil {
		terms = []string{}
	}
	encoded, _ := json.Marshal(terms)
	hash := sha256.Sum256(encoded)
	return fmt.Sprintf("%s%08x:%x", keyPrefix, fingerprint, hash[:16])
}
