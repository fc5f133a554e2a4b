package cache

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/invindex/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/invindex/pkg/redis"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", pkgredis.ErrNil
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("store unavailable")
	}
	m.data[key] = string(value.([]byte))
	return nil
}

func (m *memoryStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			deleted++
		}
	}
	return deleted, nil
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := New(store, time.Minute, metrics.New())

	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"37"}, nil
	}

	got, hit, err := c.GetOrCompute(ctx, 0xabc, []string{"A_word", "B_word"}, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"37"}, got)

	got, hit, err = c.GetOrCompute(ctx, 0xabc, []string{"A_word", "B_word"}, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"37"}, got)
	assert.Equal(t, 1, calls)

	hits, misses := c.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)
}

func TestKeyDependsOnFingerprintAndOrder(t *testing.T) {
	base := buildKey(1, []string{"a", "b"})
	assert.NotEqual(t, base, buildKey(2, []string{"a", "b"}))
	assert.NotEqual(t, base, buildKey(1, []string{"b", "a"}))
	assert.NotEqual(t, base, buildKey(1, []string{"a b"}))
	assert.NotEqual(t, base, buildKey(1, []string{"a\x1fb"}))
	assert.NotEqual(t, base, buildKey(1, []string{"a", "", "b"}))
	assert.NotEqual(t, buildKey(1, []string{"a,b"}), buildKey(1, []string{"a", "b"}))
	assert.Equal(t, base, buildKey(1, []string{"a", "b"}))
}

func TestSeparatorBytesInTermsDoNotShareResults(t *testing.T) {
	ctx := context.Background()
	c := New(newMemoryStore(), time.Minute, nil)

	got, hit, err := c.GetOrCompute(ctx, 1, []string{"a", "b"}, func() ([]string, error) { return []string{"1"}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"1"}, got)

	got, hit, err = c.GetOrCompute(ctx, 1, []string{"a\x1fb"}, func() ([]string, error) { return []string{}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, got)
}

func TestComputeErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := New(store, time.Minute, nil)

	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(ctx, 1, []string{"x"}, func() ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.data)
}

func TestSetFailureFallsBackToComputedResult(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.failSet = true
	c := New(store, time.Minute, nil)

	got, hit, err := c.GetOrCompute(ctx, 1, []string{"x"}, func() ([]string, error) { return []string{"1"}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"1"}, got)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.data["unrelated"] = "keep"
	c := New(store, time.Minute, nil)
	c.Set(ctx, 1, []string{"x"}, []string{"1"})
	c.Set(ctx, 2, []string{"y"}, []string{"2"})

	require.NoError(t, c.Invalidate(ctx))
	assert.Equal(t, map[string]string{"unrelated": "keep"}, store.data)
}
