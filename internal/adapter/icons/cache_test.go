package icons

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/couchcryptid/ev-charger-map/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingResolver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *countingResolver) ResolveIcon(_ context.Context, account string, color domain.Color) (domain.IconResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.IconResource{}, m.err
	}
	return domain.IconResource{URL: account + ":" + string(color)}, nil
}

// --- CachedResolver tests ---

func TestCachedResolver_CacheHit(t *testing.T) {
	inner := &countingResolver{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedResolver(inner, 10, metrics)

	r1, err := cached.ResolveIcon(context.Background(), "NT", domain.ColorGreen)
	require.NoError(t, err)
	r2, err := cached.ResolveIcon(context.Background(), "NT", domain.ColorGreen)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.IconCache.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.IconCache.WithLabelValues("miss")), 1e-9)
}

func TestCachedResolver_ColorIsPartOfKey(t *testing.T) {
	inner := &countingResolver{}
	cached := NewCachedResolver(inner, 10, observability.NewMetricsForTesting())

	green, _ := cached.ResolveIcon(context.Background(), "NT", domain.ColorGreen)
	red, _ := cached.ResolveIcon(context.Background(), "NT", domain.ColorRed)

	assert.Equal(t, 2, inner.calls)
	assert.NotEqual(t, green, red)
}

func TestCachedResolver_ErrorsNotCached(t *testing.T) {
	inner := &countingResolver{err: errors.New("boom")}
	cached := NewCachedResolver(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.ResolveIcon(context.Background(), "NT", domain.ColorGreen)
	require.Error(t, err)

	inner.err = nil
	res, err := cached.ResolveIcon(context.Background(), "NT", domain.ColorGreen)
	require.NoError(t, err)
	assert.Equal(t, "NT:green", res.URL)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_ConcurrentAccess(t *testing.T) {
	inner := &countingResolver{}
	cached := NewCachedResolver(inner, 4, observability.NewMetricsForTesting())
	colors := []domain.Color{domain.ColorGreen, domain.ColorOrange, domain.ColorRed, domain.ColorDarkRed}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.ResolveIcon(context.Background(), "Aviva", colors[i%len(colors)])
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, cached.cache.size(), 4)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.IconResource{URL: "A"})
	c.put("b", domain.IconResource{URL: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.URL)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.IconResource{URL: "A"})
	c.put("b", domain.IconResource{URL: "B"})
	c.put("c", domain.IconResource{URL: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.URL)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.IconResource{URL: "A"})
	c.put("b", domain.IconResource{URL: "B"})

	c.get("a")

	// "b" is now least recently used.
	c.put("c", domain.IconResource{URL: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.IconResource{URL: "A1"})
	c.put("a", domain.IconResource{URL: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.URL)
}
