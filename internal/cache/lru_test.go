package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCacheGetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "1")
	c.Set("a", "2")
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.t = clock.t.Add(30 * time.Second)
	c.Set("c", "3")

	clock.t = clock.t.Add(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, 1, c.CleanExpired(), "only b is left to expire")
	assert.Equal(t, 1, c.Size())
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set(ReportKey(1, KindSummary, "2024-03"), "x")
	c.Set(ReportKey(1, KindSBNL, "2024-03"), "y")
	c.Set(ReportKey(12, KindSummary, "2024-03"), "z")

	assert.Equal(t, 2, c.DeletePrefix(HouseholdPrefix(1)))
	_, ok := c.Get(ReportKey(12, KindSummary, "2024-03"))
	assert.True(t, ok, "household 12 must not match household 1's prefix")
	assert.Equal(t, 1, c.Size())
}

func TestManagerCleanAll(t *testing.T) {
	a, clockA := newTestCache(10, time.Minute)
	b, clockB := newTestCache(10, time.Hour)
	a.Set("k", "v")
	b.Set("k", "v")
	clockA.t = clockA.t.Add(2 * time.Minute)
	clockB.t = clockB.t.Add(2 * time.Minute)

	m := NewManager(a)
	m.Register(b)
	assert.Equal(t, 1, m.CleanAll())
}

func TestManagerStopsWithContext(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	m.StartCleanup(ctx, time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
