package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_GetSet(t *testing.T) {
	c := New[string](WithMaxSize(10), WithTTL(time.Minute))

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "1")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	c.Set("a", "2")
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_Expiration(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithTTL(2*time.Minute), WithClock(clock.Now))

	c.Set("k", 42)
	clock.Advance(2 * time.Minute)

	// Exatamente no limite a entrada ainda é válida
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "entrada expirada deve ser removida no acesso")
}

func TestLRU_PerEntryTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithTTL(time.Hour), WithClock(clock.Now))

	c.SetWithTTL("curto", "x", 10*time.Second)
	c.Set("longo", "y")

	clock.Advance(11 * time.Second)

	_, ok := c.Get("curto")
	assert.False(t, ok)
	_, ok = c.Get("longo")
	assert.True(t, ok)
}

func TestLRU_ExpiredEntriesStayUntilTouched(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithTTL(time.Second), WithClock(clock.Now))

	c.Set("a", "1")
	c.Set("b", "2")
	clock.Advance(time.Minute)

	assert.Equal(t, 2, c.Len())
	_, _ = c.Get("a")
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](WithMaxSize(3))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// "a" passa a ser o mais recente
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", 4)

	_, ok = c.Get("b")
	assert.False(t, ok, "b era o menos usado e deveria ter sido removido")

	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestLRU_DeleteByPrefix(t *testing.T) {
	c := New[string]()

	c.Set("proj-1:home", "a")
	c.Set("proj-1:sidebar", "b")
	c.Set("proj-2:home", "c")

	removed := c.DeleteByPrefix("proj-1:")
	assert.Equal(t, 2, removed)

	_, ok := c.Get("proj-2:home")
	assert.True(t, ok)
	_, ok = c.Get("proj-1:home")
	assert.False(t, ok)
}

func TestLRU_DeleteAndClear(t *testing.T) {
	c := New[string]()
	c.Set("a", "1")
	c.Set("b", "2")

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := New[int](WithMaxSize(50))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*31+i)%100)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.DeleteByPrefix("k1")
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
