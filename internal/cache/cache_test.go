package cache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New[string, int](0)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[string, int](2)
	c.OnEvict = func(k string, _ int) { evicted = append(evicted, k) }

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, []string{"c", "a"}, c.Keys())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestReplaceNotifiesOldValue(t *testing.T) {
	var got []int
	c := New[string, int](0)
	c.OnEvict = func(_ string, v int) { got = append(got, v) }

	c.Set("a", 1)
	c.Set("a", 2)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	var n int
	c := New[int, int](0)
	c.OnEvict = func(int, int) { n++ }
	for i := range 5 {
		c.Set(i, i)
	}

	assert.True(t, c.Delete(3))
	assert.False(t, c.Delete(3))
	assert.Equal(t, 4, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, 5, n)
	assert.Empty(t, c.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := strconv.Itoa((g*200 + i) % 100)
				c.Set(k, i)
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000)
	for i := range 100 {
		c.Set(strconv.Itoa(i), i)
	}
	b.ResetTimer()
	for range b.N {
		c.Get("50")
	}
}
