package lru

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Eviction(t *testing.T) {
	t.Run("evicts the least recently inserted key on overflow", func(t *testing.T) {
		c := New[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)
		c.Put("d", 4)

		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 3, c.Len())
		assert.Equal(t, []string{"d", "c", "b"}, c.keys())
	})

	t.Run("get protects a key from the next eviction", func(t *testing.T) {
		c := New[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)

		c.Put("d", 4)

		_, ok = c.Get("b")
		assert.False(t, ok, "b was the least recently used entry")
		_, ok = c.Get("a")
		assert.True(t, ok)
	})

	t.Run("updating an existing key refreshes it without growing", func(t *testing.T) {
		c := New[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("a", 10)
		c.Put("c", 3)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 10, v)
		_, ok = c.Get("b")
		assert.False(t, ok)
		assert.Equal(t, 2, c.Len())
	})
}

func TestCache_Remove(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "one")
	c.Remove(1)
	c.Remove(42)

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestNew_ClampsCapacity(t *testing.T) {
	c := New[int, int](0)
	assert.Equal(t, 1, c.capacity)

	c.Put(1, 1)
	c.Put(2, 2)
	assert.Equal(t, []int{2}, c.keys())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[string, int](16)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*31+i)%40)
				c.Put(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 16, c.Len())
	assert.Len(t, c.keys(), 16)
}
