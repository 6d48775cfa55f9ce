package similarity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	// Reading "a" makes "b" the eviction candidate.
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[string](2)
	c.Set("k", "old")
	c.Set("k", "new")

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_GetOrCompute(t *testing.T) {
	c := NewLRU[int](4)
	calls := 0
	compute := func() int {
		calls++
		return 42
	}

	assert.Equal(t, 42, c.GetOrCompute("x", compute))
	assert.Equal(t, 42, c.GetOrCompute("x", compute))
	assert.Equal(t, 1, calls)
}

func TestLRU_Clear(t *testing.T) {
	c := NewLRU[int](4)
	c.Set("a", 1)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRU_DefaultSize(t *testing.T) {
	c := NewLRU[int](0)
	assert.Equal(t, DefaultCacheSize, c.maxSize)
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int](16)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := string(rune('a' + (i+j)%26))
				c.Set(key, j)
				c.Get(key)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestPairKey(t *testing.T) {
	assert.Equal(t, "1:a|1:b", pairKey("a", "b"))
	assert.Equal(t, "1:a|1:b", pairKey("b", "a"))
	assert.Equal(t, "1:a|1:b|1:x", pairKey("b", "a", "x"))
	assert.Equal(t, "0:|0:", pairKey("", ""))
}

func TestPairKey_SeparatorsInTitles(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"double colon", []string{"x::y", "z"}, []string{"x", "y::z"}},
		{"pipe", []string{"a|b", "c"}, []string{"a", "b|c"}},
		{"length prefix lookalike", []string{"1:a", "b"}, []string{"1", "a|1:b"}},
		{"extra part", []string{"a", "b::c"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := pairKey(tt.a[0], tt.a[1], tt.a[2:]...)
			right := pairKey(tt.b[0], tt.b[1], tt.b[2:]...)
			assert.NotEqual(t, left, right)
		})
	}
}
