package history

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id string
}

func (i item) GetID() string { return i.id }

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func fill(c *Cache[item], n int) {
	for i := 1; i <= n; i++ {
		c.Insert(item{id: strconv.Itoa(i)})
	}
}

func TestCache_InsertKeepsNewestFirst(t *testing.T) {
	for n := 0; n <= 30; n++ {
		c := New[item]()
		fill(c, n)

		list := c.List()
		require.Len(t, list, min(n, Capacity), "n=%d", n)
		for i, it := range list {
			assert.Equal(t, strconv.Itoa(n-i), it.id, "n=%d i=%d", n, i)
		}
	}
}

func TestCache_EvictsExactlyOldest(t *testing.T) {
	c := New[item]()
	fill(c, Capacity)
	before := c.List()

	evicted, ok := c.Insert(item{id: "13"})
	require.True(t, ok)
	assert.Equal(t, "1", evicted.id)

	after := c.List()
	require.Len(t, after, Capacity)
	assert.Equal(t, "13", after[0].id)
	assert.Equal(t, ids(before[:Capacity-1]), ids(after[1:]), "other 11 entries stay in order")
}

func TestCache_Remove(t *testing.T) {
	c := New[item]()
	fill(c, 15) // 15..4 が残る

	t.Run("存在しない ID は何もしない", func(t *testing.T) {
		assert.False(t, c.Remove("1"))
		assert.False(t, c.Remove("nope"))
		assert.Equal(t, Capacity, c.Len())
	})

	t.Run("途中の要素を削除しても順序は保たれる", func(t *testing.T) {
		require.True(t, c.Remove("10"))
		assert.Equal(t, []string{"15", "14", "13", "12", "11", "9", "8", "7", "6", "5", "4"}, ids(c.List()))
	})

	t.Run("削除後の追加では追い出しが起きない", func(t *testing.T) {
		_, evicted := c.Insert(item{id: "16"})
		assert.False(t, evicted)
		assert.Equal(t, Capacity, c.Len())
		assert.Equal(t, "4", c.List()[Capacity-1].id)
	})

	t.Run("先頭と末尾も削除できる", func(t *testing.T) {
		require.True(t, c.Remove("16"))
		require.True(t, c.Remove("4"))
		list := ids(c.List())
		assert.Equal(t, "15", list[0])
		assert.Equal(t, "5", list[len(list)-1])
	})
}

func TestCache_ListIsSnapshot(t *testing.T) {
	c := New[item]()
	fill(c, 3)

	snap := c.List()
	c.Insert(item{id: "4"})
	c.Remove("2")

	assert.Equal(t, []string{"3", "2", "1"}, ids(snap))
}

func TestCache_Get(t *testing.T) {
	c := New[item]()
	fill(c, 3)

	got, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "2", got.id)

	_, ok = c.Get("9")
	assert.False(t, ok)
}
