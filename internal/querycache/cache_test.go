package querycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New(time.Minute)
	k := Key{Entity: "products", Params: "all"}

	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Set(k, []string{"a", "b"})
	v, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	k := Key{Entity: "products", Params: "all"}
	c.Set(k, 1)

	_, ok := c.Get(k)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(k)
	assert.False(t, ok)
	// stale entry is dropped on access
	assert.Equal(t, 0, c.Len())
}

func TestCache_IdentityIsPartOfTheKey(t *testing.T) {
	c := New(time.Minute)
	a := Key{Entity: "cart", Identity: "user-a"}
	b := Key{Entity: "cart", Identity: "user-b"}

	c.Set(a, "rows of a")
	_, ok := c.Get(b)
	assert.False(t, ok, "another identity must never resolve a's result")
}

func TestCache_InvalidateScopes(t *testing.T) {
	fill := func() *Cache {
		c := New(time.Minute)
		c.Set(Key{Entity: "likes", Params: "p1", Identity: "a"}, 1)
		c.Set(Key{Entity: "likes", Params: "p1", Identity: "b"}, 2)
		c.Set(Key{Entity: "likes", Params: "p2", Identity: "a"}, 3)
		c.Set(Key{Entity: "cart", Identity: "a"}, 4)
		c.Set(Key{Entity: "products", Params: "all"}, 5)
		return c
	}

	t.Run("single key", func(t *testing.T) {
		c := fill()
		c.Invalidate(Key{Entity: "cart", Identity: "a"})
		_, ok := c.Get(Key{Entity: "cart", Identity: "a"})
		assert.False(t, ok)
		assert.Equal(t, 4, c.Len())
	})

	t.Run("entity", func(t *testing.T) {
		c := fill()
		c.InvalidateEntity("likes")
		assert.Equal(t, 2, c.Len())
	})

	t.Run("entity and params across identities", func(t *testing.T) {
		c := fill()
		c.InvalidateEntityParams("likes", "p1")
		_, ok := c.Get(Key{Entity: "likes", Params: "p2", Identity: "a"})
		assert.True(t, ok)
		assert.Equal(t, 3, c.Len())
	})

	t.Run("identity", func(t *testing.T) {
		c := fill()
		c.InvalidateIdentity("a")
		assert.Equal(t, 2, c.Len())
		_, ok := c.Get(Key{Entity: "products", Params: "all"})
		assert.True(t, ok, "non-user-scoped results survive an identity flush")
	})

	t.Run("empty identity is a no-op", func(t *testing.T) {
		c := fill()
		c.InvalidateIdentity("")
		assert.Equal(t, 5, c.Len())
	})
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
