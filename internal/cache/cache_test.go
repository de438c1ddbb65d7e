package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shprover/internal/cache"
)

type queryShape struct {
	Left  string
	Right string
}

func TestDigestOfIsStableAndDiscriminating(t *testing.T) {
	a, err := cache.DigestOf(queryShape{Left: "x<=y", Right: "x<=z"})
	require.NoError(t, err)
	b, err := cache.DigestOf(queryShape{Left: "x<=y", Right: "x<=z"})
	require.NoError(t, err)
	c, err := cache.DigestOf(queryShape{Left: "x<=y", Right: "y<=z"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCacheGetPutAndStats(t *testing.T) {
	c, err := cache.New(2)
	require.NoError(t, err)

	k, err := cache.DigestOf(queryShape{Left: "x", Right: "y"})
	require.NoError(t, err)

	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Put(k, "result")
	v, ok := c.Get(k)
	assert.True(t, ok)
	assert.Equal(t, "result", v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Len)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := cache.New(1)
	require.NoError(t, err)

	k1, _ := cache.DigestOf(queryShape{Left: "a"})
	k2, _ := cache.DigestOf(queryShape{Left: "b"})
	c.Put(k1, 1)
	c.Put(k2, 2)

	_, ok := c.Get(k1)
	assert.False(t, ok)
	v, ok := c.Get(k2)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
