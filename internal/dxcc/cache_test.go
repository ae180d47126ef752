package dxcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls int
	inner Resolver
}

func (c *countingResolver) Resolve(call string, includeDeleted bool) (Match, bool) {
	c.calls++
	return c.inner.Resolve(call, includeDeleted)
}

func TestCachedResolver_CacheHit(t *testing.T) {
	inner := &countingResolver{inner: testIndex(t)}
	cached, err := NewCachedResolver(inner, 10)
	require.NoError(t, err)

	m1, ok := cached.Resolve("om3rm", false)
	require.True(t, ok)
	m2, ok := cached.Resolve(" OM3RM ", false)
	require.True(t, ok)

	assert.Equal(t, m1, m2)
	assert.Equal(t, 1, inner.calls, "normalized call should hit the cache")
}

func TestCachedResolver_CachesMisses(t *testing.T) {
	inner := &countingResolver{inner: testIndex(t)}
	cached, err := NewCachedResolver(inner, 10)
	require.NoError(t, err)

	_, ok := cached.Resolve("W1AW", false)
	assert.False(t, ok)
	_, ok = cached.Resolve("W1AW", false)
	assert.False(t, ok)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedResolver_IncludeDeletedIsPartOfKey(t *testing.T) {
	inner := &countingResolver{inner: testIndex(t)}
	cached, err := NewCachedResolver(inner, 10)
	require.NoError(t, err)

	live, _ := cached.Resolve("OK1ABC", false)
	all, _ := cached.Resolve("OK1ABC", true)

	assert.Equal(t, 503, live.EntityCode)
	assert.Equal(t, 218, all.EntityCode)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_Eviction(t *testing.T) {
	inner := &countingResolver{inner: testIndex(t)}
	cached, err := NewCachedResolver(inner, 1)
	require.NoError(t, err)

	cached.Resolve("OK1A", false)
	cached.Resolve("OM3A", false)
	cached.Resolve("OK1A", false)

	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 1, cached.Len())
}

func TestNewCachedResolver_InvalidSize(t *testing.T) {
	_, err := NewCachedResolver(testIndex(t), 0)
	require.Error(t, err)
}
