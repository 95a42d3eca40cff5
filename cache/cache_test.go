package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryAndPrune(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("facets:brands", []string{"Aurora"})
	c.Set("short", 1, time.Second)

	got, ok := c.Strings("facets:brands")
	assert.True(t, ok)
	assert.Equal(t, []string{"Aurora"}, got)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Size())
	c.Prune()
	assert.Equal(t, 1, c.Size())

	now = now.Add(time.Minute)
	_, ok = c.Get("facets:brands")
	assert.False(t, ok)
}

func TestDeleteByPrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("facets:brands", []string{"a"})
	c.Set("facets:tags", []string{"b"})
	c.Set("other", "x")

	c.DeleteByPrefix("facets:")
	assert.Equal(t, 1, c.Size())
	_, ok := c.Strings("other")
	assert.False(t, ok, "non-slice values are not returned by Strings")
	c.Delete("other")
	assert.Zero(t, c.Size())
}
