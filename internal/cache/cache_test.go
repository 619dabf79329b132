package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutClientDisablesCaching(t *testing.T) {
	assert.Nil(t, New(nil, "sonicpaths", time.Minute))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.Equal(t, "", c.ItemKey(ctx, "events", "abc"))
	assert.Equal(t, "", c.ListKey(ctx, "events", "approved=true"))

	var dest []string
	assert.False(t, c.GetJSON(ctx, "key", &dest))

	// Must not panic.
	c.SetJSON(ctx, "key", []string{"x"})
	c.Invalidate(ctx, "events")
}

func TestItemKeyCarriesCollectionVersion(t *testing.T) {
	c := &Cache{prefix: "sonicpaths"}
	assert.Equal(t, "sonicpaths:events:v0:id:abc", c.itemKey(0, "events", "abc"))

	// An item key built before an invalidation differs from one built after,
	// so a store on the stale key cannot be read back.
	assert.NotEqual(t, c.itemKey(0, "events", "abc"), c.itemKey(1, "events", "abc"))
	assert.Equal(t, "sonicpaths:events:version", c.versionKey("events"))
}

func TestHashQueryIsStable(t *testing.T) {
	assert.Equal(t, hashQuery("approved=true"), hashQuery("approved=true"))
	assert.NotEqual(t, hashQuery("approved=true"), hashQuery("approved=false"))
}
