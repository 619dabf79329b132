package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache for listing and item responses. Both list and
// item keys are stamped with a per-collection version counter, so invalidating
// a collection bumps the counter and every previously built key falls out of
// reach (the stale entries just expire). A nil *Cache disables caching: all
// methods are nil-safe no-ops and callers always fall through to the database.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	if prefix == "" {
		prefix = "sonicpaths"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

// ListKey builds the cache key for a listing request. The raw query string is
// hashed so arbitrary filter combinations produce bounded-size keys.
func (c *Cache) ListKey(ctx context.Context, collection, query string) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s:%s:v%d:%s", c.prefix, collection, c.version(ctx, collection), hashQuery(query))
}

// ItemKey builds the cache key for a single record. The key carries the
// collection version: a read that builds its key, then loses the race with a
// write before storing, writes to a dead key instead of resurrecting the
// pre-write record.
func (c *Cache) ItemKey(ctx context.Context, collection, id string) string {
	if c == nil {
		return ""
	}
	return c.itemKey(c.version(ctx, collection), collection, id)
}

func (c *Cache) itemKey(version int64, collection, id string) string {
	return fmt.Sprintf("%s:%s:v%d:id:%s", c.prefix, collection, version, id)
}

func (c *Cache) version(ctx context.Context, collection string) int64 {
	version, _ := c.rdb.Get(ctx, c.versionKey(collection)).Int64()
	return version
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || key == "" {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil || key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}

// Invalidate bumps the collection version, which puts every previously built
// list and item key out of reach. It runs before the write is reported to the
// caller, so a read that follows a successful mutation can never be served
// pre-mutation data.
func (c *Cache) Invalidate(ctx context.Context, collection string) {
	if c == nil {
		return
	}
	c.rdb.Incr(ctx, c.versionKey(collection))
}

func (c *Cache) versionKey(collection string) string {
	return fmt.Sprintf("%s:%s:version", c.prefix, collection)
}

func hashQuery(query string) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("%x", sum[:])
}
