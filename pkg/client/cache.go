package client

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// List views tolerate a short staleness window so repeated navigation does
// not re-fetch unnecessarily.
const defaultStaleTTL = time.Minute

// queryCache holds raw response payloads keyed by collection. List keys are
// "<collection>?<encoded query>" and item keys "<collection>/<id>", so one
// write can drop every read that could observe it. The generation counter
// ticks on every invalidation; a fetch that started before a write stores its
// payload only if no invalidation ran in between.
type queryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	gen     uint64
	entries map[string]cacheEntry
}

type cacheEntry struct {
	raw     []byte
	expires time.Time
}

func newQueryCache(ttl time.Duration) *queryCache {
	if ttl <= 0 {
		ttl = defaultStaleTTL
	}
	return &queryCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (q *queryCache) get(key string) ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(q.entries, key)
		return nil, false
	}
	return entry.raw, true
}

func (q *queryCache) generation() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.gen
}

// set stores raw under key, unless an invalidation ran after gen was
// snapshotted. A read that raced a write would otherwise re-cache the
// pre-write payload it fetched.
func (q *queryCache) set(key string, raw []byte, gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.gen != gen {
		return
	}
	q.entries[key] = cacheEntry{raw: raw, expires: time.Now().Add(q.ttl)}
}

// invalidate removes every list entry for the collection and the item entries
// for the given ids.
func (q *queryCache) invalidate(collection string, ids ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	prefix := collection + "?"
	for key := range q.entries {
		if strings.HasPrefix(key, prefix) {
			delete(q.entries, key)
		}
	}
	for _, id := range ids {
		delete(q.entries, collection+"/"+id)
	}
}

func (q *queryCache) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.entries = make(map[string]cacheEntry)
}

func listKey(collection string, query url.Values) string {
	return collection + "?" + query.Encode()
}

func itemKey(collection, id string) string {
	return collection + "/" + id
}
