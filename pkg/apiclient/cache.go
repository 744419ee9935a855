package apiclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a GET response is reused for an identical
// source/method/path/params key before it is re-fetched.
const DefaultCacheTTL = 30 * time.Second

// getCache is a single-file TTL map for GET responses: a plain map
// guarded by a mutex, with an expiry timestamp per entry. The teacher
// pulls in no standalone cache library anywhere in its dependency tree
// (see DESIGN.md), so no third-party cache dependency is used here.
type getCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	resp    Response
	expires time.Time
}

func newGetCache(ttl time.Duration) *getCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &getCache{entries: make(map[string]cacheEntry), ttl: ttl}
}

func (c *getCache) get(key string) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return Response{}, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, key)
		return Response{}, false
	}
	return entry.resp, true
}

func (c *getCache) put(key string, resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{resp: resp, expires: time.Now().Add(c.ttl)}
}

// cacheKey builds a deterministic key from the source id, method, path
// and a stably-ordered encoding of params, so identical calls made with
// the params map built in a different key order still hit the cache.
func cacheKey(sourceID, method, path string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([][2]string, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, [2]string{k, params[k]})
	}
	encoded, err := json.Marshal(ordered)
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf("%s|%s|%s|%s", sourceID, method, path, encoded)
}
