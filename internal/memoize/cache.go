package memoize

// Cache is the in-process lookup tier consulted before any provider call.
// Keys are fully qualified: language pair plus normalized source text.
type Cache interface {
	// Get retrieves a cached translation. Returns false when absent.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key, value string)
}

// MapCache is a plain map-backed Cache. Like the Memoizer that owns it, it is
// not safe for concurrent use.
type MapCache struct {
	entries map[string]string
}

func NewMapCache() *MapCache {
	return &MapCache{entries: make(map[string]string)}
}

func (c *MapCache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *MapCache) Set(key, value string) {
	c.entries[key] = value
}

// Len reports the number of cached translations.
func (c *MapCache) Len() int {
	return len(c.entries)
}
