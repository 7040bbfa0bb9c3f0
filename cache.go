package relkit

// Cache maps natural keys to entity handles for the lifetime of one ETL run.
// Each entity type gets its own Cache. The factory passed to Resolve is
// invoked at most once per distinct key, so every row naming the same key
// shares the same handle. There is no eviction. Cache is not safe for
// concurrent use.
type Cache[K comparable, E any] struct {
	m     map[K]E
	order []E
}

// NewCache creates an empty Cache.
func NewCache[K comparable, E any]() *Cache[K, E] {
	return &Cache[K, E]{
		m: make(map[K]E),
	}
}

// Resolve returns the handle registered under key. If there is none, factory
// is called to build one, which is registered and returned with created set.
func (c *Cache[K, E]) Resolve(key K, factory func() E) (e E, created bool) {
	if e, ok := c.m[key]; ok {
		return e, false
	}
	e = factory()
	c.m[key] = e
	c.order = append(c.order, e)
	return e, true
}

// Get returns the handle registered under key, if any.
func (c *Cache[K, E]) Get(key K) (E, bool) {
	e, ok := c.m[key]
	return e, ok
}

// Len returns the number of distinct keys seen.
func (c *Cache[K, E]) Len() int { return len(c.m) }

// Values returns every handle in creation order.
func (c *Cache[K, E]) Values() []E {
	ret := make([]E, len(c.order))
	copy(ret, c.order)
	return ret
}
