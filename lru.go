package pagecache

import (
	"iter"

	"github.com/djdv/go-pagecache/internal/ring"
)

type (
	entry[Key comparable, Page any] struct {
		key  Key
		page Page
	}
	node[Key comparable, Page any] = ring.Ring[entry[Key, Page]]
	// LRU evicts the least recently used page when full.
	// Concurrent access must be guarded by the caller.
	// Constructed by [NewLRU].
	LRU[Key comparable, Page any] struct {
		store Store[Key, Page]
		index map[Key]*node[Key, Page]
		// Front is most recently used, back is least.
		recency  ring.List[entry[Key, Page]]
		capacity int
		counters
	}
)

// NewLRU creates an [LRU] cache with the given capacity.
// Capacity must be at least 1.
func NewLRU[Key comparable, Page any](
	store Store[Key, Page], capacity int,
) (*LRU[Key, Page], error) {
	const minimum = 1
	if capacity < minimum {
		return nil, minCapacityError("lru", minimum, capacity)
	}
	if store == nil {
		return nil, ErrNilStore
	}
	return &LRU[Key, Page]{
		store:    store,
		index:    make(map[Key]*node[Key, Page], capacity),
		capacity: capacity,
	}, nil
}

// Get returns the page for key, fetching it from the store on a miss.
// Either way, key becomes the most recently used page.
func (c *LRU[Key, Page]) Get(key Key) (Page, error) {
	return viewCopy(func(view func(*Page) error) error {
		return c.View(key, view)
	})
}

// View passes the resident page for key to view,
// fetching and admitting it first on a miss.
func (c *LRU[Key, Page]) View(key Key, view func(*Page) error) error {
	if debugging {
		assert(c.recency.Len() == len(c.index),
			"recency list length differs from index size")
	}
	if page, ok := c.index[key]; ok {
		c.hit()
		c.recency.MoveToFront(page)
		return view(&page.Value.page)
	}
	c.miss()
	fetched, err := c.store.Page(key)
	if err != nil {
		return err
	}
	if c.recency.Len() == c.capacity {
		c.evict()
	}
	page := c.recency.PushFront(entry[Key, Page]{key: key, page: fetched})
	c.index[key] = page
	return view(&page.Value.page)
}

// evict drops the least recently used page.
func (c *LRU[_, _]) evict() {
	victim := c.recency.Remove(c.recency.Back())
	delete(c.index, victim.Value.key)
}

// Cached reports if key is resident.
// It does not affect recency.
func (c *LRU[Key, _]) Cached(key Key) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns an iterator over resident keys,
// from most to least recently used.
func (c *LRU[Key, _]) Keys() iter.Seq[Key] {
	return keys(&c.recency)
}

// Len returns the number of resident pages.
func (c *LRU[_, _]) Len() int { return c.recency.Len() }

// Capacity returns the maximum number of resident pages.
func (c *LRU[_, _]) Capacity() int { return c.capacity }

func keys[Key comparable, Page any](list *ring.List[entry[Key, Page]]) iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for page := range list.All() {
			if !yield(page.Value.key) {
				return
			}
		}
	}
}
