package pagecache

import (
	"iter"
	"math/rand"
	"time"
)

type (
	// Random evicts a uniformly random resident page when full.
	// Concurrent access must be guarded by the caller.
	// Constructed by [NewRandom].
	Random[Key comparable, Page any] struct {
		store Store[Key, Page]
		rng   *rand.Rand
		// Dense slot storage, so any resident
		// can be picked (and removed) in constant time.
		slots    []slot[Key, Page]
		index    map[Key]int
		capacity int
		counters
	}
	slot[Key comparable, Page any] struct {
		key  Key
		page Page
	}
)

// NewRandom creates a [Random] cache with the given capacity.
// Capacity must be at least 1.
// [WithRand] may be used to make victim selection reproducible.
func NewRandom[Key comparable, Page any](
	store Store[Key, Page], capacity int, opts ...Option,
) (*Random[Key, Page], error) {
	const minimum = 1
	if capacity < minimum {
		return nil, minCapacityError("random", minimum, capacity)
	}
	if store == nil {
		return nil, ErrNilStore
	}
	settings := makeOptions(opts)
	rng := settings.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random[Key, Page]{
		store:    store,
		rng:      rng,
		slots:    make([]slot[Key, Page], 0, capacity),
		index:    make(map[Key]int, capacity),
		capacity: capacity,
	}, nil
}

// Get returns the page for key, fetching it from the store on a miss.
func (c *Random[Key, Page]) Get(key Key) (Page, error) {
	return viewCopy(func(view func(*Page) error) error {
		return c.View(key, view)
	})
}

// View passes the resident page for key to view,
// fetching and admitting it first on a miss.
func (c *Random[Key, Page]) View(key Key, view func(*Page) error) error {
	if position, ok := c.index[key]; ok {
		c.hit()
		return view(&c.slots[position].page)
	}
	c.miss()
	page, err := c.store.Page(key)
	if err != nil {
		return err
	}
	if len(c.slots) == c.capacity {
		c.evict(c.rng.Intn(len(c.slots)))
	}
	position := len(c.slots)
	c.slots = append(c.slots, slot[Key, Page]{key: key, page: page})
	c.index[key] = position
	if debugging {
		assert(len(c.slots) == len(c.index),
			"slot count differs from index size")
		assert(len(c.slots) <= c.capacity,
			"resident count exceeds capacity")
	}
	return view(&c.slots[position].page)
}

// evict removes the slot at position by
// moving the last slot into its place.
func (c *Random[Key, Page]) evict(position int) {
	var (
		last   = len(c.slots) - 1
		victim = c.slots[position].key
	)
	if position != last {
		moved := c.slots[last]
		c.slots[position] = moved
		c.index[moved.key] = position
	}
	c.slots[last] = slot[Key, Page]{}
	c.slots = c.slots[:last]
	delete(c.index, victim)
}

// Cached reports if key is resident.
func (c *Random[Key, _]) Cached(key Key) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns an iterator over the (unordered) resident keys.
func (c *Random[Key, _]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for _, resident := range c.slots {
			if !yield(resident.key) {
				return
			}
		}
	}
}

// Len returns the number of resident pages.
func (c *Random[_, _]) Len() int { return len(c.slots) }

// Capacity returns the maximum number of resident pages.
func (c *Random[_, _]) Capacity() int { return c.capacity }
