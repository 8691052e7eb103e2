package pagecache

import "iter"

// Belady evicts the resident page whose next request
// lies furthest in the future (or never comes).
// It needs the future request sequence and so is not
// deployable; it bounds the hits any online policy can achieve.
// Concurrent access must be guarded by the caller.
// Constructed by [NewBelady].
type Belady[Key comparable, Page any] struct {
	store    Store[Key, Page]
	index    map[Key]*Page
	capacity int
	counters
}

// NewBelady creates a [Belady] cache with the given capacity.
// Capacity must be at least 1.
func NewBelady[Key comparable, Page any](
	store Store[Key, Page], capacity int,
) (*Belady[Key, Page], error) {
	const minimum = 1
	if capacity < minimum {
		return nil, minCapacityError("belady", minimum, capacity)
	}
	if store == nil {
		return nil, ErrNilStore
	}
	return &Belady[Key, Page]{
		store:    store,
		index:    make(map[Key]*Page, capacity),
		capacity: capacity,
	}, nil
}

// Get returns the page for key, fetching it from the store on a miss.
// lookahead must yield the requests that follow this one;
// it is only consumed when an eviction is required.
func (c *Belady[Key, Page]) Get(key Key, lookahead iter.Seq[Key]) (Page, error) {
	return viewCopy(func(view func(*Page) error) error {
		return c.View(key, lookahead, view)
	})
}

// View passes the resident page for key to view,
// fetching and admitting it first on a miss.
func (c *Belady[Key, Page]) View(key Key, lookahead iter.Seq[Key], view func(*Page) error) error {
	if page, ok := c.index[key]; ok {
		c.hit()
		return view(page)
	}
	c.miss()
	page, err := c.store.Page(key)
	if err != nil {
		return err
	}
	if len(c.index) == c.capacity {
		delete(c.index, c.victim(lookahead))
	}
	c.index[key] = &page
	if debugging {
		assert(len(c.index) <= c.capacity,
			"resident count exceeds capacity")
	}
	return view(&page)
}

// victim scans lookahead until all but one resident
// has been requested, and returns a resident that was not.
// Only keys that are resident count towards the scan bound.
func (c *Belady[Key, _]) victim(lookahead iter.Seq[Key]) Key {
	var (
		needed = c.capacity - 1
		seen   = make(map[Key]struct{}, needed)
	)
	if lookahead != nil && needed > 0 {
		for key := range lookahead {
			if _, resident := c.index[key]; !resident {
				continue
			}
			seen[key] = struct{}{}
			if len(seen) == needed {
				break
			}
		}
	}
	for key := range c.index {
		if _, ok := seen[key]; !ok {
			return key
		}
	}
	panic("belady: every resident page was requested in the lookahead")
}

// Cached reports if key is resident.
func (c *Belady[Key, _]) Cached(key Key) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns an iterator over the (unordered) resident keys.
func (c *Belady[Key, _]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for key := range c.index {
			if !yield(key) {
				return
			}
		}
	}
}

// Len returns the number of resident pages.
func (c *Belady[_, _]) Len() int { return len(c.index) }

// Capacity returns the maximum number of resident pages.
func (c *Belady[_, _]) Capacity() int { return c.capacity }
