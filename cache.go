package pagecache

import "iter"

type (
	// Store is the slow backing source a cache fronts.
	// Page must be a pure function of key for a given Store:
	// repeated calls return equal pages.
	// Page returns an error matching [ErrNotFound]
	// for keys without a page.
	Store[Key comparable, Page any] interface {
		Contains(key Key) bool
		Page(key Key) (Page, error)
	}

	// Inspector reports residency and lookup counters
	// without mutating the cache.
	Inspector[Key comparable] interface {
		// Cached reports if key is resident,
		// without consulting the store.
		Cached(key Key) bool
		// Keys iterates over resident keys.
		// Policies with an ordering yield them in that order.
		Keys() iter.Seq[Key]
		Len() int
		Capacity() int
		Hits() int
		Misses() int
		Lookups() int
		HitRatio() float64
	}

	// Cache is the contract shared by the online policies.
	// Both Get and View count as exactly one lookup
	// and may reorder the cache even on a hit.
	Cache[Key comparable, Page any] interface {
		Inspector[Key]
		// Get returns a copy of the page for key.
		Get(key Key) (Page, error)
		// View calls view with a pointer into cache storage.
		// The pointer must not be retained after view returns;
		// the next lookup may overwrite or evict it.
		// The error from view is returned as is.
		View(key Key, view func(*Page) error) error
	}

	// Oracle is the contract of policies that need
	// to know the future to decide evictions.
	// lookahead is the sequence of requests that
	// follow the current one (possibly truncated).
	Oracle[Key comparable, Page any] interface {
		Inspector[Key]
		Get(key Key, lookahead iter.Seq[Key]) (Page, error)
		View(key Key, lookahead iter.Seq[Key], view func(*Page) error) error
	}

	// counters is embedded by every policy.
	// Exactly one of hit or miss is called per lookup.
	counters struct {
		hits, lookups int
	}
)

func (c *counters) hit()  { c.hits++; c.lookups++ }
func (c *counters) miss() { c.lookups++ }

// Hits returns the number of lookups satisfied from residency.
func (c *counters) Hits() int { return c.hits }

// Misses returns the number of lookups that consulted the store.
func (c *counters) Misses() int { return c.lookups - c.hits }

// Lookups returns the total number of lookups.
func (c *counters) Lookups() int { return c.lookups }

// HitRatio returns hits / lookups, or 0 before the first lookup.
func (c *counters) HitRatio() float64 {
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups)
}

// viewCopy implements Get in terms of View.
func viewCopy[Page any](view func(func(*Page) error) error) (Page, error) {
	var page Page
	err := view(func(resident *Page) error {
		page = *resident
		return nil
	})
	return page, err
}
