package pagecache

import "iter"

// Dummy is a cache that holds nothing.
// Every lookup misses and is forwarded to the store;
// it is the baseline for measuring the benefit of caching.
type Dummy[Key comparable, Page any] struct {
	store Store[Key, Page]
	counters
}

// NewDummy creates a [Dummy] cache in front of store.
func NewDummy[Key comparable, Page any](store Store[Key, Page]) (*Dummy[Key, Page], error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Dummy[Key, Page]{store: store}, nil
}

// Get fetches the page for key from the store.
func (c *Dummy[Key, Page]) Get(key Key) (Page, error) {
	c.miss()
	return c.store.Page(key)
}

// View fetches the page for key from the store and passes it to view.
func (c *Dummy[Key, Page]) View(key Key, view func(*Page) error) error {
	page, err := c.Get(key)
	if err != nil {
		return err
	}
	return view(&page)
}

// Cached always reports false.
func (*Dummy[Key, _]) Cached(Key) bool { return false }

// Keys returns an empty iterator.
func (*Dummy[Key, _]) Keys() iter.Seq[Key] { return func(func(Key) bool) {} }

// Len always returns 0.
func (*Dummy[_, _]) Len() int { return 0 }

// Capacity always returns 0.
func (*Dummy[_, _]) Capacity() int { return 0 }
