package store

import (
	"time"

	"github.com/djdv/go-pagecache"
)

type (
	// Rekey serves pages for Key from a store indexed by Inner,
	// translating each key with Convert.
	Rekey[Key, Inner comparable, Page any] struct {
		Store   pagecache.Store[Inner, Page]
		Convert func(Key) Inner
	}

	// Counting records how often the wrapped store was consulted.
	// It is not safe for concurrent use.
	Counting[Key comparable, Page any] struct {
		pagecache.Store[Key, Page]
		Fetches, Failures int
	}

	// Latency delays every fetch of the wrapped store.
	Latency[Key comparable, Page any] struct {
		pagecache.Store[Key, Page]
		Delay time.Duration
	}
)

// Contains translates key and consults the inner store.
func (r Rekey[Key, _, _]) Contains(key Key) bool {
	return r.Store.Contains(r.Convert(key))
}

// Page translates key and fetches from the inner store.
func (r Rekey[Key, _, Page]) Page(key Key) (Page, error) {
	return r.Store.Page(r.Convert(key))
}

// Page fetches from the wrapped store and counts the attempt.
func (c *Counting[Key, Page]) Page(key Key) (Page, error) {
	c.Fetches++
	page, err := c.Store.Page(key)
	if err != nil {
		c.Failures++
	}
	return page, err
}

// Page sleeps for Delay, then fetches from the wrapped store.
func (l Latency[Key, Page]) Page(key Key) (Page, error) {
	time.Sleep(l.Delay)
	return l.Store.Page(key)
}
