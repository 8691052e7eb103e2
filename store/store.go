// Package store provides [pagecache.Store] implementations
// and decorators that do not depend on external services.
package store

import (
	"fmt"

	"github.com/djdv/go-pagecache"
)

type (
	// Map serves pages from a fixed map.
	Map[Key comparable, Page any] map[Key]Page

	// Func adapts a page function into a [pagecache.Store].
	// Contains reports true for every key unless ContainsFunc is set.
	Func[Key comparable, Page any] struct {
		PageFunc     func(Key) (Page, error)
		ContainsFunc func(Key) bool
	}

	// Synthetic generates a page for every integer key.
	// Wrap it in [Latency] to simulate a slow device.
	Synthetic struct{}
)

// Contains reports if m holds a page for key.
func (m Map[Key, _]) Contains(key Key) bool {
	_, ok := m[key]
	return ok
}

// Page returns the page for key or a [pagecache.NotFoundError].
func (m Map[Key, Page]) Page(key Key) (Page, error) {
	page, ok := m[key]
	if !ok {
		return page, pagecache.NotFound(key)
	}
	return page, nil
}

// Contains calls ContainsFunc, if set.
func (f Func[Key, _]) Contains(key Key) bool {
	if f.ContainsFunc == nil {
		return true
	}
	return f.ContainsFunc(key)
}

// Page calls PageFunc.
func (f Func[Key, Page]) Page(key Key) (Page, error) { return f.PageFunc(key) }

// Contains always reports true.
func (Synthetic) Contains(int) bool { return true }

// Page returns "This is page <key>" as bytes.
func (Synthetic) Page(key int) ([]byte, error) {
	return fmt.Appendf(nil, "This is page %d", key), nil
}
