package pagecache

import (
	"iter"

	"github.com/djdv/go-pagecache/internal/ring"
)

type (
	queuedEntry[Key comparable, Page any] struct {
		entry[Key, Page]
		// protected records which queue holds the node.
		protected bool
	}
	queuedNode[Key comparable, Page any] = ring.Ring[queuedEntry[Key, Page]]
	queue[Key comparable, Page any]      = ring.List[queuedEntry[Key, Page]]
	// TwoQueue admits pages into a small FIFO probation queue
	// and promotes them into a larger LRU protected queue
	// when they are requested again while on probation.
	// One-off requests therefore only ever displace
	// other probationary pages.
	// Concurrent access must be guarded by the caller.
	// Constructed by [NewTwoQueue].
	TwoQueue[Key comparable, Page any] struct {
		store     Store[Key, Page]
		index     map[Key]*queuedNode[Key, Page]
		probation queue[Key, Page]
		protected queue[Key, Page]
		probationCapacity,
		protectedCapacity int
		counters
	}
)

// MinimumTwoQueueCapacity is the lowest capacity supported by [NewTwoQueue];
// one slot for each queue.
const MinimumTwoQueueCapacity = 2

// NewTwoQueue creates a [TwoQueue] cache with the given total capacity.
// The probation share defaults to [DefaultProbationRatio]
// and may be set with [WithProbationRatio].
func NewTwoQueue[Key comparable, Page any](
	store Store[Key, Page], capacity int, opts ...Option,
) (*TwoQueue[Key, Page], error) {
	if capacity < MinimumTwoQueueCapacity {
		return nil, minCapacityError("2q", MinimumTwoQueueCapacity, capacity)
	}
	if store == nil {
		return nil, ErrNilStore
	}
	settings := makeOptions(opts)
	ratio := settings.probationRatio
	if !(ratio > 0 && ratio < 1) {
		return nil, ratioError(ratio)
	}
	var ( // Range: [1,capacity-1].
		probationShare    = int(float64(capacity) * ratio)
		probationCapacity = min(max(probationShare, 1), capacity-1)
	)
	return &TwoQueue[Key, Page]{
		store:             store,
		index:             make(map[Key]*queuedNode[Key, Page], capacity),
		probationCapacity: probationCapacity,
		protectedCapacity: capacity - probationCapacity,
	}, nil
}

// Get returns the page for key, fetching it from the store on a miss.
func (c *TwoQueue[Key, Page]) Get(key Key) (Page, error) {
	return viewCopy(func(view func(*Page) error) error {
		return c.View(key, view)
	})
}

// View passes the resident page for key to view,
// fetching and admitting it to probation first on a miss.
// A hit on probation promotes the page to protected.
func (c *TwoQueue[Key, Page]) View(key Key, view func(*Page) error) error {
	if debugging {
		c.checkInvariants()
	}
	if page, ok := c.index[key]; ok {
		c.hit()
		if page.Value.protected {
			c.protected.MoveToFront(page)
		} else {
			c.promote(page)
		}
		return view(&page.Value.page)
	}
	c.miss()
	fetched, err := c.store.Page(key)
	if err != nil {
		return err
	}
	if c.probation.Len() == c.probationCapacity {
		c.evict(&c.probation)
	}
	page := c.probation.PushFront(queuedEntry[Key, Page]{
		entry: entry[Key, Page]{key: key, page: fetched},
	})
	c.index[key] = page
	return view(&page.Value.page)
}

// promote moves a probation page to the front of protected,
// making room in protected first if needed.
func (c *TwoQueue[Key, Page]) promote(page *queuedNode[Key, Page]) {
	if c.protected.Len() == c.protectedCapacity {
		c.evict(&c.protected)
	}
	c.probation.Remove(page)
	page.Value.protected = true
	c.protected.PushElementFront(page)
}

// evict drops the back of q.
func (c *TwoQueue[Key, Page]) evict(q *queue[Key, Page]) {
	victim := q.Remove(q.Back())
	delete(c.index, victim.Value.key)
}

func (c *TwoQueue[Key, Page]) checkInvariants() {
	assert(len(c.index) == c.probation.Len()+c.protected.Len(),
		"index size differs from queue lengths")
	assert(c.probation.Len() <= c.probationCapacity,
		"probation exceeds its capacity")
	assert(c.protected.Len() <= c.protectedCapacity,
		"protected exceeds its capacity")
	for page := range c.probation.All() {
		assert(!page.Value.protected && c.index[page.Value.key] == page,
			"probation node is not indexed as probationary")
	}
	for page := range c.protected.All() {
		assert(page.Value.protected && c.index[page.Value.key] == page,
			"protected node is not indexed as protected")
	}
}

// Cached reports if key is resident in either queue.
// It does not promote.
func (c *TwoQueue[Key, _]) Cached(key Key) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns an iterator over resident keys,
// protected (most recent first) followed by probation (newest first).
func (c *TwoQueue[Key, _]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for key := range c.Protected() {
			if !yield(key) {
				return
			}
		}
		for key := range c.Probation() {
			if !yield(key) {
				return
			}
		}
	}
}

// Probation returns an iterator over the probation queue,
// newest arrival first.
func (c *TwoQueue[Key, _]) Probation() iter.Seq[Key] {
	return queueKeys(&c.probation)
}

// Protected returns an iterator over the protected queue,
// most recently used first.
func (c *TwoQueue[Key, _]) Protected() iter.Seq[Key] {
	return queueKeys(&c.protected)
}

// ProbationCapacity returns the size limit of the probation queue.
func (c *TwoQueue[_, _]) ProbationCapacity() int { return c.probationCapacity }

// ProtectedCapacity returns the size limit of the protected queue.
func (c *TwoQueue[_, _]) ProtectedCapacity() int { return c.protectedCapacity }

// Len returns the number of resident pages.
func (c *TwoQueue[_, _]) Len() int { return c.probation.Len() + c.protected.Len() }

// Capacity returns the maximum number of resident pages.
func (c *TwoQueue[_, _]) Capacity() int { return c.probationCapacity + c.protectedCapacity }

func queueKeys[Key comparable, Page any](q *queue[Key, Page]) iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for page := range q.All() {
			if !yield(page.Value.key) {
				return
			}
		}
	}
}
