// Package ring is a generic adaptation of `container/ring`
// with a sentinel-headed [List] layered on top,
// used to order resident pages by recency or arrival.
package ring

import "iter"

// A Ring is an element of a circular list, or ring.
// Rings do not have a beginning or end; a pointer to any ring element
// serves as reference to the entire ring. Empty rings are represented
// as nil Ring pointers. The zero value for a Ring is a one-element
// ring holding the zero Value.
type Ring[T any] struct {
	next, prev *Ring[T]
	Value      T
}

func (r *Ring[T]) init() *Ring[T] {
	r.next = r
	r.prev = r
	return r
}

// Next returns the next ring element. r must not be empty.
func (r *Ring[T]) Next() *Ring[T] {
	if r.next == nil {
		return r.init()
	}
	return r.next
}

// Prev returns the previous ring element. r must not be empty.
func (r *Ring[T]) Prev() *Ring[T] {
	if r.next == nil {
		return r.init()
	}
	return r.prev
}

// Move moves n % r.Len() elements backward (n < 0) or forward (n >= 0)
// in the ring and returns that ring element. r must not be empty.
func (r *Ring[T]) Move(n int) *Ring[T] {
	if r.next == nil {
		return r.init()
	}
	for ; n < 0; n++ {
		r = r.prev
	}
	for ; n > 0; n-- {
		r = r.next
	}
	return r
}

// Link connects ring r with ring s such that r.Next()
// becomes s and returns the original value for r.Next().
// r must not be empty.
//
// If r and s point to the same ring, linking
// them removes the elements between r and s from the ring
// and returns them as a subring.
// If r and s point to different rings, linking
// them inserts the elements of s after r.
func (r *Ring[T]) Link(s *Ring[T]) *Ring[T] {
	n := r.Next()
	if s != nil {
		p := s.Prev()
		// Note: Cannot use multiple assignment because
		// evaluation order of LHS is not specified.
		r.next = s
		s.prev = r
		n.prev = p
		p.next = n
	}
	return n
}

// Unlink removes n % r.Len() elements from the ring r, starting
// at r.Next(). If n % r.Len() == 0, r remains unchanged.
// The result is the removed subring. r must not be empty.
func (r *Ring[T]) Unlink(n int) *Ring[T] {
	if n <= 0 {
		return nil
	}
	return r.Link(r.Move(n + 1))
}

// Len computes the number of elements in ring r.
// It executes in time proportional to the number of elements.
func (r *Ring[T]) Len() int {
	n := 0
	if r != nil {
		n = 1
		for p := r.Next(); p != r; p = p.next {
			n++
		}
	}
	return n
}

// List is a ring with a sentinel element,
// giving it a front (the sentinel's next)
// and a back (the sentinel's previous).
// The zero value is an empty list ready to use.
type List[T any] struct {
	root   Ring[T]
	length int
}

// Len returns the number of elements in l in constant time.
func (l *List[T]) Len() int { return l.length }

// Front returns the first element of l or nil if l is empty.
func (l *List[T]) Front() *Ring[T] {
	if l.length == 0 {
		return nil
	}
	return l.root.Next()
}

// Back returns the last element of l or nil if l is empty.
func (l *List[T]) Back() *Ring[T] {
	if l.length == 0 {
		return nil
	}
	return l.root.Prev()
}

// PushFront inserts a new element holding value
// at the front of l and returns it.
func (l *List[T]) PushFront(value T) *Ring[T] {
	element := (&Ring[T]{Value: value}).init()
	l.root.Link(element)
	l.length++
	return element
}

// PushElementFront inserts an element unlinked from
// another list (via [List.Remove]) at the front of l.
func (l *List[T]) PushElementFront(element *Ring[T]) {
	l.root.Link(element.init())
	l.length++
}

// Remove unlinks element from l and returns it
// as a one-element ring. element must belong to l.
func (l *List[T]) Remove(element *Ring[T]) *Ring[T] {
	removed := element.Prev().Unlink(1)
	l.length--
	return removed
}

// MoveToFront splices element to the front of l.
// element must belong to l.
func (l *List[T]) MoveToFront(element *Ring[T]) {
	if l.root.Next() == element {
		return
	}
	l.root.Link(element.Prev().Unlink(1))
}

// All returns an iterator over the elements of l, front to back.
// The behavior is undefined if l is modified during iteration.
func (l *List[T]) All() iter.Seq[*Ring[T]] {
	return func(yield func(*Ring[T]) bool) {
		root := &l.root
		for p := root.Next(); p != root; p = p.next {
			if !yield(p) {
				return
			}
		}
	}
}
