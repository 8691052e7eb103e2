package pagecache

import "fmt"

type constError string

const (
	// ErrNotFound is matched by errors a [Store]
	// returns for keys it holds no page for.
	ErrNotFound = constError("page not found")
	// ErrInvalidCapacity may be returned from policy constructors.
	ErrInvalidCapacity = constError("invalid capacity")
	// ErrInvalidRatio may be returned from [NewTwoQueue].
	ErrInvalidRatio = constError("invalid probation ratio")
	// ErrNilStore is returned when a constructor is given no [Store].
	ErrNilStore = constError("nil store")
)

func (errStr constError) Error() string { return string(errStr) }

// NotFoundError records the key a [Store] could not resolve.
// It matches [ErrNotFound] with [errors.Is].
type NotFoundError[Key comparable] struct {
	Key Key
}

// NotFound returns an error that a [Store]
// may use to report a missing key.
func NotFound[Key comparable](key Key) error {
	return &NotFoundError[Key]{Key: key}
}

func (e *NotFoundError[Key]) Error() string {
	return fmt.Sprintf("%s: %v", ErrNotFound, e.Key)
}

func (e *NotFoundError[Key]) Is(target error) bool { return target == ErrNotFound }

func minCapacityError(policy string, minimum, capacity int) error {
	return fmt.Errorf(
		"%w: %s must be >=%d but %d was requested",
		ErrInvalidCapacity, policy, minimum, capacity)
}

func ratioError(ratio float64) error {
	return fmt.Errorf(
		"%w: must be within (0, 1) but %g was requested",
		ErrInvalidRatio, ratio)
}
