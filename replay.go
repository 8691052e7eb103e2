package pagecache

import "iter"

// Replay requests every key of trace from cache in order.
// It stops at, and returns, the first error.
func Replay[Key comparable, Page any](cache Cache[Key, Page], trace iter.Seq[Key]) error {
	for key := range trace {
		if _, err := cache.Get(key); err != nil {
			return err
		}
	}
	return nil
}

// ReplayOracle requests every key of trace from oracle in order,
// giving it up to window requests of lookahead each time.
// A window <= 0 provides the whole remainder of trace.
// It stops at, and returns, the first error.
func ReplayOracle[Key comparable, Page any](oracle Oracle[Key, Page], trace []Key, window int) error {
	for position, key := range trace {
		lookahead := Lookahead(trace, position, window)
		if _, err := oracle.Get(key, lookahead); err != nil {
			return err
		}
	}
	return nil
}

// Lookahead returns an iterator over the (at most window)
// requests in trace that follow position.
// A window <= 0 yields every following request.
func Lookahead[Key any](trace []Key, position, window int) iter.Seq[Key] {
	var (
		start = min(position+1, len(trace))
		end   = len(trace)
	)
	if window > 0 {
		end = min(start+window, end)
	}
	future := trace[start:end]
	return func(yield func(Key) bool) {
		for _, key := range future {
			if !yield(key) {
				return
			}
		}
	}
}
