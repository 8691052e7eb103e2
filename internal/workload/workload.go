// Package workload generates reproducible request traces
// for comparing cache policies.
package workload

import (
	"fmt"
	"math/rand"
)

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Sequential cycles through keys [0, universe).
func Sequential(universe, length int) []int {
	trace := make([]int, length)
	for i := range trace {
		trace[i] = i % universe
	}
	return trace
}

// Uniform draws keys uniformly from [0, universe).
func Uniform(rng *rand.Rand, universe, length int) []int {
	trace := make([]int, length)
	for i := range trace {
		trace[i] = rng.Intn(universe)
	}
	return trace
}

// Looping sends hotRatio of the requests to a working set of
// hotSize keys, and the rest to the remaining keys of universe.
func Looping(rng *rand.Rand, hotSize, universe, length int, hotRatio float64) []int {
	var (
		trace    = make([]int, length)
		hot      = max(1, hotSize)
		coldSize = max(1, universe-hot)
	)
	for i := range trace {
		if rng.Float64() < hotRatio {
			trace[i] = rng.Intn(hot)
		} else {
			trace[i] = hot + rng.Intn(coldSize)
		}
	}
	return trace
}

// Zipf draws keys from [0, universe) with a Zipf distribution.
// skew must be > 1 and bias >= 1.
func Zipf(rng *rand.Rand, universe, length int, skew, bias float64) ([]int, error) {
	var (
		imax = uint64(max(universe, 2) - 1)
		zipf = rand.NewZipf(rng, skew, bias, imax)
	)
	if zipf == nil {
		return nil, fmt.Errorf(
			"invalid zipf parameters: skew %g must be > 1 and bias %g >= 1",
			skew, bias)
	}
	trace := make([]int, length)
	for i := range trace {
		trace[i] = int(zipf.Uint64())
	}
	return trace, nil
}
