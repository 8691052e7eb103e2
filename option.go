package pagecache

import "math/rand"

type (
	// Option configures a policy at construction.
	// Options that do not apply to a policy are ignored by it.
	Option  func(*options)
	options struct {
		rng            *rand.Rand
		probationRatio float64
	}
)

// DefaultProbationRatio is the share of a [TwoQueue]'s
// capacity given to its probation queue.
const DefaultProbationRatio = 0.2

func makeOptions(opts []Option) options {
	settings := options{
		probationRatio: DefaultProbationRatio,
	}
	for _, apply := range opts {
		apply(&settings)
	}
	return settings
}

// WithRand sets the source a [Random] cache draws victims from.
// The source is used exclusively by that cache.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithProbationRatio sets the share of a [TwoQueue]'s capacity
// given to the probation queue. ratio must be within (0, 1);
// each queue always keeps at least one slot.
func WithProbationRatio(ratio float64) Option {
	return func(o *options) { o.probationRatio = ratio }
}
