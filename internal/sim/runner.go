package sim

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/djdv/go-pagecache"
	"github.com/djdv/go-pagecache/internal/workload"
	"github.com/djdv/go-pagecache/metrics"
	"github.com/djdv/go-pagecache/store"
)

type (
	// Result summarizes one policy replayed over one workload.
	Result struct {
		Workload string
		Policy   string
		Capacity int
		Hits     int
		Lookups  int
		HitRatio float64
		Fetches  int
		Elapsed  time.Duration
	}

	// Report holds every [Result] of a run and the caches
	// that produced them, keyed by [Result.Name].
	Report struct {
		Results []Result
		Caches  map[string]metrics.Counters
	}

	// Runner replays the workloads of a [Config].
	Runner struct {
		config  Config
		backing Backing
		logger  *slog.Logger
	}

	// replayer runs trace against one freshly built cache.
	replayer func(ctx context.Context, trace []int) error
)

// cancelCheckInterval is how many requests are issued
// between checks for cancellation.
const cancelCheckInterval = 1 << 10

// NewRunner validates config and creates a [Runner]
// reading pages from backing.
func NewRunner(config Config, backing Backing, logger *slog.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if backing == nil {
		return nil, pagecache.ErrNilStore
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		config:  config,
		backing: backing,
		logger:  logger,
	}, nil
}

// Name identifies the cache that produced r.
func (r Result) Name() string {
	return fmt.Sprintf("%s/%s/%d", r.Workload, r.Policy, r.Capacity)
}

// Run replays every workload against every policy at every capacity.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{Caches: make(map[string]metrics.Counters)}
	for i, config := range r.config.Workloads {
		config = config.withDefaults()
		trace, err := Generate(config, r.config.Seed+int64(i))
		if err != nil {
			return nil, fmt.Errorf("workload %q: %w", config.Name, err)
		}
		r.logger.InfoContext(ctx, "workload generated",
			"workload", config.Name,
			"kind", config.Kind,
			"requests", len(trace))
		for _, capacity := range r.config.Capacities {
			for _, policy := range r.config.Policies {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				result, cache, err := r.replay(ctx, policy, capacity, trace)
				if err != nil {
					return nil, fmt.Errorf("%s over %q at capacity %d: %w",
						policy, config.Name, capacity, err)
				}
				result.Workload = config.Name
				r.logger.DebugContext(ctx, "replay finished",
					"workload", result.Workload,
					"policy", result.Policy,
					"capacity", result.Capacity,
					"hit_ratio", result.HitRatio,
					"elapsed", result.Elapsed)
				report.Results = append(report.Results, result)
				report.Caches[result.Name()] = cache
			}
		}
	}
	return report, nil
}

func (r *Runner) replay(ctx context.Context, policy string, capacity int, trace []int) (Result, metrics.Counters, error) {
	counting := &store.Counting[int, []byte]{Store: r.backing}
	cache, run, err := r.build(policy, capacity, counting)
	if err != nil {
		return Result{}, nil, err
	}
	start := time.Now()
	if err := run(ctx, trace); err != nil {
		return Result{}, nil, err
	}
	return Result{
		Policy:   policy,
		Capacity: capacity,
		Hits:     cache.Hits(),
		Lookups:  cache.Lookups(),
		HitRatio: cache.HitRatio(),
		Fetches:  counting.Fetches,
		Elapsed:  time.Since(start),
	}, cache, nil
}

func (r *Runner) build(policy string, capacity int, backing Backing) (metrics.Counters, replayer, error) {
	if policy == PolicyBelady {
		oracle, err := pagecache.NewBelady(backing, capacity)
		if err != nil {
			return nil, nil, err
		}
		return oracle, r.replayOracle(oracle), nil
	}
	cache, err := r.newCache(policy, capacity, backing)
	if err != nil {
		return nil, nil, err
	}
	return cache, replayCache(cache), nil
}

func (r *Runner) newCache(policy string, capacity int, backing Backing) (pagecache.Cache[int, []byte], error) {
	switch policy {
	case PolicyDummy:
		return pagecache.NewDummy(backing)
	case PolicyRandom:
		rng := workload.NewRand(r.config.Seed)
		return pagecache.NewRandom(backing, capacity, pagecache.WithRand(rng))
	case PolicyLRU:
		return pagecache.NewLRU(backing, capacity)
	case Policy2Q:
		return pagecache.NewTwoQueue(backing, capacity,
			pagecache.WithProbationRatio(r.config.ProbationRatio))
	default:
		return nil, fmt.Errorf("unknown policy %q", policy)
	}
}

func replayCache(cache pagecache.Cache[int, []byte]) replayer {
	return func(ctx context.Context, trace []int) error {
		if err := pagecache.Replay(cache, cancellable(ctx, trace)); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (r *Runner) replayOracle(oracle pagecache.Oracle[int, []byte]) replayer {
	window := r.config.BeladyWindow
	return func(ctx context.Context, trace []int) error {
		for position, key := range trace {
			if position%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			lookahead := pagecache.Lookahead(trace, position, window)
			if _, err := oracle.Get(key, lookahead); err != nil {
				return err
			}
		}
		return nil
	}
}

// cancellable yields trace until ctx is done.
func cancellable(ctx context.Context, trace []int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, key := range trace {
			if i%cancelCheckInterval == 0 && ctx.Err() != nil {
				return
			}
			if !yield(key) {
				return
			}
		}
	}
}

// Generate builds the request trace described by config,
// seeding its randomness with seed.
func Generate(config WorkloadConfig, seed int64) ([]int, error) {
	config = config.withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	rng := workload.NewRand(seed)
	switch config.Kind {
	case WorkloadSequential:
		return workload.Sequential(config.Universe, config.Length), nil
	case WorkloadUniform:
		return workload.Uniform(rng, config.Universe, config.Length), nil
	case WorkloadLooping:
		return workload.Looping(rng, config.HotSize, config.Universe, config.Length, config.HotRatio), nil
	case WorkloadZipf:
		return workload.Zipf(rng, config.Universe, config.Length, config.Skew, 1)
	case WorkloadGraph:
		return workload.GraphWalk(rng, config.Universe, config.Degree, config.Length), nil
	case WorkloadTree:
		return workload.TreeWalk(rng, config.Universe, config.Length), nil
	default:
		return nil, fmt.Errorf("unknown workload kind %q", config.Kind)
	}
}
