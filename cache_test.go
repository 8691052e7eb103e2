package pagecache_test

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"testing"

	"github.com/djdv/go-pagecache"
	"github.com/djdv/go-pagecache/internal/workload"
	"github.com/djdv/go-pagecache/store"
)

type (
	pageStore        = pagecache.Store[int, int]
	testCache        = pagecache.Cache[int, int]
	cacheCtor        = func(store pageStore, capacity int) (testCache, error)
	cacheConstructor struct {
		name    string
		new     cacheCtor
		minimum int
	}
)

// Fixed RNG seed for reproducibility.
const rngSeed = 1

func policyConstructors() []cacheConstructor {
	return []cacheConstructor{
		{
			"Random",
			func(store pageStore, capacity int) (testCache, error) {
				return asCache(pagecache.NewRandom(store, capacity,
					pagecache.WithRand(workload.NewRand(rngSeed))))
			},
			1,
		},
		{
			"LRU",
			func(store pageStore, capacity int) (testCache, error) {
				return asCache(pagecache.NewLRU(store, capacity))
			},
			1,
		},
		{
			"2Q",
			func(store pageStore, capacity int) (testCache, error) {
				return asCache(pagecache.NewTwoQueue(store, capacity))
			},
			pagecache.MinimumTwoQueueCapacity,
		},
	}
}

func TestPolicies(t *testing.T) {
	for _, constructor := range policyConstructors() {
		t.Run(constructor.name, func(t *testing.T) {
			t.Run("invalid capacity", invalidCapacity(constructor))
			t.Run("nil store", nilStore(constructor))
			t.Run("empty miss", emptyMiss(constructor))
			t.Run("capacity bounds", capacityBounds(constructor))
			t.Run("counters", counterInvariant(constructor))
			t.Run("idempotent hit", idempotentHit(constructor))
			t.Run("not found", notFound(constructor))
			t.Run("view", view(constructor))
		})
	}
}

func invalidCapacity(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		for _, capacity := range []int{-1, constructor.minimum - 1} {
			cache, err := constructor.new(identityStore(), capacity)
			if cache != nil || !errors.Is(err, pagecache.ErrInvalidCapacity) {
				t.Errorf(
					"constructor did not reject capacity %d: %v",
					capacity, err)
			}
		}
		if _, err := constructor.new(identityStore(), constructor.minimum); err != nil {
			t.Errorf("minimum capacity was rejected: %v", err)
		}
	}
}

func nilStore(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		if _, err := constructor.new(nil, 8); !errors.Is(err, pagecache.ErrNilStore) {
			t.Errorf("expected %v, got %v", pagecache.ErrNilStore, err)
		}
	}
}

func emptyMiss(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		const key = 7
		var (
			counting = &store.Counting[int, int]{Store: identityStore()}
			cache    = newCache(t, constructor, counting, 4)
		)
		if cache.Cached(key) {
			t.Fatal("empty cache reports a resident key")
		}
		checkGet(t, cache, key, key)
		checkCounters(t, cache, 0, 1)
		if counting.Fetches != 1 {
			t.Fatalf("expected 1 store fetch, got %d", counting.Fetches)
		}
		if !cache.Cached(key) {
			t.Fatal("fetched key was not admitted")
		}
	}
}

func capacityBounds(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		for _, capacity := range []int{constructor.minimum, 3, 16} {
			var (
				cache = newCache(t, constructor, identityStore(), capacity)
				rng   = workload.NewRand(rngSeed)
				trace = workload.Uniform(rng, capacity*4, 1024)
			)
			for _, key := range trace {
				checkGet(t, cache, key, key)
				checkResidency(t, cache)
			}
			checkSize(t, cache, capacity, "after filling cache")
		}
	}
}

func counterInvariant(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		var (
			cache = newCache(t, constructor, identityStore(), 8)
			trace = workload.Uniform(workload.NewRand(rngSeed), 16, 512)
		)
		for _, key := range trace {
			var (
				wasCached = cache.Cached(key)
				hits      = cache.Hits()
				lookups   = cache.Lookups()
			)
			checkGet(t, cache, key, key)
			if got := cache.Lookups(); got != lookups+1 {
				t.Fatalf("lookups moved from %d to %d", lookups, got)
			}
			wantHits := hits
			if wasCached {
				wantHits++
			}
			if got := cache.Hits(); got != wantHits {
				t.Fatalf("hits: got %d want %d (cached: %t)",
					got, wantHits, wasCached)
			}
			if cache.Hits()+cache.Misses() != cache.Lookups() {
				t.Fatal("hits + misses != lookups")
			}
		}
		want := float64(cache.Hits()) / float64(cache.Lookups())
		if got := cache.HitRatio(); got != want {
			t.Fatalf("hit ratio: got %f want %f", got, want)
		}
	}
}

func idempotentHit(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		const (
			capacity = 6
			key      = 100
		)
		cache := newCache(t, constructor, identityStore(), capacity)
		addIncrementingInts(t, cache, capacity*2)
		checkGet(t, cache, key, key)
		checkGet(t, cache, key, key) // Now a hit.
		var (
			before  = residents(cache)
			hits    = cache.Hits()
			lookups = cache.Lookups()
		)
		checkGet(t, cache, key, key)
		if after := residents(cache); !maps.Equal(before, after) {
			t.Fatalf("repeated hit changed residency"+
				"\n\tbefore: %v"+
				"\n\tafter: %v",
				before, after)
		}
		checkCounters(t, cache, hits+1, lookups+1)
		if got := cache.Capacity(); got != capacity {
			t.Fatalf("capacity changed to %d", got)
		}
	}
}

func notFound(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		const (
			capacity = 4
			missing  = -1
		)
		pages := make(store.Map[int, int], capacity*2)
		for key := range capacity * 2 {
			pages[key] = key
		}
		cache := newCache(t, constructor, pages, capacity)
		addIncrementingInts(t, cache, capacity+1)
		var (
			before  = residents(cache)
			hits    = cache.Hits()
			lookups = cache.Lookups()
		)
		_, err := cache.Get(missing)
		if !errors.Is(err, pagecache.ErrNotFound) {
			t.Fatalf("expected not found error, got: %v", err)
		}
		var notFound *pagecache.NotFoundError[int]
		if !errors.As(err, &notFound) || notFound.Key != missing {
			t.Fatalf("error does not carry the missing key: %v", err)
		}
		if cache.Cached(missing) {
			t.Fatal("missing key became resident")
		}
		if after := residents(cache); !maps.Equal(before, after) {
			t.Fatalf("failed fetch changed residency"+
				"\n\tbefore: %v"+
				"\n\tafter: %v",
				before, after)
		}
		checkCounters(t, cache, hits, lookups+1)
	}
}

func view(constructor cacheConstructor) func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()
		const key = 3
		var (
			cache   = newCache(t, constructor, identityStore(), 4)
			errStop = errors.New("stop")
		)
		for range 2 { // Miss, then hit.
			var got int
			err := cache.View(key, func(page *int) error {
				got = *page
				return errStop
			})
			if !errors.Is(err, errStop) {
				t.Fatalf("view error was not returned: %v", err)
			}
			if got != key {
				t.Fatalf("view got %d want %d", got, key)
			}
		}
		checkCounters(t, cache, 1, 2)
	}
}

// asCache keeps a failed constructor's nil
// pointer from becoming a non-nil interface.
func asCache[Cache testCache](cache Cache, err error) (testCache, error) {
	if err != nil {
		return nil, err
	}
	return cache, nil
}

func identityStore() pageStore {
	return store.Func[int, int]{
		PageFunc: func(key int) (int, error) { return key, nil },
	}
}

func newCache(tb testing.TB, constructor cacheConstructor, store pageStore, capacity int) testCache {
	tb.Helper()
	cache, err := constructor.new(store, capacity)
	if err != nil {
		tb.Fatal(err)
	}
	return cache
}

func addIncrementingInts(tb testing.TB, cache testCache, end int) {
	tb.Helper()
	for i := range end {
		indexed := i + 1
		checkGet(tb, cache, indexed, indexed)
	}
}

func checkGet(tb testing.TB, cache testCache, key, want int) {
	tb.Helper()
	got, err := cache.Get(key)
	if err != nil {
		tb.Fatalf("unexpected error for key %d: %v", key, err)
	}
	if got == want {
		return
	}
	tb.Fatalf(
		"expected value to match"+
			"\n\tgot: %v"+
			"\n\twant: %v",
		got, want)
}

func checkCounters(tb testing.TB, cache pagecache.Inspector[int], hits, lookups int) {
	tb.Helper()
	if cache.Hits() == hits && cache.Lookups() == lookups {
		return
	}
	tb.Fatalf(
		"unexpected counters"+
			"\n\tgot: %d hits / %d lookups"+
			"\n\twant: %d hits / %d lookups",
		cache.Hits(), cache.Lookups(), hits, lookups)
}

func checkSize(tb testing.TB, cache pagecache.Inspector[int], size int, action string) {
	tb.Helper()
	got := cache.Len()
	if got == size {
		return
	}
	tb.Fatalf(
		"expected cache to be specific size %s"+
			"\n\tgot: %d"+
			"\n\twant: %d",
		action, got, size)
}

// checkResidency asserts the capacity bound, and that
// Keys, Len and Cached agree with each other.
func checkResidency(tb testing.TB, cache pagecache.Inspector[int]) {
	tb.Helper()
	keys := slices.Collect(cache.Keys())
	if len(keys) > cache.Capacity() {
		tb.Fatalf("%d residents exceed capacity %d", len(keys), cache.Capacity())
	}
	if len(keys) != cache.Len() {
		tb.Fatalf("Keys yielded %d keys but Len is %d", len(keys), cache.Len())
	}
	seen := make(map[int]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			tb.Fatalf("key %d yielded twice", key)
		}
		seen[key] = true
		if !cache.Cached(key) {
			tb.Fatalf("yielded key %d is not Cached", key)
		}
	}
}

func residents(cache pagecache.Inspector[int]) map[int]struct{} {
	set := make(map[int]struct{}, cache.Len())
	for key := range cache.Keys() {
		set[key] = struct{}{}
	}
	return set
}

func keysMatch(tb testing.TB, got iter.Seq[int], want []int, msg string) {
	tb.Helper()
	collected := slices.Collect(got)
	if slices.Equal(collected, want) {
		return
	}
	tb.Fatalf(
		"%s"+
			"\n\tgot: %v"+
			"\n\twant: %v",
		msg, collected, want)
}

func ExampleLRU() {
	pages := store.Map[string, string]{
		"index": "<html>...</html>",
	}
	cache, err := pagecache.NewLRU[string, string](pages, 1024)
	if err != nil {
		panic(err) // TODO(Anyone): Handle error.
	}
	for range 2 {
		page, err := cache.Get("index")
		if err != nil {
			panic(err)
		}
		fmt.Println(page)
	}
	fmt.Printf("hits: %d/%d\n", cache.Hits(), cache.Lookups())
	// Output:
	// <html>...</html>
	// <html>...</html>
	// hits: 1/2
}
