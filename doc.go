// Package pagecache implements bounded page caches
// in front of a slow [Store], behind one shared contract.
//
// Policies:
//
//   - [Dummy]
//
//     Holds nothing; every lookup is a miss.
//     Baseline for measuring the benefit of caching at all.
//
//   - [Random]
//
//     Evicts a uniformly random resident page.
//
//   - [LRU]
//
//     Evicts the least recently used page.
//     After any trace, the residents are exactly the
//     `capacity` most recently requested distinct keys.
//
//   - [TwoQueue]
//
//     New pages enter a small FIFO probation queue.
//     A second request while on probation promotes the page
//     into a larger LRU protected queue.
//     Scans therefore only displace probationary pages.
//     There is no ghost ("recently evicted") list;
//     any probation hit promotes.
//
//   - [Belady]
//
//     Evicts the page whose next request is furthest away,
//     which requires the future request sequence ("lookahead").
//     It implements [Oracle] rather than [Cache], and is used
//     as the upper bound online policies are measured against.
//
// Counters:
//
//   - Every lookup increments Lookups, and Hits if the key was resident.
//
//     A store error still counts as a (missed) lookup,
//     but never changes residency.
//
// Borrowing:
//
//   - View passes a pointer into cache storage to a callback.
//
//     The pointer is only valid until the callback returns;
//     the next lookup may overwrite or evict that storage.
//     Get returns a copy instead.
//
// Debugging:
//
//   - Building with the `pagecache_debug` tag enables
//     assertions of each policy's index and ordering invariants.
package pagecache
