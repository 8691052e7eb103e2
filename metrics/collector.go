// Package metrics exports cache counters to Prometheus.
package metrics

import (
	"fmt"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Counters is the subset of a cache's contract that is exported.
// Every [pagecache.Cache] and [pagecache.Oracle] satisfies it.
type Counters interface {
	Len() int
	Capacity() int
	Hits() int
	Lookups() int
	HitRatio() float64
}

// Collector reads the counters of named caches
// each time it is scraped.
// Caches are not safe for concurrent use, so scrapes must
// not overlap lookups; the caller is responsible for that.
type Collector struct {
	caches map[string]Counters
	names  []string

	hits, lookups, residents,
	capacity, hitRatio *prometheus.Desc
}

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "pagecache"

// NewCollector creates a [Collector] exporting caches,
// labelled by their map key as "policy".
func NewCollector(namespace string, caches map[string]Counters) (*Collector, error) {
	for name, cache := range caches {
		if cache == nil {
			return nil, fmt.Errorf("cache %q is nil", name)
		}
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	var (
		labels = []string{"policy"}
		desc   = func(name, help string) *prometheus.Desc {
			return prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "", name),
				help, labels, nil,
			)
		}
	)
	return &Collector{
		caches:    maps.Clone(caches),
		names:     slices.Sorted(maps.Keys(caches)),
		hits:      desc("hits_total", "Lookups satisfied by a resident page."),
		lookups:   desc("lookups_total", "Lookups issued to the cache."),
		residents: desc("resident_pages", "Pages currently resident."),
		capacity:  desc("capacity_pages", "Maximum number of resident pages."),
		hitRatio:  desc("hit_ratio", "Hits divided by lookups."),
	}, nil
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range []*prometheus.Desc{
		c.hits, c.lookups, c.residents, c.capacity, c.hitRatio,
	} {
		ch <- desc
	}
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.names {
		cache := c.caches[name]
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(cache.Hits()), name)
		ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(cache.Lookups()), name)
		ch <- prometheus.MustNewConstMetric(c.residents, prometheus.GaugeValue, float64(cache.Len()), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(cache.Capacity()), name)
		ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, cache.HitRatio(), name)
	}
}
