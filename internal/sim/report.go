package sim

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/djdv/go-pagecache/metrics"
)

// WriteTable prints one row per result, in run order.
func (r *Report) WriteTable(w io.Writer) error {
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(table, "workload\tpolicy\tcapacity\thits\tlookups\thit ratio\tfetches\telapsed\t")
	for _, result := range r.Results {
		fmt.Fprintf(table, "%s\t%s\t%d\t%d\t%d\t%.2f%%\t%d\t%s\t\n",
			result.Workload, result.Policy, result.Capacity,
			result.Hits, result.Lookups, result.HitRatio*100,
			result.Fetches, result.Elapsed.Round(time.Microsecond))
	}
	return table.Flush()
}

// Collector exports the counters of every cache in r.
func (r *Report) Collector(namespace string) (*metrics.Collector, error) {
	return metrics.NewCollector(namespace, r.Caches)
}
