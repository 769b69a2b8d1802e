// Package metrics exposes extraction statistics as Prometheus metrics.
package metrics

import (
	"github.com/benbjohnson/vecx"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the prefix of every metric name.
const Namespace = "vecx"

// Source represents anything reporting cumulative extraction statistics.
// *vecx.Extractor implements it.
type Source interface {
	Stats() vecx.Stats
}

// Collector implements prometheus.Collector by reading the statistics of a
// Source on every scrape.
type Collector struct {
	source Source

	states       *prometheus.Desc
	excluded     *prometheus.Desc
	cycles       *prometheus.Desc
	pruned       *prometheus.Desc
	deadEnds     *prometheus.Desc
	completed    *prometheus.Desc
	improvements *prometheus.Desc
	elapsed      *prometheus.Desc
}

// NewCollector returns a new instance of Collector for source. Labels are
// attached to every metric, e.g. to distinguish graph files.
func NewCollector(source Source, labels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "extractor", name), help, nil, labels)
	}
	return &Collector{
		source:       source,
		states:       desc("states_total", "Search states expanded."),
		excluded:     desc("excluded_total", "Candidates excluded for a scalar operation."),
		cycles:       desc("cycles_total", "Candidates rejected for introducing a cycle."),
		pruned:       desc("pruned_total", "Branches abandoned for exceeding the best cost."),
		deadEnds:     desc("dead_ends_total", "States whose class had no viable candidate."),
		completed:    desc("completed_total", "Branches that resolved every class."),
		improvements: desc("improvements_total", "Times the best result was replaced."),
		elapsed:      desc("elapsed_seconds_total", "Wall time spent extracting."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.states
	ch <- c.excluded
	ch <- c.cycles
	ch <- c.pruned
	ch <- c.deadEnds
	ch <- c.completed
	ch <- c.improvements
	ch <- c.elapsed
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	counter := func(desc *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, v)
	}
	counter(c.states, float64(stats.States))
	counter(c.excluded, float64(stats.Excluded))
	counter(c.cycles, float64(stats.Cycles))
	counter(c.pruned, float64(stats.Pruned))
	counter(c.deadEnds, float64(stats.DeadEnds))
	counter(c.completed, float64(stats.Completed))
	counter(c.improvements, float64(stats.Improvements))
	counter(c.elapsed, stats.Elapsed.Seconds())
}
