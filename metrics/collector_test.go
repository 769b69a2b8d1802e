package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/vecx"
	"github.com/benbjohnson/vecx/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type staticSource vecx.Stats

func (s staticSource) Stats() vecx.Stats { return vecx.Stats(s) }

func TestCollector(t *testing.T) {
	c := metrics.NewCollector(staticSource{
		States:    12,
		Excluded:  3,
		Cycles:    2,
		Completed: 4,
		Elapsed:   1500 * time.Millisecond,
	}, prometheus.Labels{"graph": "scenario.yaml"})

	if got, exp := testutil.CollectAndCount(c), 8; got != exp {
		t.Fatalf("CollectAndCount()=%d, expected %d", got, exp)
	}

	exp := `
# HELP vecx_extractor_cycles_total Candidates rejected for introducing a cycle.
# TYPE vecx_extractor_cycles_total counter
vecx_extractor_cycles_total{graph="scenario.yaml"} 2
# HELP vecx_extractor_elapsed_seconds_total Wall time spent extracting.
# TYPE vecx_extractor_elapsed_seconds_total counter
vecx_extractor_elapsed_seconds_total{graph="scenario.yaml"} 1.5
# HELP vecx_extractor_states_total Search states expanded.
# TYPE vecx_extractor_states_total counter
vecx_extractor_states_total{graph="scenario.yaml"} 12
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(exp),
		"vecx_extractor_states_total",
		"vecx_extractor_cycles_total",
		"vecx_extractor_elapsed_seconds_total",
	); err != nil {
		t.Fatal(err)
	}
}

// Ensure the collector reads live statistics from an extractor.
func TestCollector_Extractor(t *testing.T) {
	g := vecx.NewEGraph()
	r := g.AddExpr(vecx.MustParseExpr("(VecAdd a b)"))
	g.AddEquivalent(r, vecx.MustParseExpr("(+ a b)"))

	e, err := vecx.NewExtractor(g, vecx.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(metrics.NewCollector(e, nil))

	for i := 0; i < 2; i++ {
		if _, err := e.Extract(t.Context(), r); err != nil {
			t.Fatal(err)
		}
	}

	exp := `
# HELP vecx_extractor_completed_total Branches that resolved every class.
# TYPE vecx_extractor_completed_total counter
vecx_extractor_completed_total 2
# HELP vecx_extractor_excluded_total Candidates excluded for a scalar operation.
# TYPE vecx_extractor_excluded_total counter
vecx_extractor_excluded_total 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(exp),
		"vecx_extractor_completed_total",
		"vecx_extractor_excluded_total",
	); err != nil {
		t.Fatal(err)
	}
}
