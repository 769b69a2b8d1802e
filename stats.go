package vecx

import (
	"sync/atomic"
	"time"
)

// Stats holds counters describing the work performed by extraction.
type Stats struct {
	States       int64         // states expanded
	Excluded     int64         // candidates skipped for a scalar operation
	Cycles       int64         // candidates rejected by the cycle guard
	Pruned       int64         // branches abandoned for exceeding the best cost
	DeadEnds     int64         // states whose class had no viable candidate
	Completed    int64         // branches that resolved every class
	Improvements int64         // times the best result was replaced
	Elapsed      time.Duration // wall time spent extracting
}

// Add returns the sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		States:       s.States + other.States,
		Excluded:     s.Excluded + other.Excluded,
		Cycles:       s.Cycles + other.Cycles,
		Pruned:       s.Pruned + other.Pruned,
		DeadEnds:     s.DeadEnds + other.DeadEnds,
		Completed:    s.Completed + other.Completed,
		Improvements: s.Improvements + other.Improvements,
		Elapsed:      s.Elapsed + other.Elapsed,
	}
}

// counters is the concurrently updated form of Stats.
type counters struct {
	states       atomic.Int64
	excluded     atomic.Int64
	cycles       atomic.Int64
	pruned       atomic.Int64
	deadEnds     atomic.Int64
	completed    atomic.Int64
	improvements atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		States:       c.states.Load(),
		Excluded:     c.excluded.Load(),
		Cycles:       c.cycles.Load(),
		Pruned:       c.pruned.Load(),
		DeadEnds:     c.deadEnds.Load(),
		Completed:    c.completed.Load(),
		Improvements: c.improvements.Load(),
	}
}
