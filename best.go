package vecx

import (
	"sync"
)

// best holds the lowest-cost complete branch found so far. It is the only
// state shared between workers.
type best struct {
	mu    sync.Mutex
	found bool
	cost  int
	key   []int
	expr  Expr
}

// exceeds returns true if cost is strictly greater than the best cost. Such a
// branch can never win since costs never decrease along a branch.
func (b *best) exceeds(cost int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.found && cost > b.cost
}

// offer replaces the best result with state if it has a strictly lower cost,
// or an equal cost and a lexicographically smaller key. Returns true if
// the best result was replaced.
func (b *best) offer(state *SearchState) bool {
	key := state.Key()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.found {
		if state.Cost() > b.cost {
			return false
		} else if state.Cost() == b.cost && compareKeys(key, b.key) >= 0 {
			return false
		}
	}

	b.found, b.cost, b.key = true, state.Cost(), key
	b.expr = state.Expr()
	return true
}

// result returns the best cost and expression. Returns false if no complete
// branch was offered.
func (b *best) result() (int, Expr, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cost, b.expr, b.found
}

// compareKeys returns an integer comparing two keys lexicographically.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func compareKeys(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		} else if a[i] > b[i] {
			return 1
		}
	}
	if len(a) < len(b) {
		return -1
	} else if len(a) > len(b) {
		return 1
	}
	return 0
}
