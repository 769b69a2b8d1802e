package vecx

import (
	"bytes"
	"fmt"

	"github.com/benbjohnson/immutable"
)

// SearchState represents a partial choice of one node per discovered class.
//
// The frontier lists classes in order of discovery. Every class before the
// current position has been resolved to a node. States are never modified
// once forked; all of their collections are persistent and shared with
// parent and sibling states.
type SearchState struct {
	position int

	frontier *immutable.SortedMap // position -> ClassID
	index    *immutable.SortedMap // ClassID -> position
	choices  *immutable.SortedMap // position -> *choice
	deps     DependencyMap

	cost int
}

// choice records the node selected for the class at a frontier position.
type choice struct {
	candidate int   // index within the class's candidate list
	op        string
	children  []int // frontier positions of the node's children
}

// NewSearchState returns the initial state for extraction from root.
func NewSearchState(root ClassID) *SearchState {
	return &SearchState{
		frontier: immutable.NewSortedMap(&intComparer{}).Set(0, root),
		index:    immutable.NewSortedMap(&classIDComparer{}).Set(root, 0),
		choices:  immutable.NewSortedMap(&intComparer{}),
		deps:     NewDependencyMap(),
	}
}

// Position returns the frontier position of the next class to resolve.
func (s *SearchState) Position() int { return s.position }

// Cost returns the cost accumulated by the choices made so far.
func (s *SearchState) Cost() int { return s.cost }

// Dependencies returns the dependency map of the state.
func (s *SearchState) Dependencies() DependencyMap { return s.deps }

// Done returns true if every discovered class has been resolved.
func (s *SearchState) Done() bool {
	return s.position >= s.frontier.Len()
}

// Class returns the class at the current position. Panic if the state is done.
func (s *SearchState) Class() ClassID {
	v, ok := s.frontier.Get(s.position)
	assert(ok, "class: position out of range: %d", s.position)
	return v.(ClassID)
}

// Frontier returns the discovered classes in discovery order.
func (s *SearchState) Frontier() []ClassID {
	a := make([]ClassID, 0, s.frontier.Len())
	itr := s.frontier.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return a
		}
		a = append(a, v.(ClassID))
	}
}

// Fork returns a child state that resolves the current class to node, which
// is the candidate'th candidate of the class, at an additional cost of delta.
//
// Children not yet discovered are appended to the frontier. Returns false if
// the choice would introduce a dependency cycle.
func (s *SearchState) Fork(candidate int, node Node, delta int) (*SearchState, bool) {
	id := s.Class()

	deps, ok := s.deps.Select(id, node.Children)
	if !ok {
		return nil, false
	}

	frontier, index := s.frontier, s.index
	children := make([]int, len(node.Children))
	for i, child := range node.Children {
		if pos, ok := index.Get(child); ok {
			children[i] = pos.(int)
			continue
		}
		pos := frontier.Len()
		frontier = frontier.Set(pos, child)
		index = index.Set(child, pos)
		children[i] = pos
	}

	return &SearchState{
		position: s.position + 1,
		frontier: frontier,
		index:    index,
		choices:  s.choices.Set(s.position, &choice{candidate: candidate, op: node.Op, children: children}),
		deps:     deps,
		cost:     s.cost + delta,
	}, true
}

// Key returns the candidate index chosen at each resolved position. Keys of
// distinct branches always differ at some position, which gives a total order
// used for breaking ties between equal-cost results.
func (s *SearchState) Key() []int {
	key := make([]int, 0, s.choices.Len())
	itr := s.choices.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			return key
		}
		key = append(key, v.(*choice).candidate)
	}
}

// Expr rebuilds the chosen nodes into a bottom-up expression. Panic if the
// state is not done.
//
// Nodes are emitted in reverse discovery order where possible, so a frontier
// position p normally maps to output position n-p-1. A class discovered before
// a class that references it is emitted earlier so that every child precedes
// its parent.
func (s *SearchState) Expr() Expr {
	assert(s.Done(), "expr: state not done: position=%d", s.position)

	n := s.choices.Len()
	nodes := make([]*choice, n)
	itr := s.choices.Iterator()
	for {
		k, v := itr.Next()
		if k == nil {
			break
		}
		nodes[k.(int)] = v.(*choice)
	}

	emitted := make([]int, n)
	for i := range emitted {
		emitted[i] = -1
	}

	expr := make(Expr, 0, n)
	for len(expr) < n {
		pos := -1
		for p := n - 1; p >= 0 && pos < 0; p-- {
			if emitted[p] >= 0 {
				continue
			}
			ready := true
			for _, child := range nodes[p].children {
				if emitted[child] < 0 {
					ready = false
					break
				}
			}
			if ready {
				pos = p
			}
		}
		assert(pos >= 0, "expr: cyclic choice set")

		c := nodes[pos]
		enode := ENode{Op: c.op}
		for _, child := range c.children {
			enode.Children = append(enode.Children, emitted[child])
		}
		emitted[pos] = len(expr)
		expr = append(expr, enode)
	}
	return expr
}

// Dump returns the contents of the state as a string.
func (s *SearchState) Dump() string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "SEARCH STATE")
	fmt.Fprintln(&buf, "============")
	fmt.Fprintf(&buf, "position=%d\n", s.position)
	fmt.Fprintf(&buf, "cost=%d\n", s.cost)
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== FRONTIER")
	for pos, id := range s.Frontier() {
		fmt.Fprintf(&buf, "%d. class=%d", pos, id)
		if v, ok := s.choices.Get(pos); ok {
			c := v.(*choice)
			fmt.Fprintf(&buf, " candidate=%d op=%s children=%v", c.candidate, c.op, c.children)
		}
		fmt.Fprintln(&buf, "")
	}
	fmt.Fprintln(&buf, "")

	fmt.Fprintln(&buf, "== DEPENDENCIES")
	fmt.Fprintln(&buf, s.deps.String())
	return buf.String()
}
