package vecx

import (
	"math/rand"
)

// Searcher represents a strategy for choosing the next pending state to
// expand. Implementations do not need to be safe for concurrent use; the
// extractor serializes access.
type Searcher interface {
	// Returns the next state to explore. Returns nil if no state is pending.
	SelectState() *SearchState

	// Adds a state to the current searcher.
	AddState(state *SearchState)
}

// DFSSearcher represents a searcher with a depth-first search strategy.
// Depth-first keeps the number of pending states low and reaches complete
// branches early, which tightens the pruning bound sooner.
type DFSSearcher struct {
	states []*SearchState
}

// NewDFSSearcher returns a new instance of DFSSearcher.
func NewDFSSearcher() *DFSSearcher {
	return &DFSSearcher{}
}

// SelectState returns the next search state to explore.
func (s *DFSSearcher) SelectState() *SearchState {
	if len(s.states) == 0 {
		return nil
	}
	state := s.states[len(s.states)-1]
	s.states[len(s.states)-1] = nil
	s.states = s.states[:len(s.states)-1]
	return state
}

// AddState adds a new state to the searcher.
func (s *DFSSearcher) AddState(state *SearchState) {
	s.states = append(s.states, state)
}

// BFSSearcher represents a searcher with a breadth-first search strategy.
type BFSSearcher struct {
	states []*SearchState
}

// NewBFSSearcher returns a new instance of BFSSearcher.
func NewBFSSearcher() *BFSSearcher {
	return &BFSSearcher{}
}

// SelectState returns the next search state to explore.
func (s *BFSSearcher) SelectState() *SearchState {
	if len(s.states) == 0 {
		return nil
	}
	state := s.states[0]
	s.states[0] = nil
	s.states = s.states[1:]
	return state
}

// AddState adds a new state to the searcher.
func (s *BFSSearcher) AddState(state *SearchState) {
	s.states = append(s.states, state)
}

// RandomSearcher selects a random pending state.
type RandomSearcher struct {
	states []*SearchState
	rand   *rand.Rand
}

// NewRandomSearcher returns a new instance of RandomSearcher.
func NewRandomSearcher(rand *rand.Rand) *RandomSearcher {
	return &RandomSearcher{
		rand: rand,
	}
}

// SelectState returns a random search state to explore.
func (s *RandomSearcher) SelectState() *SearchState {
	if len(s.states) == 0 {
		return nil
	}
	i := s.rand.Intn(len(s.states))
	state := s.states[i]
	s.states[i] = s.states[len(s.states)-1]
	s.states[len(s.states)-1] = nil
	s.states = s.states[:len(s.states)-1]
	return state
}

// AddState adds a new state to the searcher.
func (s *RandomSearcher) AddState(state *SearchState) {
	s.states = append(s.states, state)
}
