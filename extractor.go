package vecx

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Config holds the settings used by an Extractor.
type Config struct {
	// Unit costs for the cost model. Must all be positive.
	Weights Weights

	// Number of workers expanding search states concurrently.
	// Defaults to GOMAXPROCS when zero or negative.
	Workers int

	// If true, branches whose accumulated cost exceeds the best complete
	// branch are abandoned. Does not change the result.
	Prune bool

	// Returns the strategy used for ordering pending states.
	// Defaults to depth-first.
	NewSearcher func() Searcher

	Logger *slog.Logger
	Tracer trace.Tracer
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),
		Prune:   true,
	}
}

// Result represents the outcome of a successful extraction.
type Result struct {
	Cost  int
	Expr  Expr
	Stats Stats
}

// Extractor selects the minimum-cost, fully vectorized, acyclic expression
// for a class of a graph.
//
// The search is exhaustive. Every candidate of every reachable class is
// explored as an independent branch, subject to scalar exclusion, the cycle
// guard and, optionally, branch-and-bound pruning. Equal-cost results are
// broken by the lexicographically smallest sequence of candidate indices in
// discovery order so the result does not depend on scheduling.
type Extractor struct {
	graph   Graph
	model   CostModel
	workers int
	prune   bool
	config  Config

	logger *slog.Logger
	tracer trace.Tracer

	mu    sync.Mutex
	stats Stats // cumulative across calls
}

// NewExtractor returns a new instance of Extractor for g.
func NewExtractor(g Graph, config Config) (*Extractor, error) {
	if err := config.Weights.Validate(); err != nil {
		return nil, err
	}

	e := &Extractor{
		graph:   g,
		model:   NewCostModel(config.Weights),
		workers: config.Workers,
		prune:   config.Prune,
		config:  config,
		logger:  config.Logger,
		tracer:  config.Tracer,
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With(slog.String("component", "extractor"))
	if e.tracer == nil {
		e.tracer = otel.Tracer("github.com/benbjohnson/vecx")
	}
	return e, nil
}

// Extract is a convenience function that creates an extractor for g and
// extracts from root.
func Extract(ctx context.Context, g Graph, root ClassID, config Config) (*Result, error) {
	e, err := NewExtractor(g, config)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, root)
}

// CostModel returns the cost model used by the extractor.
func (e *Extractor) CostModel() CostModel { return e.model }

// Stats returns statistics accumulated over every call to Extract.
func (e *Extractor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Extract returns the minimum-cost expression for root. Returns
// ErrNoExtractableExpression if every branch is excluded, cyclic or reaches a
// class without viable candidates. Returns the context error if ctx is
// canceled before the search completes.
func (e *Extractor) Extract(ctx context.Context, root ClassID) (_ *Result, err error) {
	ctx, span := e.tracer.Start(ctx, "vecx.Extract",
		trace.WithAttributes(
			attribute.Int("root", int(root)),
			attribute.Int("workers", e.workers),
			attribute.Bool("prune", e.prune),
		),
	)
	defer span.End()

	t := time.Now()
	logger := e.logger.With(slog.Int("root", int(root)))
	logger.Debug("[begin]", slog.Int("workers", e.workers))

	x := &extraction{
		Extractor: e,
		logger:    logger,
		queue:     newStateQueue(e.newSearcher()),
	}
	x.queue.push(NewSearchState(root))

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, x.queue.wake)
	for i := 0; i < e.workers; i++ {
		g.Go(func() error { return x.work(gctx) })
	}
	err = g.Wait()
	stop()

	stats := x.counters.snapshot()
	stats.Elapsed = time.Since(t)
	e.mu.Lock()
	e.stats = e.stats.Add(stats)
	e.mu.Unlock()

	span.SetAttributes(
		attribute.Int64("states", stats.States),
		attribute.Int64("completed", stats.Completed),
		attribute.Int64("cycles", stats.Cycles),
		attribute.Int64("pruned", stats.Pruned),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	cost, expr, ok := x.best.result()
	if !ok {
		span.SetStatus(codes.Error, ErrNoExtractableExpression.Error())
		logger.Debug("[done] no extractable expression", slog.Int64("states", stats.States))
		return nil, ErrNoExtractableExpression
	}

	span.SetAttributes(attribute.Int("cost", cost))
	logger.Debug("[done]",
		slog.Int("cost", cost),
		slog.Int64("states", stats.States),
		slog.Duration("elapsed", stats.Elapsed),
	)
	return &Result{Cost: cost, Expr: expr, Stats: stats}, nil
}

func (e *Extractor) newSearcher() Searcher {
	if e.config.NewSearcher != nil {
		return e.config.NewSearcher()
	}
	return NewDFSSearcher()
}

// extraction holds the state of a single call to Extract.
type extraction struct {
	*Extractor
	logger   *slog.Logger
	queue    *stateQueue
	best     best
	counters counters
}

// work expands pending states until none remain or ctx is done.
func (x *extraction) work(ctx context.Context) error {
	for {
		state, ok := x.queue.pop(ctx)
		if !ok {
			return ctx.Err()
		}
		x.expand(state)
		x.queue.done()
	}
}

// expand forks one child state per viable candidate of the state's current
// class. Completed children are offered as results; the rest are queued.
func (x *extraction) expand(state *SearchState) {
	x.counters.states.Add(1)

	if x.prune && x.best.exceeds(state.Cost()) {
		x.counters.pruned.Add(1)
		return
	}

	var next []*SearchState
	var viable int
	for i, node := range x.graph.Candidates(state.Class()) {
		delta, ok := x.model.Cost(node.Op)
		if !ok {
			x.counters.excluded.Add(1)
			continue
		}
		viable++

		child, ok := state.Fork(i, node, delta)
		if !ok {
			x.counters.cycles.Add(1)
			continue
		}

		if x.prune && x.best.exceeds(child.Cost()) {
			x.counters.pruned.Add(1)
			continue
		} else if child.Done() {
			x.complete(child)
			continue
		}
		next = append(next, child)
	}

	if viable == 0 {
		x.counters.deadEnds.Add(1)
	}
	x.queue.push(next...)
}

// complete hands a fully resolved state to the result aggregator.
func (x *extraction) complete(state *SearchState) {
	x.counters.completed.Add(1)
	if x.best.offer(state) {
		x.counters.improvements.Add(1)
		x.logger.Debug("[best]", slog.Int("cost", state.Cost()), slog.Int("classes", state.Position()))
	}
}

// stateQueue is a task queue of pending states shared by the workers.
type stateQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	searcher Searcher
	pending  int // states pushed but not yet done
}

func newStateQueue(searcher Searcher) *stateQueue {
	q := &stateQueue{searcher: searcher}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push adds states to the queue and wakes waiting workers.
func (q *stateQueue) push(states ...*SearchState) {
	if len(states) == 0 {
		return
	}
	q.mu.Lock()
	for _, state := range states {
		q.searcher.AddState(state)
	}
	q.pending += len(states)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// pop blocks until a state is available. Returns false once every state has
// been processed or ctx is done.
func (q *stateQueue) pop(ctx context.Context) (*SearchState, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if ctx.Err() != nil {
			return nil, false
		} else if state := q.searcher.SelectState(); state != nil {
			return state, true
		} else if q.pending == 0 {
			return nil, false
		}
		q.cond.Wait()
	}
}

// done marks a popped state as processed.
func (q *stateQueue) done() {
	q.mu.Lock()
	q.pending--
	assert(q.pending >= 0, "state queue: negative pending count")
	finished := q.pending == 0
	q.mu.Unlock()
	if finished {
		q.cond.Broadcast()
	}
}

// wake releases every waiting worker so it can observe cancellation.
// Broadcasting under the lock ensures no worker is between its context check
// and Wait.
func (q *stateQueue) wake() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cond.Broadcast()
}
