// Package pipeline is a small interpreter over a directed step graph: a step
// registry plus an edge table whose entries are either a fixed next step or a
// router evaluated on the state after the step runs. Edges are data, which
// keeps the fallback-heavy routing testable apart from the steps themselves.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/madhu-yavar/transaction-agent/internal/state"
)

// Step transforms the run state. A step owns its side effects (network, file
// and database I/O) and converts its own failures into the state's error
// field instead of panicking past the step boundary.
type Step func(ctx context.Context, st *state.State) *state.State

// Router picks the next step name from the state's current value. Returning
// Terminate ends the run.
type Router func(st *state.State) string

// Terminate is the router result that ends a run without another step.
const Terminate = ""

// Engine executes steps one at a time from the entry node until it reaches a
// node with no outgoing edge. Execution is single-threaded and synchronous;
// no step begins before the previous one returns.
type Engine struct {
	log     *slog.Logger
	steps   map[string]Step
	next    map[string]string
	routers map[string]Router
	entry   string
}

func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		log:     log,
		steps:   make(map[string]Step),
		next:    make(map[string]string),
		routers: make(map[string]Router),
	}
}

// Register adds a named step. Step names are unique.
func (e *Engine) Register(name string, fn Step) error {
	if name == "" {
		return fmt.Errorf("step name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("step %q has no function", name)
	}
	if _, dup := e.steps[name]; dup {
		return fmt.Errorf("step %q already registered", name)
	}
	e.steps[name] = fn
	return nil
}

// Connect wires an unconditional edge from one step to the next.
func (e *Engine) Connect(from, to string) {
	e.next[from] = to
}

// ConnectConditional wires a router evaluated after from runs.
func (e *Engine) ConnectConditional(from string, r Router) {
	e.routers[from] = r
}

// SetEntry names the step a run starts from.
func (e *Engine) SetEntry(name string) {
	e.entry = name
}

// Run executes the graph on st and always returns a well-formed state: any
// panic escaping a step is recovered into the error field rather than
// propagated. The graph is expected to be acyclic; as a guard against silent
// loops, total executed steps are capped at twice the node count.
func (e *Engine) Run(ctx context.Context, st *state.State) (out *state.State) {
	out = st
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("pipeline.panic", "run_id", st.RunID, "panic", fmt.Sprint(r))
			out = st.Fail(fmt.Sprintf("pipeline failure: %v", r))
		}
	}()

	if _, ok := e.steps[e.entry]; !ok {
		return st.Fail(fmt.Sprintf("pipeline entry step %q not registered", e.entry))
	}

	maxSteps := 2 * len(e.steps)
	cur := e.entry
	for executed := 0; ; executed++ {
		if executed >= maxSteps {
			return st.Fail("pipeline did not terminate")
		}

		fn, ok := e.steps[cur]
		if !ok {
			return st.Fail(fmt.Sprintf("pipeline routed to unknown step %q", cur))
		}

		start := time.Now()
		e.log.Info("pipeline.step.start", "run_id", st.RunID, "step", cur)
		if next := fn(ctx, st); next != nil {
			st = next
		}
		e.log.Info("pipeline.step.done",
			"run_id", st.RunID,
			"step", cur,
			"failed", st.Failed(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		out = st

		if router, ok := e.routers[cur]; ok {
			cur = router(st)
			if cur == Terminate {
				return st
			}
			continue
		}
		if to, ok := e.next[cur]; ok {
			cur = to
			continue
		}
		// Terminal node: no outgoing edge.
		return st
	}
}
