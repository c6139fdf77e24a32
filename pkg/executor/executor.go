// Package executor defines the Step/Executor contract: a step is a value
// carrying four pure functions over a Snapshot (preconditions, effect
// builder, duration, plus its static reservation list); an Executor runs
// one step to completion or partial progress.
package executor

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

// Step is a single action within a plan. Preconditions, BuildEffects, and
// DurationSeconds are pure functions of a Snapshot; ActivityName keys the
// ExecutorRegistry lookup.
type Step struct {
	ActivityName    string
	Actor           types.EntityId
	Target          types.EntityId
	Reservations    []types.Reservation
	Preconditions   func(snap *worldstore.Snapshot) bool
	BuildEffects    func(snap *worldstore.Snapshot) types.EffectBatch
	DurationSeconds func(snap *worldstore.Snapshot) float64
}

// Duration evaluates DurationSeconds against snap, defaulting to 0.
func (s Step) Duration(snap *worldstore.Snapshot) float64 {
	if s.DurationSeconds == nil {
		return 0
	}
	return s.DurationSeconds(snap)
}

// StepKey identifies a step for cooldown/failure-count bookkeeping.
func (s Step) StepKey() string {
	return s.ActivityName + "|" + string(s.Target)
}

// Context carries everything an Executor needs to run one step.
type Context struct {
	Snapshot *worldstore.Snapshot
	Self     types.EntityId
	Rng      *rand.Rand
}

// Executor runs one step. InProgress means the step is not yet ready to
// commit this iteration; the actor will not retry within the same
// iteration (documented open-question decision: preserved as-is).
type Executor interface {
	Run(step Step, ctx Context) (types.ExecutorProgress, types.EffectBatch)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(step Step, ctx Context) (types.ExecutorProgress, types.EffectBatch)

func (f ExecutorFunc) Run(step Step, ctx Context) (types.ExecutorProgress, types.EffectBatch) {
	return f(step, ctx)
}

// Registry resolves an activity name to its Executor. The default
// implementation is a plain table, matching the "tagged union keyed by
// activityName" style the design notes call for instead of per-step
// closures that re-dispatch on behavior.
type Registry struct {
	mu    sync.RWMutex
	table map[string]Executor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string]Executor)}
}

// Register associates an activity name with its Executor, overwriting
// any previous entry for the name.
func (r *Registry) Register(activityName string, e Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[activityName] = e
}

// Resolve looks up the Executor for an activity name.
func (r *Registry) Resolve(activityName string) (Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.table[activityName]
	return e, ok
}

// ErrNoExecutor is returned (via Run's panic-free completion) when no
// executor is registered for step.ActivityName; the caller should treat
// this as equivalent to a failed step, not a fatal error.
type ErrNoExecutor struct {
	ActivityName string
}

func (e *ErrNoExecutor) Error() string {
	return fmt.Sprintf("executor: no executor registered for activity %q", e.ActivityName)
}

// Run resolves step.ActivityName in the registry and runs it. If no
// executor is registered, it returns ProgressCompleted with an empty
// batch and an *ErrNoExecutor error, and logs nothing itself.
func (r *Registry) Run(step Step, ctx Context) (types.ExecutorProgress, types.EffectBatch, error) {
	e, ok := r.Resolve(step.ActivityName)
	if !ok {
		return types.ProgressCompleted, types.EffectBatch{}, &ErrNoExecutor{ActivityName: step.ActivityName}
	}
	progress, batch := e.Run(step, ctx)
	return progress, batch, nil
}
