// Package planner defines the contract an ActorHost uses to obtain a
// plan. The heuristic behind plan selection is an external collaborator;
// only this interface matters to the simulation core.
package planner

import (
	"math/rand"

	"github.com/cuemby/goapsim/pkg/executor"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

// Plan is an ordered sequence of steps pursuing a named goal. An empty
// Plan (zero steps) is valid and distinct from a nil *Plan ("no
// applicable goal").
type Plan struct {
	GoalId string
	Steps  []executor.Step
}

// NextStepWhosePreconditionsHold returns the first step (in order) whose
// preconditions currently hold against snap, or false if none do.
func (p *Plan) NextStepWhosePreconditionsHold(snap *worldstore.Snapshot) (executor.Step, int, bool) {
	for i, step := range p.Steps {
		if step.Preconditions == nil || step.Preconditions(snap) {
			return step, i, true
		}
	}
	return executor.Step{}, -1, false
}

// Planner produces a Plan for one actor given a world snapshot. A nil
// result means "no applicable goal this iteration."
type Planner interface {
	Plan(snap *worldstore.Snapshot, actorId types.EntityId, priorityJitterRange float64, rng *rand.Rand) *Plan
}
