package main

import (
	"math/rand"

	"github.com/cuemby/goapsim/pkg/executor"
	"github.com/cuemby/goapsim/pkg/planner"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

// demoResource names one of the five gathering activities the demo
// planner rotates an actor through.
type demoResource struct {
	activityName string
	targetId     types.EntityId
	buildOp      func(actor, target types.EntityId) types.EffectBatch
}

var demoResources = []demoResource{
	{activityName: "fish", targetId: fishingSpotId, buildOp: func(actor, target types.EntityId) types.EffectBatch {
		return types.EffectBatch{FishingOps: []types.FishingOp{{Actor: actor, Spot: target}}}
	}},
	{activityName: "harvest-crop", targetId: cropPlotId, buildOp: func(actor, target types.EntityId) types.EffectBatch {
		return types.EffectBatch{CropOps: []types.CropOp{{Actor: actor, Plot: target}}}
	}},
	{activityName: "collect-animal", targetId: animalPenId, buildOp: func(actor, target types.EntityId) types.EffectBatch {
		return types.EffectBatch{AnimalOps: []types.AnimalOp{{Actor: actor, Animal: target}}}
	}},
	{activityName: "mine", targetId: miningNodeId, buildOp: func(actor, target types.EntityId) types.EffectBatch {
		return types.EffectBatch{MiningOps: []types.MiningOp{{Actor: actor, Node: target}}}
	}},
	{activityName: "forage", targetId: foragingSpotId, buildOp: func(actor, target types.EntityId) types.EffectBatch {
		return types.EffectBatch{ForagingOps: []types.ForagingOp{{Actor: actor, Spot: target}}}
	}},
}

// demoPlanner rotates every actor through demoResources, one resource per
// world day, walking to the resource's entity and running its gathering
// step once in range. It stands in for the dataset/behavior-tree driven
// planner the core's Planner interface is a contract for; the planner's
// internal heuristic is intentionally out of the core's scope.
type demoPlanner struct{}

func newDemoPlanner() *demoPlanner {
	return &demoPlanner{}
}

func (p *demoPlanner) Plan(snap *worldstore.Snapshot, actorId types.EntityId, _ float64, _ *rand.Rand) *planner.Plan {
	wt := snap.WorldTime()
	resource := demoResources[(wt.DayOfYear+actorSeed(actorId))%len(demoResources)]

	self, ok := snap.GetThing(actorId)
	if !ok {
		return nil
	}
	target, ok := snap.GetThing(resource.targetId)
	if !ok {
		return nil
	}

	if self.Position != target.Position {
		return &planner.Plan{
			GoalId: "gather:" + resource.activityName,
			Steps: []executor.Step{
				{
					ActivityName: "travel",
					Actor:        actorId,
					Target:       resource.targetId,
					BuildEffects: func(snap *worldstore.Snapshot) types.EffectBatch {
						self, ok := snap.GetThing(actorId)
						if !ok {
							return types.EffectBatch{}
						}
						target, ok := snap.GetThing(resource.targetId)
						if !ok {
							return types.EffectBatch{}
						}
						next, ok := snap.TryFindNextStep(self.Position, target.Position)
						if !ok {
							return types.EffectBatch{}
						}
						return types.EffectBatch{Writes: []types.WriteEntry{
							{Thing: actorId, Attribute: "@move.x", Value: float64(next.X)},
							{Thing: actorId, Attribute: "@move.y", Value: float64(next.Y)},
						}}
					},
				},
			},
		}
	}

	return &planner.Plan{
		GoalId: "gather:" + resource.activityName,
		Steps: []executor.Step{
			{
				ActivityName: resource.activityName,
				Actor:        actorId,
				Target:       resource.targetId,
				Reservations: []types.Reservation{{Thing: resource.targetId, Mode: types.ReservationHard, Priority: 1}},
				DurationSeconds: func(*worldstore.Snapshot) float64 {
					return 1
				},
				BuildEffects: func(*worldstore.Snapshot) types.EffectBatch {
					return resource.buildOp(actorId, resource.targetId)
				},
			},
		},
	}
}

// actorSeed turns an actor id into a small non-negative int so every
// actor's resource rotation is offset from the others.
func actorSeed(id types.EntityId) int {
	h := 0
	for _, r := range id {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}

// demoRegistry wires every demo activity name to the generic
// "run the step's own BuildEffects" executor; only Step carries domain
// logic, matching the pure-function Step shape throughout the package.
func demoRegistry() *executor.Registry {
	r := executor.NewRegistry()
	run := executor.ExecutorFunc(func(s executor.Step, ctx executor.Context) (types.ExecutorProgress, types.EffectBatch) {
		return types.ProgressCompleted, s.BuildEffects(ctx.Snapshot)
	})
	r.Register("travel", run)
	for _, res := range demoResources {
		r.Register(res.activityName, run)
	}
	return r
}
