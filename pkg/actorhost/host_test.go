package actorhost

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/executor"
	"github.com/cuemby/goapsim/pkg/planner"
	"github.com/cuemby/goapsim/pkg/reservation"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

type fixedPlanner struct {
	plan *planner.Plan
}

func (f *fixedPlanner) Plan(_ *worldstore.Snapshot, _ types.EntityId, _ float64, _ *rand.Rand) *planner.Plan {
	return f.plan
}

type recordingLogger struct {
	events []string
}

func (r *recordingLogger) Event(eventType string, _ map[string]string) {
	r.events = append(r.events, eventType)
}

func newTestHost(t *testing.T, step executor.Step, reservations *reservation.Service) (*Host, *recordingLogger) {
	t.Helper()
	world := worldstore.NewWorldStore(worldstore.Config{Width: 5, Height: 5, ShardCount: 2})
	logger := &recordingLogger{}
	p := &fixedPlanner{plan: &planner.Plan{GoalId: "goal", Steps: []executor.Step{step}}}

	h := New(Config{
		Self:                "actor-a",
		World:                world,
		Planner:              p,
		Registry:             executor.NewRegistry(),
		Reservations:         reservations,
		Log:                  logger,
		Rng:                  rand.New(rand.NewSource(1)),
		LoopFrequencyHz:      1000,
		PriorityJitterRange:  0,
	})
	return h, logger
}

func TestReservationBackoffSetsCooldownAfterThreeFailures(t *testing.T) {
	reservations := reservation.New(zerolog.Nop())
	require.True(t, reservations.TryAcquireAll([]types.Reservation{{Thing: "t", Mode: types.ReservationHard}}, "other-plan", "actor-b"))

	step := executor.Step{
		ActivityName:  "chop",
		Actor:         "actor-a",
		Target:        "t",
		Reservations:  []types.Reservation{{Thing: "t", Mode: types.ReservationHard}},
		Preconditions: func(*worldstore.Snapshot) bool { return true },
	}
	h, logger := newTestHost(t, step, reservations)

	before := time.Now()
	for i := 0; i < 3; i++ {
		h.iterate()
	}

	stepKey := step.StepKey()
	h.stateMu.Lock()
	failures := h.reservationFailureCounts[stepKey]
	cooldownUntil, hasCooldown := h.reservationCooldownUntil[stepKey]
	h.stateMu.Unlock()

	assert.Equal(t, int32(0), failures, "failure count resets to 0 once the cooldown is set")
	require.True(t, hasCooldown)
	assert.True(t, cooldownUntil.After(before), "cooldown must be set in the future")
	assert.True(t, cooldownUntil.Before(before.Add(500*time.Millisecond)), "cooldown must be bounded by the 40-120ms backoff window plus loop jitter")
	assert.Contains(t, logger.events, "reservation_failed")
}

func TestCommittedStepDispatchesAndReleasesReservations(t *testing.T) {
	reservations := reservation.New(zerolog.Nop())
	world := worldstore.NewWorldStore(worldstore.Config{Width: 5, Height: 5, ShardCount: 2})
	require.Equal(t, types.Committed, world.TryCommit(types.EffectBatch{
		Spawns: []types.SpawnEntry{{Id: "t", Type: "resource"}},
	}))

	step := executor.Step{
		ActivityName:  "gather",
		Actor:         "actor-a",
		Target:        "t",
		Reservations:  []types.Reservation{{Thing: "t", Mode: types.ReservationHard}},
		Preconditions: func(*worldstore.Snapshot) bool { return true },
		BuildEffects: func(snap *worldstore.Snapshot) types.EffectBatch {
			return types.EffectBatch{
				Writes: []types.WriteEntry{{Thing: "t", Attribute: "touched", Value: 1}},
			}
		},
	}
	registry := executor.NewRegistry()
	registry.Register("gather", executor.ExecutorFunc(func(s executor.Step, ctx executor.Context) (types.ExecutorProgress, types.EffectBatch) {
		return types.ProgressCompleted, s.BuildEffects(ctx.Snapshot)
	}))

	logger := &recordingLogger{}
	p := &fixedPlanner{plan: &planner.Plan{GoalId: "goal", Steps: []executor.Step{step}}}
	h := New(Config{
		Self:            "actor-a",
		World:           world,
		Planner:         p,
		Registry:        registry,
		Reservations:    reservations,
		Log:             logger,
		Rng:             rand.New(rand.NewSource(1)),
		LoopFrequencyHz: 1000,
	})

	h.iterate()

	snap := world.Snapshot()
	ent, ok := snap.GetThing("t")
	require.True(t, ok)
	assert.Equal(t, 1.0, ent.Attribute("touched"))
	assert.False(t, reservations.HasActiveReservation("t", "someone-else"), "hard reservation must be released after commit")
	assert.Contains(t, logger.events, "commit_success")
}

func TestFinishStopRecordsInFlightGoalDuration(t *testing.T) {
	reservations := reservation.New(zerolog.Nop())
	step := executor.Step{
		ActivityName:  "gather",
		Actor:         "actor-a",
		Target:        "t",
		Preconditions: func(*worldstore.Snapshot) bool { return true },
		BuildEffects:  func(*worldstore.Snapshot) types.EffectBatch { return types.EffectBatch{} },
	}
	h, logger := newTestHost(t, step, reservations)

	h.iterate()
	require.Equal(t, "goal", h.currentGoalId, "iterate must have tracked the plan's goal before shutdown")

	close(h.stopped)
	h.FinishStop()

	assert.Contains(t, logger.events, "GOAL", "an in-flight goal's duration must be recorded at shutdown")
	assert.Equal(t, types.StateStopped, h.Status().State)
}
