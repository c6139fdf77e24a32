package actorhost

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/executor"
	"github.com/cuemby/goapsim/pkg/log"
	"github.com/cuemby/goapsim/pkg/planner"
	"github.com/cuemby/goapsim/pkg/reservation"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

// sleepSlice bounds every interruptible wait in the loop: a requestStop
// during a longer sleep is observed within this many milliseconds.
const sleepSlice = 5 * time.Millisecond

// ScheduleEvaluator is the optional schedule collaborator; a Host with a
// nil Schedule simply skips 4.3.1 schedule evaluation every iteration.
type ScheduleEvaluator interface {
	Evaluate(snap *worldstore.Snapshot, actorId types.EntityId) types.ScheduleEvaluation
}

// Config wires a Host to its collaborators. Self, World, Planner,
// Registry and Reservations are required. Dispatcher, Schedule and Log
// are optional (nil skips that collaborator); a nil Rng is replaced by a
// time-seeded source and a non-positive LoopFrequencyHz by 20.
type Config struct {
	Self         types.EntityId
	World        *worldstore.WorldStore
	Planner      planner.Planner
	Registry     *executor.Registry
	Reservations *reservation.Service
	Dispatcher   *effects.Dispatcher
	Schedule     ScheduleEvaluator
	Log          Logger

	Rng                 *rand.Rand
	LoopFrequencyHz     float64
	PriorityJitterRange float64
}

// Logger is the structured-event sink a Host writes to; satisfied by
// *worldlog.PerActorLogger.
type Logger interface {
	Event(eventType string, fields map[string]string)
}

// Host owns one actor's loop goroutine, its private RNG, and its
// cooldown/failure bookkeeping.
type Host struct {
	cfg            Config
	loopInterval   time.Duration
	zl             zerolog.Logger

	stateMu                   sync.Mutex
	reservationFailureCounts  map[string]int32
	reservationCooldownUntil  map[string]time.Time
	planCooldownUntil         map[string]time.Time

	statusMu sync.Mutex
	status   types.ActorPlanStatus

	currentGoalId    string
	goalStartUtc     time.Time
	lastPlanSummary  string
	lastScheduleBlockKey string
	lateLogged       bool

	worldTimeMu  sync.Mutex
	worldTimeStr string

	stopCh  chan struct{}
	stopped chan struct{}
}

// New creates a Host that has not yet started its loop goroutine.
func New(cfg Config) *Host {
	if cfg.LoopFrequencyHz <= 0 {
		cfg.LoopFrequencyHz = 20
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Host{
		cfg:                      cfg,
		loopInterval:             time.Duration(1000/cfg.LoopFrequencyHz) * time.Millisecond,
		zl:                       log.WithActorID(string(cfg.Self)),
		reservationFailureCounts: make(map[string]int32),
		reservationCooldownUntil: make(map[string]time.Time),
		planCooldownUntil:        make(map[string]time.Time),
		status:                   types.ActorPlanStatus{ActorId: cfg.Self, State: types.StateInitializing},
		stopCh:                   make(chan struct{}),
		stopped:                  make(chan struct{}),
	}
}

// Start launches the loop goroutine. It must be called at most once.
func (h *Host) Start() {
	go h.run()
}

// RequestStop asks the loop to exit at the next slice boundary.
func (h *Host) RequestStop() {
	select {
	case <-h.stopCh:
	default:
		close(h.stopCh)
	}
}

// FinishStop blocks until the loop goroutine has exited, recording the
// in-flight goal's duration (if any) and setting status to stopped.
func (h *Host) FinishStop() {
	<-h.stopped
	if h.currentGoalId != "" {
		h.event("GOAL", map[string]string{
			"goal":            h.currentGoalId,
			"duration_seconds": fmt.Sprintf("%.3f", time.Since(h.goalStartUtc).Seconds()),
		})
	}
	h.statusMu.Lock()
	h.status.State = types.StateStopped
	h.status.UpdatedUtc = time.Now().UTC()
	h.statusMu.Unlock()
}

// Status returns a snapshot of this actor's current diagnostic state.
func (h *Host) Status() types.ActorPlanStatus {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()
	return h.status
}

func (h *Host) run() {
	defer close(h.stopped)
	defer func() {
		if r := recover(); r != nil {
			log.WithWorldTime(h.lastWorldTimeString()).Error().
				Interface("panic", r).
				Str("actor_id", string(h.cfg.Self)).
				Msg("actor loop unhandled panic")
			panic(r)
		}
	}()

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}
		h.iterate()
	}
}

func (h *Host) lastWorldTimeString() string {
	h.worldTimeMu.Lock()
	defer h.worldTimeMu.Unlock()
	if h.worldTimeStr == "" {
		return "unknown"
	}
	return h.worldTimeStr
}

func (h *Host) iterate() {
	loopStart := time.Now()

	snap := h.cfg.World.Snapshot()
	wt := snap.WorldTime()
	worldTimeStr := formatWorldTime(wt)
	h.worldTimeMu.Lock()
	h.worldTimeStr = worldTimeStr
	h.worldTimeMu.Unlock()

	h.evaluateSchedule(snap)

	plan := h.cfg.Planner.Plan(snap, h.cfg.Self, h.cfg.PriorityJitterRange, h.cfg.Rng)
	h.trackGoal(plan)

	if plan == nil {
		h.setState(types.StateNoPlan)
		h.sleepFixed(20 * time.Millisecond)
		h.throttle(loopStart)
		return
	}

	summary := planSummary(plan)
	if summary != h.lastPlanSummary {
		h.lastPlanSummary = summary
		h.event("PLAN", map[string]string{
			"actor": string(h.cfg.Self),
			"goal":  plan.GoalId,
			"plan":  summary,
		})
	}

	if len(plan.Steps) == 0 {
		h.setState(types.StatePlanEmpty)
		h.sleepFixed(20 * time.Millisecond)
		h.throttle(loopStart)
		return
	}

	step, idx, ok := plan.NextStepWhosePreconditionsHold(snap)
	if !ok {
		h.setState(types.StateWaitingPreconditions)
		h.sleepFixed(15 * time.Millisecond)
		h.throttle(loopStart)
		return
	}
	h.setStep(plan.GoalId, summary, idx)

	durSec := step.Duration(snap)
	stepKey := step.StepKey()

	if h.cooldownActive(stepKey) {
		h.setState(types.StateCooldown)
		for h.cooldownActive(stepKey) {
			if h.sleepSlice() {
				h.throttle(loopStart)
				return
			}
		}
	}

	planId := uuid.NewString()
	if !h.cfg.Reservations.TryAcquireAll(step.Reservations, planId, h.cfg.Self) {
		h.setState(types.StateReservationFailed)
		h.stateMu.Lock()
		h.reservationFailureCounts[stepKey]++
		failures := h.reservationFailureCounts[stepKey]
		if failures >= 3 {
			backoff := time.Duration(40+h.cfg.Rng.Intn(81)) * time.Millisecond
			h.reservationCooldownUntil[stepKey] = time.Now().Add(backoff)
			h.reservationFailureCounts[stepKey] = 0
		}
		h.stateMu.Unlock()

		h.event("reservation_failed", map[string]string{"step": stepKey})
		h.zl.Debug().Str("step", stepKey).Int32("failures", failures).Msg("reservation acquire failed")
		h.sleepFixed(time.Duration(5+h.cfg.Rng.Intn(21)) * time.Millisecond)
		h.throttle(loopStart)
		return
	}

	h.stateMu.Lock()
	h.reservationFailureCounts[stepKey] = 0
	delete(h.reservationCooldownUntil, stepKey)
	h.stateMu.Unlock()

	defer func() {
		h.cfg.Reservations.ReleaseAll(step.Reservations, planId, h.cfg.Self)
		h.event("end", map[string]string{"step": stepKey})
	}()

	if durSec > 0 {
		h.setState(types.StateDurationWait)
		deadline := time.Now().Add(time.Duration(durSec * float64(time.Second)))
		for time.Now().Before(deadline) {
			if h.sleepSlice() {
				h.throttle(loopStart)
				return
			}
		}
	}

	h.setState(types.StateExecutingStep)
	progress, batch, err := h.cfg.Registry.Run(step, executor.Context{
		Snapshot: snap,
		Self:     h.cfg.Self,
		Rng:      h.cfg.Rng,
	})
	if err != nil {
		h.event("execution_result", map[string]string{"step": stepKey, "error": err.Error()})
		h.throttle(loopStart)
		return
	}

	if progress == types.ProgressCompleted {
		result := h.cfg.World.TryCommit(batch)
		switch result {
		case types.Conflict:
			h.event("commit_conflict", map[string]string{"step": stepKey})
			h.zl.Debug().Str("step", stepKey).Msg("commit conflict, next cycle will re-plan")
		case types.Committed:
			h.event("commit_success", map[string]string{"step": stepKey})
			if h.cfg.Dispatcher != nil {
				h.cfg.Dispatcher.Dispatch(batch)
			}
			h.registerPlanCooldowns(step, batch, durSec)
		}
	} else {
		h.event("execution_result", map[string]string{"step": stepKey, "progress": string(progress)})
	}

	h.throttle(loopStart)
}

// registerPlanCooldowns implements 4.3.2: seconds = max(requested,
// useStepDuration ? durSec : 0); if > 0, gate cooldownKey.
func (h *Host) registerPlanCooldowns(step executor.Step, batch types.EffectBatch, durSec float64) {
	now := time.Now()
	for _, req := range batch.PlanCooldowns {
		seconds := req.Seconds
		if req.UseStepDuration && durSec > seconds {
			seconds = durSec
		}
		if seconds <= 0 {
			continue
		}
		scope := req.Scope
		if scope == "" {
			scope = step.Target
		}
		key := cooldownKey(step.ActivityName, scope)
		h.stateMu.Lock()
		h.planCooldownUntil[key] = now.Add(time.Duration(seconds * float64(time.Second)))
		h.stateMu.Unlock()
	}
}

func cooldownKey(activityName string, scope types.EntityId) string {
	return activityName + "|" + string(scope)
}

func (h *Host) cooldownActive(stepKey string) bool {
	now := time.Now()
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	if until, ok := h.reservationCooldownUntil[stepKey]; ok && until.After(now) {
		return true
	}
	if until, ok := h.planCooldownUntil[stepKey]; ok && until.After(now) {
		return true
	}
	return false
}

func (h *Host) evaluateSchedule(snap *worldstore.Snapshot) {
	if h.cfg.Schedule == nil {
		return
	}
	eval := h.cfg.Schedule.Evaluate(snap, h.cfg.Self)
	blockKey := eval.EffectiveTask + "|" + string(eval.TargetId) + "|" + eval.ActiveEventId

	if !eval.HasActiveBlock {
		if h.lastScheduleBlockKey != "" {
			h.event("SCHEDULE", map[string]string{"phase": "end", "actor": string(h.cfg.Self)})
		}
		h.lastScheduleBlockKey = ""
		h.lateLogged = false
		return
	}

	if blockKey != h.lastScheduleBlockKey {
		h.lastScheduleBlockKey = blockKey
		h.lateLogged = false
		h.event("SCHEDULE", map[string]string{
			"phase":  "start",
			"actor":  string(h.cfg.Self),
			"task":   eval.EffectiveTask,
			"target": string(eval.TargetId),
		})
	}

	if thing, ok := snap.GetThing(eval.TargetId); ok && thing.Building != nil {
		openState := "closed"
		if thing.Building.OpenFlag {
			openState = "open"
		}
		h.event("SCHEDULE", map[string]string{"phase": openState, "target": string(eval.TargetId)})
	}

	if !h.lateLogged && eval.MinutesIntoBlock > 10 {
		if self, ok := snap.GetThing(h.cfg.Self); ok {
			if target, ok := snap.GetThing(eval.TargetId); ok {
				if self.Position.ManhattanDistance(target.Position) > 2 {
					h.lateLogged = true
					h.event("SCHEDULE", map[string]string{
						"phase":  "late",
						"actor":  string(h.cfg.Self),
						"target": string(eval.TargetId),
					})
				}
			}
		}
	}
}

func (h *Host) trackGoal(plan *planner.Plan) {
	goalId := ""
	if plan != nil {
		goalId = plan.GoalId
	}
	if goalId == h.currentGoalId {
		return
	}
	if h.currentGoalId != "" {
		h.event("GOAL", map[string]string{
			"goal":            h.currentGoalId,
			"duration_seconds": fmt.Sprintf("%.3f", time.Since(h.goalStartUtc).Seconds()),
		})
	}
	h.currentGoalId = goalId
	h.goalStartUtc = time.Now()
}

func (h *Host) setState(state types.ActorLoopState) {
	h.statusMu.Lock()
	h.status.State = state
	h.status.UpdatedUtc = time.Now().UTC()
	h.statusMu.Unlock()
}

func (h *Host) setStep(goalId, summary string, idx int) {
	h.statusMu.Lock()
	h.status.State = types.StatePlanSelected
	h.status.GoalId = goalId
	h.status.PlanSummary = summary
	h.status.CurrentStep = idx
	h.status.UpdatedUtc = time.Now().UTC()
	h.statusMu.Unlock()
}

// sleepSlice sleeps one interruptible slice, returning true if stopCh
// fired during (or before) the sleep.
func (h *Host) sleepSlice() bool {
	select {
	case <-h.stopCh:
		return true
	case <-time.After(sleepSlice):
		return false
	}
}

// sleepFixed sleeps d in slices no longer than sleepSlice, honoring
// stopCh; it always returns once d elapses or stop fires.
func (h *Host) sleepFixed(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if h.sleepSlice() {
			return
		}
	}
}

func (h *Host) throttle(loopStart time.Time) {
	elapsed := time.Since(loopStart)
	if elapsed < h.loopInterval {
		h.sleepFixed(h.loopInterval - elapsed)
	}
}

func (h *Host) event(eventType string, fields map[string]string) {
	if h.cfg.Log == nil {
		return
	}
	h.cfg.Log.Event(eventType, fields)
}

func planSummary(p *planner.Plan) string {
	s := p.GoalId
	for _, step := range p.Steps {
		s += "|" + step.ActivityName
		if step.Target != "" {
			s += "->" + string(step.Target)
		}
	}
	return s
}

func formatWorldTime(wt types.WorldTime) string {
	hour := int(wt.TimeOfDay)
	minute := int((wt.TimeOfDay - float64(hour)) * 60)
	return fmt.Sprintf("%s.%d.%02d:%02d", wt.SeasonName, wt.DayOfMonth, hour, minute)
}
