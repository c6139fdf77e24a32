package quest

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/types"
)

type objectiveKey struct {
	questId     string
	objectiveId string
}

// Definition is the static configuration for one quest objective: the
// progress required to complete it and the rewards paid out exactly once
// on completion.
type Definition struct {
	Required        float64
	RewardInventory []types.InventoryOp
	RewardCurrency  []types.CurrencyOp
}

type actorObjectiveKey struct {
	actor types.EntityId
	objectiveKey
}

// System tracks per-actor objective progress behind a single gate mutex.
// defs is fixed configuration set at construction.
type System struct {
	gate sync.Mutex

	defs     map[objectiveKey]Definition
	progress map[actorObjectiveKey]*types.QuestState
}

// New creates a quest system with the given objective definitions.
func New(defs map[objectiveKey]Definition) *System {
	return &System{
		defs:     defs,
		progress: make(map[actorObjectiveKey]*types.QuestState),
	}
}

// DefKey builds the key used to register a Definition in New's defs map.
func DefKey(questId, objectiveId string) objectiveKey {
	return objectiveKey{questId: questId, objectiveId: objectiveId}
}

// NewDefs returns an empty objective-definition map, keyed by DefKey, for
// callers outside the package that cannot spell objectiveKey directly.
func NewDefs() map[objectiveKey]Definition {
	return make(map[objectiveKey]Definition)
}

// Apply implements effects.QuestSystem. op.Amount is the actor's newly
// observed absolute progress toward the objective; it only ever advances
// stored progress forward, so a replay of an already-recorded value is a
// no-op and pays no reward twice.
func (s *System) Apply(op types.QuestOp) effects.QuestResult {
	s.gate.Lock()
	defer s.gate.Unlock()

	defKey := objectiveKey{questId: op.QuestId, objectiveId: op.ObjectiveId}
	def, ok := s.defs[defKey]
	if !ok {
		return effects.QuestResult{Message: "unknown objective"}
	}

	key := actorObjectiveKey{actor: op.Actor, objectiveKey: defKey}
	state, ok := s.progress[key]
	if !ok {
		state = &types.QuestState{QuestId: op.QuestId, ObjectiveId: op.ObjectiveId, Required: def.Required, Status: types.QuestObjectiveInProgress}
		s.progress[key] = state
	}

	if op.Amount <= state.Progress || state.Status == types.QuestObjectiveComplete {
		return effects.QuestResult{
			Status:            state.Status,
			ObjectiveId:       state.ObjectiveId,
			ObjectiveProgress: state.Progress,
			ObjectiveRequired: state.Required,
		}
	}

	state.Progress = op.Amount
	if state.Progress > state.Required {
		state.Progress = state.Required
	}

	result := effects.QuestResult{
		Status:            types.QuestObjectiveInProgress,
		ObjectiveId:       state.ObjectiveId,
		ObjectiveProgress: state.Progress,
		ObjectiveRequired: state.Required,
	}

	if state.Progress >= state.Required {
		state.Status = types.QuestObjectiveComplete
		result.Status = types.QuestObjectiveComplete
		result.InventoryChanges = def.RewardInventory
		result.CurrencyChanges = def.RewardCurrency
	}
	return result
}

// State is the complete serialized form of a System.
type State struct {
	Progress []ActorObjective
}

// ActorObjective is one serialized actor's progress on one objective.
type ActorObjective struct {
	Actor types.EntityId
	State types.QuestState
}

// CaptureState serializes every actor's objective progress.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{}
	for key, st := range s.progress {
		out.Progress = append(out.Progress, ActorObjective{Actor: key.actor, State: *st})
	}
	return out
}

// ApplyState replaces all tracked progress with state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.progress = make(map[actorObjectiveKey]*types.QuestState)
	for _, ao := range state.Progress {
		st := ao.State
		key := actorObjectiveKey{actor: ao.Actor, objectiveKey: objectiveKey{questId: st.QuestId, objectiveId: st.ObjectiveId}}
		s.progress[key] = &st
	}
}
