package skill

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/types"
)

type actorSkillKey struct {
	actor   types.EntityId
	skillId string
}

// LevelResult is what a GrantXp call produced for one (actor, skill) pair.
type LevelResult struct {
	LeveledUp bool
	NewLevel  int
}

// System tracks per-actor, per-skill experience and level under a single
// gate mutex. Thresholds is a shared, ascending cumulative-XP table: level
// N is reached once experience >= Thresholds[N-2] (level 1 needs no XP).
type System struct {
	gate sync.Mutex

	thresholds []float64
	progress   map[actorSkillKey]*types.SkillProgress
}

// New creates a skill system with the given level thresholds (cumulative
// experience required to reach level 2, 3, 4, ...).
func New(thresholds []float64) *System {
	return &System{
		thresholds: thresholds,
		progress:   make(map[actorSkillKey]*types.SkillProgress),
	}
}

func (s *System) levelFor(experience float64) int {
	level := 1
	for _, t := range s.thresholds {
		if experience < t {
			break
		}
		level++
	}
	return level
}

// GrantXp implements effects.SkillSystem. xp <= 0 is ignored.
func (s *System) GrantXp(actor types.EntityId, skillId string, xp float64) {
	s.grantXp(actor, skillId, xp)
}

// GrantXpDetailed behaves like GrantXp but also reports whether the grant
// crossed a level threshold.
func (s *System) GrantXpDetailed(actor types.EntityId, skillId string, xp float64) LevelResult {
	return s.grantXp(actor, skillId, xp)
}

func (s *System) grantXp(actor types.EntityId, skillId string, xp float64) LevelResult {
	if xp <= 0 {
		return LevelResult{}
	}
	s.gate.Lock()
	defer s.gate.Unlock()

	key := actorSkillKey{actor: actor, skillId: skillId}
	p, ok := s.progress[key]
	if !ok {
		p = &types.SkillProgress{SkillId: skillId, Level: 1}
		s.progress[key] = p
	}
	oldLevel := p.Level
	p.Experience += xp
	p.Level = s.levelFor(p.Experience)

	return LevelResult{LeveledUp: p.Level > oldLevel, NewLevel: p.Level}
}

// Progress returns the current progress for an (actor, skill) pair.
func (s *System) Progress(actor types.EntityId, skillId string) types.SkillProgress {
	s.gate.Lock()
	defer s.gate.Unlock()

	key := actorSkillKey{actor: actor, skillId: skillId}
	if p, ok := s.progress[key]; ok {
		return *p
	}
	return types.SkillProgress{SkillId: skillId, Level: 1}
}

// State is the complete serialized form of a System.
type State struct {
	Progress []ActorSkill
}

// ActorSkill is one serialized (actor, skill) progress record.
type ActorSkill struct {
	Actor    types.EntityId
	Progress types.SkillProgress
}

// CaptureState serializes every actor's skill progress.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{}
	for key, p := range s.progress {
		out.Progress = append(out.Progress, ActorSkill{Actor: key.actor, Progress: *p})
	}
	return out
}

// ApplyState replaces all tracked progress with state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.progress = make(map[actorSkillKey]*types.SkillProgress)
	for _, as := range state.Progress {
		p := as.Progress
		s.progress[actorSkillKey{actor: as.Actor, skillId: as.Progress.SkillId}] = &p
	}
}
