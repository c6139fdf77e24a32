package animal

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/domain/internal/detrand"
	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/types"
)

// CatchEntry is one row of an animal's weighted product table.
type CatchEntry struct {
	ItemId         string
	Weight         float64
	MinQuantity    int
	MaxQuantity    int
	MinCollections int
	MaxCollections int
	AllowedSeasons map[string]bool // empty means every season
	SkillId        string
	SkillXp        float64
	RegrowDays     float64
}

func (c CatchEntry) validFor(season string) bool {
	if len(c.AllowedSeasons) > 0 && !c.AllowedSeasons[season] {
		return false
	}
	return true
}

type animalState struct {
	active         bool
	activeCatchIdx int
	nextRespawnDay int
	remainingCasts int
}

// Animal is one serialized animal.
type Animal struct {
	Id             types.EntityId
	Active         bool
	ActiveCatchIdx int
	NextRespawnDay int
	RemainingCasts int
}

// State is the complete serialized form of a System.
type State struct {
	Animals []Animal
	Rng     detrand.State
}

// System holds every animal behind a single gate mutex; catchTable and
// maxActiveAnimals are fixed configuration set at construction.
type System struct {
	gate sync.Mutex

	catchTable       []CatchEntry
	maxActiveAnimals int
	rng              *detrand.Source
	currentDay       int

	animals map[types.EntityId]*animalState
}

// New creates an animal system with the given product table, active-animal
// cap, and RNG seed.
func New(catchTable []CatchEntry, maxActiveAnimals int, seed int64) *System {
	return &System{
		catchTable:       catchTable,
		maxActiveAnimals: maxActiveAnimals,
		rng:              detrand.New(seed),
		animals:          make(map[types.EntityId]*animalState),
	}
}

// RegisterAnimal adds a new not-yet-ready animal.
func (s *System) RegisterAnimal(id types.EntityId) {
	s.gate.Lock()
	defer s.gate.Unlock()
	s.animals[id] = &animalState{activeCatchIdx: -1}
}

// Tick re-validates active animals against the current season and tries to
// ready not-yet-ready animals once their regrowth day has passed.
func (s *System) Tick(currentDay int, season string) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.currentDay = currentDay
	activeCount := 0
	for _, a := range s.animals {
		if a.active {
			activeCount++
		}
	}

	for _, a := range s.animals {
		if a.active {
			catch := s.catchTable[a.activeCatchIdx]
			if !catch.validFor(season) {
				s.deactivate(a, catch, currentDay)
				activeCount--
			}
			continue
		}

		if currentDay < a.nextRespawnDay || activeCount >= s.maxActiveAnimals {
			continue
		}
		idx, ok := s.chooseCatch(season)
		if !ok {
			continue
		}
		catch := s.catchTable[idx]
		a.active = true
		a.activeCatchIdx = idx
		a.remainingCasts = s.rng.IntRange(catch.MinCollections, catch.MaxCollections)
		activeCount++
	}
	return nil
}

func (s *System) deactivate(a *animalState, catch CatchEntry, currentDay int) {
	a.active = false
	a.activeCatchIdx = -1
	a.nextRespawnDay = currentDay + int(catch.RegrowDays)
}

func (s *System) chooseCatch(season string) (int, bool) {
	var totalWeight float64
	var candidates []int
	for i, c := range s.catchTable {
		if c.validFor(season) {
			candidates = append(candidates, i)
			totalWeight += c.Weight
		}
	}
	if totalWeight <= 0 {
		return 0, false
	}
	roll := s.rng.Float64() * totalWeight
	for _, idx := range candidates {
		roll -= s.catchTable[idx].Weight
		if roll <= 0 {
			return idx, true
		}
	}
	return candidates[len(candidates)-1], true
}

// Apply resolves one collection. The animal must be ready.
func (s *System) Apply(op types.AnimalOp) effects.ResourceOpResult {
	s.gate.Lock()
	defer s.gate.Unlock()

	a, ok := s.animals[op.Animal]
	if !ok || !a.active {
		return effects.ResourceOpResult{Message: "animal not ready"}
	}
	catch := s.catchTable[a.activeCatchIdx]

	qty := s.rng.IntRange(catch.MinQuantity, catch.MaxQuantity)
	change := types.InventoryOp{Owner: op.Actor, ItemId: catch.ItemId, Quantity: qty, Remove: false}

	a.remainingCasts--
	if a.remainingCasts <= 0 {
		a.active = false
		a.nextRespawnDay = s.currentDay + int(catch.RegrowDays)
		a.activeCatchIdx = -1
	}

	return effects.ResourceOpResult{
		Success:          true,
		InventoryChanges: []types.InventoryOp{change},
		SkillId:          catch.SkillId,
		SkillXp:          catch.SkillXp,
	}
}

// CaptureState serializes every animal and the RNG stream position.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{Rng: s.rng.CaptureState()}
	for id, a := range s.animals {
		out.Animals = append(out.Animals, Animal{
			Id:             id,
			Active:         a.active,
			ActiveCatchIdx: a.activeCatchIdx,
			NextRespawnDay: a.nextRespawnDay,
			RemainingCasts: a.remainingCasts,
		})
	}
	return out
}

// ApplyState replaces the system's animals and RNG stream position with
// state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.rng.ApplyState(state.Rng)
	s.animals = make(map[types.EntityId]*animalState)
	for _, a := range state.Animals {
		s.animals[a.Id] = &animalState{
			active:         a.Active,
			activeCatchIdx: a.ActiveCatchIdx,
			nextRespawnDay: a.NextRespawnDay,
			remainingCasts: a.RemainingCasts,
		}
	}
}
