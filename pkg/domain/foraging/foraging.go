package foraging

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/domain/internal/detrand"
	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/types"
)

// CatchEntry is one row of a spot's weighted find table.
type CatchEntry struct {
	ItemId         string
	Weight         float64
	MinQuantity    int
	MaxQuantity    int
	MinGathers     int
	MaxGathers     int
	AllowedSeasons map[string]bool // empty means every season
	AllowedWeather map[string]bool // empty means every weather state
	SkillId        string
	SkillXp        float64
	RespawnHours   float64
}

func (c CatchEntry) validFor(season, weather string) bool {
	if len(c.AllowedSeasons) > 0 && !c.AllowedSeasons[season] {
		return false
	}
	if len(c.AllowedWeather) > 0 && !c.AllowedWeather[weather] {
		return false
	}
	return true
}

type spotState struct {
	active         bool
	activeCatchIdx int
	nextRespawnDay int
	remainingCasts int
}

// Spot is one serialized foraging spot.
type Spot struct {
	Id             types.EntityId
	Active         bool
	ActiveCatchIdx int
	NextRespawnDay int
	RemainingCasts int
}

// State is the complete serialized form of a System.
type State struct {
	Spots []Spot
	Rng   detrand.State
}

// System holds every foraging spot behind a single gate mutex; catchTable
// and maxActiveSpots are fixed configuration set at construction.
type System struct {
	gate sync.Mutex

	catchTable     []CatchEntry
	maxActiveSpots int
	rng            *detrand.Source
	currentDay     int

	spots map[types.EntityId]*spotState
}

// New creates a foraging system with the given find table, active-spot
// cap, and RNG seed.
func New(catchTable []CatchEntry, maxActiveSpots int, seed int64) *System {
	return &System{
		catchTable:     catchTable,
		maxActiveSpots: maxActiveSpots,
		rng:            detrand.New(seed),
		spots:          make(map[types.EntityId]*spotState),
	}
}

// RegisterSpot adds a new dormant spot.
func (s *System) RegisterSpot(id types.EntityId) {
	s.gate.Lock()
	defer s.gate.Unlock()
	s.spots[id] = &spotState{activeCatchIdx: -1}
}

// Tick re-validates active spots against the current season/weather and
// tries to activate dormant spots once their respawn day has passed.
func (s *System) Tick(currentDay int, season, weather string) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.currentDay = currentDay
	activeCount := 0
	for _, spot := range s.spots {
		if spot.active {
			activeCount++
		}
	}

	for _, spot := range s.spots {
		if spot.active {
			catch := s.catchTable[spot.activeCatchIdx]
			if !catch.validFor(season, weather) {
				s.deactivate(spot, catch, currentDay)
				activeCount--
			}
			continue
		}

		if currentDay < spot.nextRespawnDay || activeCount >= s.maxActiveSpots {
			continue
		}
		idx, ok := s.chooseCatch(season, weather)
		if !ok {
			continue
		}
		catch := s.catchTable[idx]
		spot.active = true
		spot.activeCatchIdx = idx
		spot.remainingCasts = s.rng.IntRange(catch.MinGathers, catch.MaxGathers)
		activeCount++
	}
	return nil
}

func (s *System) deactivate(spot *spotState, catch CatchEntry, currentDay int) {
	spot.active = false
	spot.activeCatchIdx = -1
	spot.nextRespawnDay = currentDay + int(catch.RespawnHours/24.0)
}

func (s *System) chooseCatch(season, weather string) (int, bool) {
	var totalWeight float64
	var candidates []int
	for i, c := range s.catchTable {
		if c.validFor(season, weather) {
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

// Apply resolves one gather. The spot must be active.
func (s *System) Apply(op types.ForagingOp) effects.ResourceOpResult {
	s.gate.Lock()
	defer s.gate.Unlock()

	spot, ok := s.spots[op.Spot]
	if !ok || !spot.active {
		return effects.ResourceOpResult{Message: "no active spot"}
	}
	catch := s.catchTable[spot.activeCatchIdx]

	qty := s.rng.IntRange(catch.MinQuantity, catch.MaxQuantity)
	change := types.InventoryOp{Owner: op.Actor, ItemId: catch.ItemId, Quantity: qty, Remove: false}

	spot.remainingCasts--
	if spot.remainingCasts <= 0 {
		spot.active = false
		spot.nextRespawnDay = s.currentDay + int(catch.RespawnHours/24.0)
		spot.activeCatchIdx = -1
	}

	return effects.ResourceOpResult{
		Success:          true,
		InventoryChanges: []types.InventoryOp{change},
		SkillId:          catch.SkillId,
		SkillXp:          catch.SkillXp,
	}
}

// CaptureState serializes every spot and the RNG stream position.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{Rng: s.rng.CaptureState()}
	for id, spot := range s.spots {
		out.Spots = append(out.Spots, Spot{
			Id:             id,
			Active:         spot.active,
			ActiveCatchIdx: spot.activeCatchIdx,
			NextRespawnDay: spot.nextRespawnDay,
			RemainingCasts: spot.remainingCasts,
		})
	}
	return out
}

// ApplyState replaces the system's spots and RNG stream position with
// state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.rng.ApplyState(state.Rng)
	s.spots = make(map[types.EntityId]*spotState)
	for _, spot := range state.Spots {
		s.spots[spot.Id] = &spotState{
			active:         spot.Active,
			activeCatchIdx: spot.ActiveCatchIdx,
			nextRespawnDay: spot.NextRespawnDay,
			remainingCasts: spot.RemainingCasts,
		}
	}
}
