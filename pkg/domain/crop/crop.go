package crop

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/domain/internal/detrand"
	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/types"
)

// CatchEntry is one row of a plot's weighted harvest table.
type CatchEntry struct {
	ItemId         string
	Weight         float64
	MinQuantity    int
	MaxQuantity    int
	MinHarvests    int
	MaxHarvests    int
	AllowedSeasons map[string]bool // empty means every season
	AllowedWeather map[string]bool // empty means every weather state
	SkillId        string
	SkillXp        float64
	RegrowDays     float64
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

type plotState struct {
	active         bool
	activeCatchIdx int
	nextRespawnDay int
	remainingCasts int
}

// Plot is one serialized crop plot.
type Plot struct {
	Id             types.EntityId
	Active         bool
	ActiveCatchIdx int
	NextRespawnDay int
	RemainingCasts int
}

// State is the complete serialized form of a System.
type State struct {
	Plots []Plot
	Rng   detrand.State
}

// System holds every crop plot behind a single gate mutex; catchTable and
// maxActivePlots are fixed configuration set at construction.
type System struct {
	gate sync.Mutex

	catchTable     []CatchEntry
	maxActivePlots int
	rng            *detrand.Source
	currentDay     int

	plots map[types.EntityId]*plotState
}

// New creates a crop system with the given harvest table, active-plot cap,
// and RNG seed.
func New(catchTable []CatchEntry, maxActivePlots int, seed int64) *System {
	return &System{
		catchTable:     catchTable,
		maxActivePlots: maxActivePlots,
		rng:            detrand.New(seed),
		plots:          make(map[types.EntityId]*plotState),
	}
}

// RegisterPlot adds a new fallow plot.
func (s *System) RegisterPlot(id types.EntityId) {
	s.gate.Lock()
	defer s.gate.Unlock()
	s.plots[id] = &plotState{activeCatchIdx: -1}
}

// Tick re-validates active plots against the current season/weather and
// tries to ripen fallow plots once their regrowth day has passed.
func (s *System) Tick(currentDay int, season, weather string) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.currentDay = currentDay
	activeCount := 0
	for _, plot := range s.plots {
		if plot.active {
			activeCount++
		}
	}

	for _, plot := range s.plots {
		if plot.active {
			catch := s.catchTable[plot.activeCatchIdx]
			if !catch.validFor(season, weather) {
				s.deactivate(plot, catch, currentDay)
				activeCount--
			}
			continue
		}

		if currentDay < plot.nextRespawnDay || activeCount >= s.maxActivePlots {
			continue
		}
		idx, ok := s.chooseCatch(season, weather)
		if !ok {
			continue
		}
		catch := s.catchTable[idx]
		plot.active = true
		plot.activeCatchIdx = idx
		plot.remainingCasts = s.rng.IntRange(catch.MinHarvests, catch.MaxHarvests)
		activeCount++
	}
	return nil
}

func (s *System) deactivate(plot *plotState, catch CatchEntry, currentDay int) {
	plot.active = false
	plot.activeCatchIdx = -1
	plot.nextRespawnDay = currentDay + int(catch.RegrowDays)
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

// Apply resolves one harvest. The plot must be actively ripe.
func (s *System) Apply(op types.CropOp) effects.ResourceOpResult {
	s.gate.Lock()
	defer s.gate.Unlock()

	plot, ok := s.plots[op.Plot]
	if !ok || !plot.active {
		return effects.ResourceOpResult{Message: "no ripe plot"}
	}
	catch := s.catchTable[plot.activeCatchIdx]

	qty := s.rng.IntRange(catch.MinQuantity, catch.MaxQuantity)
	change := types.InventoryOp{Owner: op.Actor, ItemId: catch.ItemId, Quantity: qty, Remove: false}

	plot.remainingCasts--
	if plot.remainingCasts <= 0 {
		plot.active = false
		plot.nextRespawnDay = s.currentDay + int(catch.RegrowDays)
		plot.activeCatchIdx = -1
	}

	return effects.ResourceOpResult{
		Success:          true,
		InventoryChanges: []types.InventoryOp{change},
		SkillId:          catch.SkillId,
		SkillXp:          catch.SkillXp,
	}
}

// CaptureState serializes every plot and the RNG stream position.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{Rng: s.rng.CaptureState()}
	for id, plot := range s.plots {
		out.Plots = append(out.Plots, Plot{
			Id:             id,
			Active:         plot.active,
			ActiveCatchIdx: plot.activeCatchIdx,
			NextRespawnDay: plot.nextRespawnDay,
			RemainingCasts: plot.remainingCasts,
		})
	}
	return out
}

// ApplyState replaces the system's plots and RNG stream position with
// state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.rng.ApplyState(state.Rng)
	s.plots = make(map[types.EntityId]*plotState)
	for _, plot := range state.Plots {
		s.plots[plot.Id] = &plotState{
			active:         plot.Active,
			activeCatchIdx: plot.ActiveCatchIdx,
			nextRespawnDay: plot.NextRespawnDay,
			remainingCasts: plot.RemainingCasts,
		}
	}
}
