package weather

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/domain/internal/detrand"
)

// Entry is one weighted weather-state option for a season.
type Entry struct {
	State  string
	Weight float64
}

// State is the complete serialized form of a System.
type State struct {
	Current string
	Rng     detrand.State
}

// System holds the current weather state behind a single gate mutex;
// table is fixed per-season configuration set at construction.
type System struct {
	gate sync.Mutex

	table   map[string][]Entry
	rng     *detrand.Source
	current string
}

// New creates a weather system with the given per-season weighted table
// and RNG seed. current starts as the empty state until the first Tick.
func New(table map[string][]Entry, seed int64) *System {
	return &System{
		table: table,
		rng:   detrand.New(seed),
	}
}

// Tick rolls a new weather state for the given season.
func (s *System) Tick(season string) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	entries := s.table[season]
	var totalWeight float64
	for _, e := range entries {
		totalWeight += e.Weight
	}
	if totalWeight <= 0 {
		return nil
	}
	roll := s.rng.Float64() * totalWeight
	for _, e := range entries {
		roll -= e.Weight
		if roll <= 0 {
			s.current = e.State
			return nil
		}
	}
	s.current = entries[len(entries)-1].State
	return nil
}

// Current returns the weather state as of the last Tick.
func (s *System) Current() string {
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.current
}

// CaptureState serializes the current weather state and RNG position.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()
	return State{Current: s.current, Rng: s.rng.CaptureState()}
}

// ApplyState restores the current weather state and RNG position.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()
	s.current = state.Current
	s.rng.ApplyState(state.Rng)
}
