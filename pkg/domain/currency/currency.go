package currency

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/types"
)

// Balance is one owner's currency, for serialization.
type Balance struct {
	Owner  types.EntityId
	Amount float64
}

// State is the complete serialized form of a System.
type State struct {
	Balances []Balance
}

// System holds every owner's currency balance behind a single gate mutex.
type System struct {
	gate     sync.Mutex
	balances map[types.EntityId]float64
}

// New creates an empty currency system.
func New() *System {
	return &System{balances: make(map[types.EntityId]float64)}
}

// AdjustCurrency adds amount (which may be negative) to owner's balance
// and returns the resulting balance.
func (s *System) AdjustCurrency(owner types.EntityId, amount float64) float64 {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.balances[owner] += amount
	return s.balances[owner]
}

// Balance returns owner's current balance.
func (s *System) Balance(owner types.EntityId) float64 {
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.balances[owner]
}

// CaptureState serializes every owner's balance.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	var out State
	for owner, amount := range s.balances {
		out.Balances = append(out.Balances, Balance{Owner: owner, Amount: amount})
	}
	return out
}

// ApplyState replaces the system's contents with state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.balances = make(map[types.EntityId]float64)
	for _, b := range state.Balances {
		s.balances[b.Owner] = b.Amount
	}
}
