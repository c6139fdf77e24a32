package inventory

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/types"
)

// Stack is one owner's quantity of one item, for serialization.
type Stack struct {
	Owner    types.EntityId
	ItemId   string
	Quantity int
}

// State is the complete serialized form of a System.
type State struct {
	Stacks []Stack
}

// System holds every owner's item stacks behind a single gate mutex.
type System struct {
	gate   sync.Mutex
	stacks map[types.EntityId]map[string]int
}

// New creates an empty inventory system.
func New() *System {
	return &System{stacks: make(map[types.EntityId]map[string]int)}
}

// Move adds or removes quantity of itemId from owner's stack and returns
// the amount actually moved. Removing more than is held clamps to the
// held amount; adding never clamps.
func (s *System) Move(owner types.EntityId, itemId string, quantity int, remove bool) int {
	if quantity <= 0 {
		return 0
	}
	s.gate.Lock()
	defer s.gate.Unlock()

	owned := s.stacks[owner]
	if owned == nil {
		owned = make(map[string]int)
		s.stacks[owner] = owned
	}

	if !remove {
		owned[itemId] += quantity
		return quantity
	}

	held := owned[itemId]
	moved := quantity
	if moved > held {
		moved = held
	}
	owned[itemId] = held - moved
	if owned[itemId] == 0 {
		delete(owned, itemId)
	}
	return moved
}

// Quantity returns how much of itemId owner currently holds.
func (s *System) Quantity(owner types.EntityId, itemId string) int {
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.stacks[owner][itemId]
}

// CaptureState serializes every non-zero stack.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	var out State
	for owner, items := range s.stacks {
		for itemId, qty := range items {
			if qty == 0 {
				continue
			}
			out.Stacks = append(out.Stacks, Stack{Owner: owner, ItemId: itemId, Quantity: qty})
		}
	}
	return out
}

// ApplyState replaces the system's contents with state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.stacks = make(map[types.EntityId]map[string]int)
	for _, stack := range state.Stacks {
		owned := s.stacks[stack.Owner]
		if owned == nil {
			owned = make(map[string]int)
			s.stacks[stack.Owner] = owned
		}
		owned[stack.ItemId] = stack.Quantity
	}
}
