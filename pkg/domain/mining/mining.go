package mining

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/domain/internal/detrand"
	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/types"
)

// CatchEntry is one row of a node's weighted ore table.
type CatchEntry struct {
	ItemId       string
	Weight       float64
	MinQuantity  int
	MaxQuantity  int
	MinStrikes   int
	MaxStrikes   int
	RequiresDeep bool
	SkillId      string
	SkillXp      float64
	RespawnHours float64
}

func (c CatchEntry) validFor(isDeep bool) bool {
	if c.RequiresDeep && !isDeep {
		return false
	}
	return true
}

type nodeState struct {
	isDeep         bool
	active         bool
	activeCatchIdx int
	nextRespawnDay int
	remainingCasts int
}

// Node is one serialized mining node.
type Node struct {
	Id             types.EntityId
	IsDeep         bool
	Active         bool
	ActiveCatchIdx int
	NextRespawnDay int
	RemainingCasts int
}

// State is the complete serialized form of a System.
type State struct {
	Nodes []Node
	Rng   detrand.State
}

// System holds every mining node behind a single gate mutex; catchTable and
// maxActiveNodes are fixed configuration set at construction.
type System struct {
	gate sync.Mutex

	catchTable     []CatchEntry
	maxActiveNodes int
	rng            *detrand.Source
	currentDay     int

	nodes map[types.EntityId]*nodeState
}

// New creates a mining system with the given ore table, active-node cap,
// and RNG seed.
func New(catchTable []CatchEntry, maxActiveNodes int, seed int64) *System {
	return &System{
		catchTable:     catchTable,
		maxActiveNodes: maxActiveNodes,
		rng:            detrand.New(seed),
		nodes:          make(map[types.EntityId]*nodeState),
	}
}

// RegisterNode adds a new dormant node.
func (s *System) RegisterNode(id types.EntityId, isDeep bool) {
	s.gate.Lock()
	defer s.gate.Unlock()
	s.nodes[id] = &nodeState{isDeep: isDeep, activeCatchIdx: -1}
}

// Tick tries to activate dormant nodes once their respawn day has passed.
func (s *System) Tick(currentDay int) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.currentDay = currentDay
	activeCount := 0
	for _, n := range s.nodes {
		if n.active {
			activeCount++
		}
	}

	for _, n := range s.nodes {
		if n.active || currentDay < n.nextRespawnDay || activeCount >= s.maxActiveNodes {
			continue
		}
		idx, ok := s.chooseCatch(n.isDeep)
		if !ok {
			continue
		}
		catch := s.catchTable[idx]
		n.active = true
		n.activeCatchIdx = idx
		n.remainingCasts = s.rng.IntRange(catch.MinStrikes, catch.MaxStrikes)
		activeCount++
	}
	return nil
}

func (s *System) chooseCatch(isDeep bool) (int, bool) {
	var totalWeight float64
	var candidates []int
	for i, c := range s.catchTable {
		if c.validFor(isDeep) {
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

// Apply resolves one strike. The node must be active; no tool is checked.
func (s *System) Apply(op types.MiningOp) effects.ResourceOpResult {
	s.gate.Lock()
	defer s.gate.Unlock()

	n, ok := s.nodes[op.Node]
	if !ok || !n.active {
		return effects.ResourceOpResult{Message: "no active node"}
	}
	catch := s.catchTable[n.activeCatchIdx]

	var changes []types.InventoryOp
	qty := s.rng.IntRange(catch.MinQuantity, catch.MaxQuantity)
	changes = append(changes, types.InventoryOp{Owner: op.Actor, ItemId: catch.ItemId, Quantity: qty, Remove: false})

	n.remainingCasts--
	if n.remainingCasts <= 0 {
		n.active = false
		n.nextRespawnDay = s.currentDay + int(catch.RespawnHours/24.0)
		n.activeCatchIdx = -1
	}

	return effects.ResourceOpResult{
		Success:          true,
		InventoryChanges: changes,
		SkillId:          catch.SkillId,
		SkillXp:          catch.SkillXp,
	}
}

// CaptureState serializes every node and the RNG stream position.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{Rng: s.rng.CaptureState()}
	for id, n := range s.nodes {
		out.Nodes = append(out.Nodes, Node{
			Id:             id,
			IsDeep:         n.isDeep,
			Active:         n.active,
			ActiveCatchIdx: n.activeCatchIdx,
			NextRespawnDay: n.nextRespawnDay,
			RemainingCasts: n.remainingCasts,
		})
	}
	return out
}

// ApplyState replaces the system's nodes and RNG stream position with
// state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.rng.ApplyState(state.Rng)
	s.nodes = make(map[types.EntityId]*nodeState)
	for _, n := range state.Nodes {
		s.nodes[n.Id] = &nodeState{
			isDeep:         n.IsDeep,
			active:         n.Active,
			activeCatchIdx: n.ActiveCatchIdx,
			nextRespawnDay: n.NextRespawnDay,
			remainingCasts: n.RemainingCasts,
		}
	}
}
