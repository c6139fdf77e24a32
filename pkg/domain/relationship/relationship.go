package relationship

import (
	"math"
	"sync"

	"github.com/cuemby/goapsim/pkg/types"
)

type edgeKey struct {
	from           types.EntityId
	to             types.EntityId
	relationshipId string
}

// Edge is one serialized relationship value.
type Edge = types.RelationshipEdge

// State is the complete serialized form of a System.
type State struct {
	Edges []Edge
}

// System holds every from->to relationship edge plus the item gift-affinity
// table, behind a single gate mutex.
type System struct {
	gate sync.Mutex

	values map[edgeKey]float64
	// giftAffinities[itemId][relationshipId] = delta
	giftAffinities map[string]map[string]float64
}

// New creates a relationship system with no edges and the given gift
// affinity table (may be nil).
func New(giftAffinities map[string]map[string]float64) *System {
	if giftAffinities == nil {
		giftAffinities = make(map[string]map[string]float64)
	}
	return &System{
		values:         make(map[edgeKey]float64),
		giftAffinities: giftAffinities,
	}
}

// Adjust applies op's delta (explicit, or looked up from the item's gift
// affinity table) to the from->to edge, clamped to [-100, 100]. applied is
// false when no delta could be resolved (no explicit delta and no
// matching gift affinity entry).
func (s *System) Adjust(op types.RelationshipOp) (float64, bool) {
	delta, ok := s.resolveDelta(op)
	if !ok {
		return 0, false
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	key := edgeKey{from: op.From, to: op.To, relationshipId: op.RelationshipId}
	next := clamp(s.values[key]+delta, -100, 100)
	applied := next - s.values[key]
	s.values[key] = next
	return applied, true
}

func (s *System) resolveDelta(op types.RelationshipOp) (float64, bool) {
	if op.HasExplicit {
		return op.ExplicitDelta, true
	}
	byRel, ok := s.giftAffinities[op.ItemId]
	if !ok {
		return 0, false
	}
	delta, ok := byRel[op.RelationshipId]
	return delta, ok
}

// Value returns the current from->to edge value for relationshipId.
func (s *System) Value(from, to types.EntityId, relationshipId string) float64 {
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.values[edgeKey{from: from, to: to, relationshipId: relationshipId}]
}

// EdgesFrom returns every non-zero edge with the given from entity,
// across all relationship dimensions and targets.
func (s *System) EdgesFrom(from types.EntityId) []Edge {
	s.gate.Lock()
	defer s.gate.Unlock()

	var out []Edge
	for key, value := range s.values {
		if key.from != from || value == 0 {
			continue
		}
		out = append(out, Edge{From: key.from, To: key.to, RelationshipId: key.relationshipId, Value: value})
	}
	return out
}

// CaptureState serializes every non-zero edge.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	var out State
	for key, value := range s.values {
		if value == 0 {
			continue
		}
		out.Edges = append(out.Edges, Edge{From: key.from, To: key.to, RelationshipId: key.relationshipId, Value: value})
	}
	return out
}

// ApplyState replaces the system's edges with state (the gift affinity
// table is left untouched: it is configuration, not simulation state).
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.values = make(map[edgeKey]float64)
	for _, e := range state.Edges {
		s.values[edgeKey{from: e.From, to: e.To, relationshipId: e.RelationshipId}] = e.Value
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
