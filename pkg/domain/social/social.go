package social

import "github.com/cuemby/goapsim/pkg/types"

// EdgeSource provides every relationship edge originating from an actor;
// satisfied by *relationship.System.
type EdgeSource interface {
	EdgesFrom(from types.EntityId) []types.RelationshipEdge
}

// Standing aggregates an actor's relationship edges into one reputation
// score: the mean value across every dimension and target the actor has
// any recorded relationship with. An actor with no edges has neutral (0)
// standing.
type Standing struct {
	edges EdgeSource
}

// New creates a Standing aggregator over edges.
func New(edges EdgeSource) *Standing {
	return &Standing{edges: edges}
}

// Reputation returns actor's mean relationship value across every edge
// recorded with actor as the "from" side.
func (s *Standing) Reputation(actor types.EntityId) float64 {
	edges := s.edges.EdgesFrom(actor)
	if len(edges) == 0 {
		return 0
	}
	var total float64
	for _, e := range edges {
		total += e.Value
	}
	return total / float64(len(edges))
}

// IsWellLiked reports whether actor's reputation meets or exceeds
// threshold.
func (s *Standing) IsWellLiked(actor types.EntityId, threshold float64) bool {
	return s.Reputation(actor) >= threshold
}
