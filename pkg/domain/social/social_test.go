package social

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/goapsim/pkg/types"
)

type fakeEdgeSource struct {
	edges []types.RelationshipEdge
}

func (f fakeEdgeSource) EdgesFrom(from types.EntityId) []types.RelationshipEdge {
	return f.edges
}

func TestReputationIsNeutralWithNoEdges(t *testing.T) {
	s := New(fakeEdgeSource{})
	assert.Equal(t, 0.0, s.Reputation("alice"))
}

func TestReputationAveragesAcrossEdges(t *testing.T) {
	s := New(fakeEdgeSource{edges: []types.RelationshipEdge{
		{Value: 80},
		{Value: 20},
	}})
	assert.Equal(t, 50.0, s.Reputation("alice"))
}

func TestIsWellLikedThreshold(t *testing.T) {
	s := New(fakeEdgeSource{edges: []types.RelationshipEdge{{Value: 60}}})
	assert.True(t, s.IsWellLiked("alice", 50))
	assert.False(t, s.IsWellLiked("alice", 70))
}
