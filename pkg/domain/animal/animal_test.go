package animal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

func testTable() []CatchEntry {
	return []CatchEntry{
		{
			ItemId:         "egg",
			Weight:         1,
			MinQuantity:    1,
			MaxQuantity:    1,
			MinCollections: 2,
			MaxCollections: 2,
			SkillId:        "ranching",
			SkillXp:        1,
			RegrowDays:     1,
		},
	}
}

func TestTickReadiesAnimalPastRegrowDay(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterAnimal("hen-1")

	require.NoError(t, s.Tick(0, "summer"))

	state := s.CaptureState()
	require.Len(t, state.Animals, 1)
	assert.True(t, state.Animals[0].Active)
}

func TestApplyFailsWhenNotReady(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterAnimal("hen-1")

	result := s.Apply(types.AnimalOp{Actor: "alice", Animal: "hen-1"})
	assert.False(t, result.Success)
}

func TestApplySucceedsAndDepletesIntoRespawn(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterAnimal("hen-1")
	require.NoError(t, s.Tick(2, "summer"))

	s.Apply(types.AnimalOp{Actor: "alice", Animal: "hen-1"})
	result := s.Apply(types.AnimalOp{Actor: "alice", Animal: "hen-1"})
	require.True(t, result.Success)
	assert.Equal(t, "ranching", result.SkillId)

	state := s.CaptureState()
	assert.False(t, state.Animals[0].Active)
	assert.Equal(t, 2+1, state.Animals[0].NextRespawnDay)
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	s := New(testTable(), 10, 4)
	s.RegisterAnimal("hen-1")
	require.NoError(t, s.Tick(0, "summer"))
	s.Apply(types.AnimalOp{Actor: "alice", Animal: "hen-1"})

	state := s.CaptureState()

	s2 := New(testTable(), 10, 0)
	s2.ApplyState(state)

	assert.Equal(t, state, s2.CaptureState())
}
