package foraging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

func testTable() []CatchEntry {
	return []CatchEntry{
		{
			ItemId:         "wild-berry",
			Weight:         1,
			MinQuantity:    1,
			MaxQuantity:    3,
			MinGathers:     2,
			MaxGathers:     2,
			AllowedSeasons: map[string]bool{"summer": true},
			SkillId:        "foraging",
			SkillXp:        1,
			RespawnHours:   24,
		},
	}
}

func TestTickActivatesSpotPastRespawnDay(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterSpot("grove-a")

	require.NoError(t, s.Tick(0, "summer", "clear"))

	state := s.CaptureState()
	require.Len(t, state.Spots, 1)
	assert.True(t, state.Spots[0].Active)
}

func TestTickSkipsSpotOutOfSeason(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterSpot("grove-a")

	require.NoError(t, s.Tick(0, "winter", "clear"))

	state := s.CaptureState()
	assert.False(t, state.Spots[0].Active)
}

func TestApplyFailsWithoutActiveSpot(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterSpot("grove-a")

	result := s.Apply(types.ForagingOp{Actor: "alice", Spot: "grove-a"})
	assert.False(t, result.Success)
}

func TestApplyDepletesIntoRespawn(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterSpot("grove-a")
	require.NoError(t, s.Tick(1, "summer", "clear"))

	s.Apply(types.ForagingOp{Actor: "alice", Spot: "grove-a"})
	result := s.Apply(types.ForagingOp{Actor: "alice", Spot: "grove-a"})
	require.True(t, result.Success)
	assert.Equal(t, "foraging", result.SkillId)

	state := s.CaptureState()
	assert.False(t, state.Spots[0].Active)
	assert.Equal(t, 1+1, state.Spots[0].NextRespawnDay)
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	s := New(testTable(), 10, 6)
	s.RegisterSpot("grove-a")
	require.NoError(t, s.Tick(0, "summer", "clear"))
	s.Apply(types.ForagingOp{Actor: "alice", Spot: "grove-a"})

	state := s.CaptureState()

	s2 := New(testTable(), 10, 0)
	s2.ApplyState(state)

	assert.Equal(t, state, s2.CaptureState())
}
