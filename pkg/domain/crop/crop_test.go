package crop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

func testTable() []CatchEntry {
	return []CatchEntry{
		{
			ItemId:         "carrot",
			Weight:         1,
			MinQuantity:    1,
			MaxQuantity:    3,
			MinHarvests:    2,
			MaxHarvests:    2,
			AllowedSeasons: map[string]bool{"spring": true},
			SkillId:        "farming",
			SkillXp:        1,
			RegrowDays:     3,
		},
	}
}

func TestTickRipensPlotPastRegrowDay(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterPlot("field-a")

	require.NoError(t, s.Tick(0, "spring", "clear"))

	state := s.CaptureState()
	require.Len(t, state.Plots, 1)
	assert.True(t, state.Plots[0].Active)
}

func TestTickSkipsPlotsOutOfSeason(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterPlot("field-a")

	require.NoError(t, s.Tick(0, "winter", "clear"))

	state := s.CaptureState()
	assert.False(t, state.Plots[0].Active)
}

func TestApplyFailsWithoutRipePlot(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterPlot("field-a")

	result := s.Apply(types.CropOp{Actor: "alice", Plot: "field-a"})
	assert.False(t, result.Success)
}

func TestApplySucceedsAndGrantsSkillXp(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterPlot("field-a")
	require.NoError(t, s.Tick(0, "spring", "clear"))

	result := s.Apply(types.CropOp{Actor: "alice", Plot: "field-a"})
	require.True(t, result.Success)
	assert.Equal(t, "farming", result.SkillId)
	require.Len(t, result.InventoryChanges, 1)
	assert.Equal(t, "carrot", result.InventoryChanges[0].ItemId)
}

func TestDepletionSchedulesRegrowth(t *testing.T) {
	s := New(testTable(), 10, 1)
	s.RegisterPlot("field-a")
	require.NoError(t, s.Tick(5, "spring", "clear"))

	s.Apply(types.CropOp{Actor: "alice", Plot: "field-a"})
	result := s.Apply(types.CropOp{Actor: "alice", Plot: "field-a"})
	require.True(t, result.Success)

	state := s.CaptureState()
	plot := state.Plots[0]
	assert.False(t, plot.Active)
	assert.Equal(t, 5+3, plot.NextRespawnDay)
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	s := New(testTable(), 10, 3)
	s.RegisterPlot("field-a")
	require.NoError(t, s.Tick(0, "spring", "clear"))
	s.Apply(types.CropOp{Actor: "alice", Plot: "field-a"})

	state := s.CaptureState()

	s2 := New(testTable(), 10, 0)
	s2.ApplyState(state)

	assert.Equal(t, state, s2.CaptureState())
}
