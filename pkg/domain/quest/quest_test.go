package quest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

func testDefs() map[objectiveKey]Definition {
	return map[objectiveKey]Definition{
		DefKey("clear-the-field", "weeds-pulled"): {
			Required:        5,
			RewardInventory: []types.InventoryOp{{Owner: "", ItemId: "gold-star", Quantity: 1}},
			RewardCurrency:  []types.CurrencyOp{{Owner: "", Amount: 50}},
		},
	}
}

func TestApplyAdvancesProgress(t *testing.T) {
	s := New(testDefs())

	result := s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 2})
	assert.Equal(t, types.QuestObjectiveInProgress, result.Status)
	assert.Equal(t, 2.0, result.ObjectiveProgress)
}

func TestApplyCompletesAndPaysRewardsOnce(t *testing.T) {
	s := New(testDefs())

	result := s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 5})
	require.Equal(t, types.QuestObjectiveComplete, result.Status)
	require.Len(t, result.InventoryChanges, 1)
	require.Len(t, result.CurrencyChanges, 1)

	replay := s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 5})
	assert.Equal(t, types.QuestObjectiveComplete, replay.Status)
	assert.Empty(t, replay.InventoryChanges)
	assert.Empty(t, replay.CurrencyChanges)
}

func TestApplyIgnoresStaleReplay(t *testing.T) {
	s := New(testDefs())
	s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 3})

	result := s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 2})
	assert.Equal(t, 3.0, result.ObjectiveProgress, "a lower replayed amount must not regress progress")
}

func TestApplyClampsProgressToRequired(t *testing.T) {
	s := New(testDefs())

	result := s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 99})
	assert.Equal(t, 5.0, result.ObjectiveProgress)
}

func TestApplyUnknownObjectiveFails(t *testing.T) {
	s := New(testDefs())

	result := s.Apply(types.QuestOp{Actor: "alice", QuestId: "unknown", ObjectiveId: "x", Amount: 1})
	assert.Empty(t, result.Status)
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	s := New(testDefs())
	s.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 2})

	state := s.CaptureState()

	s2 := New(testDefs())
	s2.ApplyState(state)

	result := s2.Apply(types.QuestOp{Actor: "alice", QuestId: "clear-the-field", ObjectiveId: "weeds-pulled", Amount: 2})
	assert.Equal(t, 2.0, result.ObjectiveProgress)
}
