package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveAddsAndRemoves(t *testing.T) {
	s := New()

	moved := s.Move("alice", "wood", 5, false)
	assert.Equal(t, 5, moved)
	assert.Equal(t, 5, s.Quantity("alice", "wood"))

	moved = s.Move("alice", "wood", 3, true)
	assert.Equal(t, 3, moved)
	assert.Equal(t, 2, s.Quantity("alice", "wood"))
}

func TestMoveRemoveClampsToHeldQuantity(t *testing.T) {
	s := New()
	s.Move("alice", "wood", 2, false)

	moved := s.Move("alice", "wood", 10, true)
	assert.Equal(t, 2, moved)
	assert.Equal(t, 0, s.Quantity("alice", "wood"))
}

func TestMoveIgnoresNonPositiveQuantity(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Move("alice", "wood", 0, false))
	assert.Equal(t, 0, s.Move("alice", "wood", -5, false))
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	s := New()
	s.Move("alice", "wood", 5, false)
	s.Move("bob", "stone", 2, false)

	state := s.CaptureState()

	s2 := New()
	s2.ApplyState(state)

	assert.Equal(t, 5, s2.Quantity("alice", "wood"))
	assert.Equal(t, 2, s2.Quantity("bob", "stone"))
}

func TestCaptureStateDropsZeroQuantityStacks(t *testing.T) {
	s := New()
	s.Move("alice", "wood", 5, false)
	s.Move("alice", "wood", 5, true)

	state := s.CaptureState()
	require.Empty(t, state.Stacks)
}
