package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/goapsim/pkg/executor"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

func TestNextStepWhosePreconditionsHoldSkipsFailingSteps(t *testing.T) {
	p := &Plan{
		GoalId: "eat",
		Steps: []executor.Step{
			{ActivityName: "first", Preconditions: func(snap *worldstore.Snapshot) bool { return false }},
			{ActivityName: "second", Preconditions: func(snap *worldstore.Snapshot) bool { return true }},
		},
	}

	step, idx, ok := p.NextStepWhosePreconditionsHold(nil)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "second", step.ActivityName)
}

func TestNextStepWhosePreconditionsHoldTreatsNilAsAlwaysTrue(t *testing.T) {
	p := &Plan{Steps: []executor.Step{{ActivityName: "only"}}}

	step, idx, ok := p.NextStepWhosePreconditionsHold(nil)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "only", step.ActivityName)
}

func TestNextStepWhosePreconditionsHoldReturnsFalseWhenNoneHold(t *testing.T) {
	p := &Plan{
		Steps: []executor.Step{
			{ActivityName: "first", Preconditions: func(snap *worldstore.Snapshot) bool { return false }},
		},
	}

	_, _, ok := p.NextStepWhosePreconditionsHold(nil)
	assert.False(t, ok)
}

func TestNextStepWhosePreconditionsHoldOnEmptyPlanReturnsFalse(t *testing.T) {
	p := &Plan{}
	_, _, ok := p.NextStepWhosePreconditionsHold(nil)
	assert.False(t, ok)
}
