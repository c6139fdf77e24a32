package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotAtZeroIsDayZero(t *testing.T) {
	c := NewManualClock(DefaultConfig())
	wt := c.Snapshot()
	assert.Equal(t, 0, wt.DayOfYear)
	assert.Equal(t, 0.0, wt.TimeOfDay)
	assert.Equal(t, "spring", wt.SeasonName)
}

func TestAdvanceMovesTimeOfDayForward(t *testing.T) {
	c := NewManualClock(DefaultConfig())
	c.Advance(6 * 60) // quarter of a 24*60-second day
	wt := c.Snapshot()
	assert.InDelta(t, 6.0, wt.TimeOfDay, 1e-9)
}

func TestAdvancePastADayRollsOverDayOfYear(t *testing.T) {
	cfg := DefaultConfig()
	c := NewManualClock(cfg)
	c.Advance(cfg.SecondsPerDay * 1.5)
	wt := c.Snapshot()
	assert.Equal(t, 1, wt.DayOfYear)
	assert.InDelta(t, 12.0, wt.TimeOfDay, 1e-9)
}

func TestSeasonAdvancesAfterSeasonLength(t *testing.T) {
	cfg := DefaultConfig()
	c := NewManualClock(cfg)
	c.Advance(cfg.SecondsPerDay * float64(cfg.SeasonLengthDays))
	wt := c.Snapshot()
	assert.Equal(t, "summer", wt.SeasonName)
}

func TestYearRollsOverAfterDaysPerYear(t *testing.T) {
	cfg := DefaultConfig()
	c := NewManualClock(cfg)
	c.Advance(cfg.SecondsPerDay * float64(cfg.DaysPerYear))
	wt := c.Snapshot()
	assert.Equal(t, 1, wt.Year)
	assert.Equal(t, 0, wt.DayOfYear)
}

func TestApplySnapshotRestoresTotalSeconds(t *testing.T) {
	c := NewManualClock(DefaultConfig())
	c.Advance(12345)
	snap := c.Snapshot()

	c2 := NewManualClock(DefaultConfig())
	c2.ApplySnapshot(snap)
	assert.Equal(t, snap, c2.Snapshot())
}
