// Package clock exposes the read-only world-time collaborator consumed by
// the actor loop, the domain tick driver, and persistence.
//
// The tick source itself (wall-clock pacing, manual test stepping, replay
// from a recording) is deliberately out of scope: only the Snapshot/
// ApplySnapshot contract matters to the simulation core.
package clock

import "github.com/cuemby/goapsim/pkg/types"

// Clock is the collaborator contract the core depends on.
type Clock interface {
	Snapshot() types.WorldTime
	ApplySnapshot(wt types.WorldTime)
}

// Config fixes the calendar shape of a ManualClock.
type Config struct {
	SecondsPerDay    float64
	DaysPerMonth     int
	SeasonLengthDays int
	DaysPerYear      int
	SeasonNames      []string
	TimeScale        float64
}

// DefaultConfig mirrors a four-season, 28-day-month calendar.
func DefaultConfig() Config {
	return Config{
		SecondsPerDay:    24 * 60,
		DaysPerMonth:     28,
		SeasonLengthDays: 28,
		DaysPerYear:      112,
		SeasonNames:      []string{"spring", "summer", "fall", "winter"},
		TimeScale:        1.0,
	}
}

// ManualClock advances only when Advance is called; it has no background
// goroutine of its own.
type ManualClock struct {
	cfg   Config
	total float64
}

// NewManualClock creates a clock starting at world-second 0.
func NewManualClock(cfg Config) *ManualClock {
	return &ManualClock{cfg: cfg}
}

// Advance moves the clock forward by seconds of simulated time.
func (c *ManualClock) Advance(seconds float64) {
	c.total += seconds
}

// Snapshot computes the current WorldTime from total elapsed seconds.
func (c *ManualClock) Snapshot() types.WorldTime {
	spd := c.cfg.SecondsPerDay
	if spd <= 0 {
		spd = 1
	}
	totalDays := c.total / spd
	dayIndex := int(totalDays)
	timeOfDay := (totalDays - float64(dayIndex)) * 24.0

	daysPerYear := c.cfg.DaysPerYear
	if daysPerYear <= 0 {
		daysPerYear = 1
	}
	dayOfYear := dayIndex % daysPerYear
	year := dayIndex / daysPerYear

	daysPerMonth := c.cfg.DaysPerMonth
	if daysPerMonth <= 0 {
		daysPerMonth = daysPerYear
	}
	month := dayOfYear/daysPerMonth + 1
	dayOfMonth := dayOfYear%daysPerMonth + 1

	seasonLen := c.cfg.SeasonLengthDays
	if seasonLen <= 0 {
		seasonLen = daysPerYear
	}
	seasonIndex := dayOfYear / seasonLen
	seasonName := ""
	if len(c.cfg.SeasonNames) > 0 {
		seasonName = c.cfg.SeasonNames[seasonIndex%len(c.cfg.SeasonNames)]
	}

	return types.WorldTime{
		TotalWorldSeconds: c.total,
		TotalWorldDays:    totalDays,
		TimeScale:         c.cfg.TimeScale,
		SecondsPerDay:     spd,
		TimeOfDay:         timeOfDay,
		DayOfYear:         dayOfYear,
		DayOfMonth:        dayOfMonth,
		Month:             month,
		SeasonIndex:       seasonIndex,
		SeasonName:        seasonName,
		Year:              year,
		DaysPerMonth:      daysPerMonth,
		SeasonLengthDays:  seasonLen,
		DaysPerYear:       daysPerYear,
	}
}

// ApplySnapshot restores the clock from a persisted WorldTime.
func (c *ManualClock) ApplySnapshot(wt types.WorldTime) {
	c.total = wt.TotalWorldSeconds
}
