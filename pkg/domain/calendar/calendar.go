package calendar

import "github.com/cuemby/goapsim/pkg/types"

// DayNames is the default seven-day week used when none is configured.
var DayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Calendar derives calendar facts from WorldTime snapshots; dayNames is
// fixed configuration set at construction.
type Calendar struct {
	dayNames []string
}

// New creates a Calendar with the given day-of-week names, in order
// starting from day-of-year 0. Falls back to DayNames if names is empty.
func New(names []string) *Calendar {
	if len(names) == 0 {
		names = DayNames
	}
	return &Calendar{dayNames: names}
}

// Season returns the current season name.
func (c *Calendar) Season(wt types.WorldTime) string {
	return wt.SeasonName
}

// DayOfWeek returns the name of the day of the week for wt.
func (c *Calendar) DayOfWeek(wt types.WorldTime) string {
	idx := wt.DayOfYear % len(c.dayNames)
	if idx < 0 {
		idx += len(c.dayNames)
	}
	return c.dayNames[idx]
}

// DayOfWeekIndex returns the zero-based index into the configured
// day-name list for wt.
func (c *Calendar) DayOfWeekIndex(wt types.WorldTime) int {
	idx := wt.DayOfYear % len(c.dayNames)
	if idx < 0 {
		idx += len(c.dayNames)
	}
	return idx
}
