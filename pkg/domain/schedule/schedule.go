package schedule

import (
	"github.com/cuemby/goapsim/pkg/domain/calendar"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

// Evaluator matches an actor's entity.Schedule against the current world
// time. It holds no mutable state; cal is the calendar used to derive
// day-of-week.
type Evaluator struct {
	cal *calendar.Calendar
}

// New creates a schedule Evaluator using cal to derive day-of-week.
func New(cal *calendar.Calendar) *Evaluator {
	return &Evaluator{cal: cal}
}

// Evaluate implements actorhost.ScheduleEvaluator. It finds the first
// schedule block whose day/season/hour window contains the current world
// time and reports its effective task, goto target, and event id.
func (e *Evaluator) Evaluate(snap *worldstore.Snapshot, actorId types.EntityId) types.ScheduleEvaluation {
	entity, ok := snap.GetThing(actorId)
	if !ok || len(entity.Schedule) == 0 {
		return types.ScheduleEvaluation{}
	}

	wt := snap.WorldTime()
	day := e.cal.DayOfWeek(wt)
	season := e.cal.Season(wt)
	hour := wt.TimeOfDay

	block, ok := matchBlock(entity.Schedule, day, season, hour)
	if !ok {
		return types.ScheduleEvaluation{}
	}

	return types.ScheduleEvaluation{
		HasActiveBlock:   true,
		TargetId:         block.GotoTarget,
		EffectiveTask:    block.Task,
		EffectiveGoto:    block.GotoTarget,
		ActiveEventId:    block.EventId,
		MinutesIntoBlock: (hour - block.StartHour) * 60,
	}
}

func matchBlock(blocks []types.ScheduleBlock, day, season string, hour float64) (types.ScheduleBlock, bool) {
	for _, b := range blocks {
		if len(b.Days) > 0 && !b.Days[day] {
			continue
		}
		if len(b.Seasons) > 0 && !b.Seasons[season] {
			continue
		}
		if hour < b.StartHour || hour >= b.EndHour {
			continue
		}
		return b, true
	}
	return types.ScheduleBlock{}, false
}
