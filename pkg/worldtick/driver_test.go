package worldtick

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/clock"
	"github.com/cuemby/goapsim/pkg/types"
)

func TestTickOnceCallsEverySystemInOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	d := New(Config{
		Clock: clock.NewManualClock(clock.DefaultConfig()),
		Log:   zerolog.Nop(),
		Systems: []System{
			{Name: "weather", Tick: func(types.WorldTime) error {
				mu.Lock()
				order = append(order, "weather")
				mu.Unlock()
				return nil
			}},
			{Name: "crop", Tick: func(types.WorldTime) error {
				mu.Lock()
				order = append(order, "crop")
				mu.Unlock()
				return nil
			}},
		},
	})

	d.TickOnce()

	require.Equal(t, []string{"weather", "crop"}, order)
}

func TestTickOnceContinuesPastSystemError(t *testing.T) {
	var secondRan bool

	d := New(Config{
		Clock: clock.NewManualClock(clock.DefaultConfig()),
		Log:   zerolog.Nop(),
		Systems: []System{
			{Name: "failing", Tick: func(types.WorldTime) error {
				return errors.New("boom")
			}},
			{Name: "ok", Tick: func(types.WorldTime) error {
				secondRan = true
				return nil
			}},
		},
	})

	d.TickOnce()

	assert.True(t, secondRan, "a failing domain tick must not prevent later systems from ticking")
}

func TestTickOncePassesCurrentWorldTime(t *testing.T) {
	c := clock.NewManualClock(clock.DefaultConfig())
	c.Advance(3600)

	var seen types.WorldTime
	d := New(Config{
		Clock: c,
		Log:   zerolog.Nop(),
		Systems: []System{
			{Name: "calendar", Tick: func(wt types.WorldTime) error {
				seen = wt
				return nil
			}},
		},
	})

	d.TickOnce()

	assert.Equal(t, c.Snapshot().TotalWorldSeconds, seen.TotalWorldSeconds)
}
