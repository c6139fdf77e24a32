package worldtick

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/goapsim/pkg/clock"
	"github.com/cuemby/goapsim/pkg/metrics"
	"github.com/cuemby/goapsim/pkg/types"
)

// System pairs a named domain system with its tick step so the driver can
// tag metrics and log lines by domain without a type switch. Tick errors
// are logged and do not stop the cycle; every system still ticks.
type System struct {
	Name string
	Tick func(wt types.WorldTime) error
}

// Config wires the clock and the ordered list of domain systems to drive.
type Config struct {
	Clock    clock.Clock
	Systems  []System
	Interval time.Duration
	Log      zerolog.Logger
}

// Driver runs one domain tick cycle per Interval, from a single goroutine.
type Driver struct {
	clock    clock.Clock
	systems  []System
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	stopCh chan struct{}
}

// New creates a Driver. Interval defaults to one second of wall-clock time
// between cycles if unset.
func New(cfg Config) *Driver {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{
		clock:    cfg.Clock,
		systems:  cfg.Systems,
		interval: interval,
		logger:   cfg.Log.With().Str("component", "worldtick").Logger(),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the tick loop on a background goroutine.
func (d *Driver) Start() {
	go d.run()
}

// Stop signals the tick loop to exit. It does not block until the
// in-flight cycle finishes.
func (d *Driver) Stop() {
	close(d.stopCh)
}

// TickOnce runs exactly one cycle synchronously, for tests and the
// snapshot-driven demo harness where a ticker goroutine is unwanted.
func (d *Driver) TickOnce() {
	d.cycle()
}

func (d *Driver) run() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info().Msg("world tick driver started")

	for {
		select {
		case <-ticker.C:
			d.cycle()
		case <-d.stopCh:
			d.logger.Info().Msg("world tick driver stopped")
			return
		}
	}
}

func (d *Driver) cycle() {
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.WorldTickCycleDuration)
		metrics.WorldTickCyclesTotal.Inc()
	}()

	d.mu.Lock()
	defer d.mu.Unlock()

	wt := d.clock.Snapshot()
	for _, sys := range d.systems {
		d.tickOne(sys, wt)
	}
}

func (d *Driver) tickOne(sys System, wt types.WorldTime) {
	stepTimer := metrics.NewTimer()
	defer stepTimer.ObserveDurationVec(metrics.DomainTickDuration, sys.Name)

	if err := sys.Tick(wt); err != nil {
		metrics.DomainTickErrorsTotal.WithLabelValues(sys.Name).Inc()
		d.logger.Error().Err(err).Str("domain", sys.Name).Msg("domain tick failed")
	}
}
