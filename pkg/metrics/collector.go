package metrics

import (
	"fmt"
	"time"

	"github.com/cuemby/goapsim/pkg/actorhost"
	"github.com/cuemby/goapsim/pkg/reservation"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldstore"
)

// Collector periodically samples the world store, reservation service,
// and actor host fleet, and updates the world-version, entity-count and
// reservations-held gauges plus the worldstore and actorhost health
// components. The tick driver is the only other code that updates
// metrics; it does so inline.
type Collector struct {
	world        *worldstore.WorldStore
	reservations *reservation.Service
	hosts        []*actorhost.Host
	interval     time.Duration
	stopCh       chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(world *worldstore.WorldStore, reservations *reservation.Service, hosts []*actorhost.Host) *Collector {
	return &Collector{
		world:        world,
		reservations: reservations,
		hosts:        hosts,
		interval:     15 * time.Second,
		stopCh:       make(chan struct{}),
	}
}

// Start begins collecting metrics on a background goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectWorldMetrics()
	c.collectReservationMetrics()
	c.collectActorHealth()
}

func (c *Collector) collectWorldMetrics() {
	snap := c.world.Snapshot()
	WorldVersion.Set(float64(snap.Version()))
	EntitiesTotal.Set(float64(len(snap.AllThings())))
	RegisterComponent("worldstore", true, fmt.Sprintf("version=%d entities=%d", snap.Version(), len(snap.AllThings())))
}

func (c *Collector) collectReservationMetrics() {
	tokens := c.reservations.CaptureState()
	ReservationsHeld.Set(float64(len(tokens)))
}

// collectActorHealth reports the fleet as healthy only while every actor
// host's loop is still running (neither stopped nor wedged in an error
// state).
func (c *Collector) collectActorHealth() {
	running := 0
	for _, h := range c.hosts {
		switch h.Status().State {
		case types.StateStopped, types.StateError:
		default:
			running++
		}
	}
	total := len(c.hosts)
	RegisterComponent("actorhost", running == total, fmt.Sprintf("%d/%d actor hosts running", running, total))
}
