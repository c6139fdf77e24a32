package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuemby/goapsim/pkg/actorhost"
	"github.com/cuemby/goapsim/pkg/clock"
	"github.com/cuemby/goapsim/pkg/domain/animal"
	"github.com/cuemby/goapsim/pkg/domain/calendar"
	"github.com/cuemby/goapsim/pkg/domain/crop"
	"github.com/cuemby/goapsim/pkg/domain/currency"
	"github.com/cuemby/goapsim/pkg/domain/fishing"
	"github.com/cuemby/goapsim/pkg/domain/foraging"
	"github.com/cuemby/goapsim/pkg/domain/inventory"
	"github.com/cuemby/goapsim/pkg/domain/mining"
	"github.com/cuemby/goapsim/pkg/domain/quest"
	"github.com/cuemby/goapsim/pkg/domain/relationship"
	"github.com/cuemby/goapsim/pkg/domain/schedule"
	"github.com/cuemby/goapsim/pkg/domain/shop"
	"github.com/cuemby/goapsim/pkg/domain/skill"
	"github.com/cuemby/goapsim/pkg/domain/social"
	"github.com/cuemby/goapsim/pkg/domain/weather"
	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/executor"
	"github.com/cuemby/goapsim/pkg/log"
	"github.com/cuemby/goapsim/pkg/metrics"
	"github.com/cuemby/goapsim/pkg/reservation"
	"github.com/cuemby/goapsim/pkg/types"
	"github.com/cuemby/goapsim/pkg/worldlog"
	"github.com/cuemby/goapsim/pkg/worldstore"
	"github.com/cuemby/goapsim/pkg/worldtick"
)

// Demo world layout. A handful of fixed entity IDs stand in for the
// content a real dataset loader would produce.
const (
	fishingSpotId  types.EntityId = "spot-pond"
	cropPlotId     types.EntityId = "plot-field"
	animalPenId    types.EntityId = "animal-coop"
	miningNodeId   types.EntityId = "node-quarry"
	foragingSpotId types.EntityId = "spot-grove"
	shopId         types.EntityId = "shop-general"
)

const worldWidth, worldHeight = 40, 40

// simcore bundles every collaborator the demo harness wires together so
// the cobra command handlers only deal with lifecycle.
type simcore struct {
	world        *worldstore.WorldStore
	reservations *reservation.Service
	driver       *worldtick.Driver
	hosts        []*actorhost.Host
	worldLog     *worldlog.Logger
	collector    *metrics.Collector
	clockPump    *clockPump

	fleet       *errgroup.Group
	fleetCancel context.CancelFunc

	inventory    *inventory.System
	currency     *currency.System
	shop         *shop.System
	relationship *relationship.System
	social       *social.Standing
	skill        *skill.System
	quest        *quest.System
	weather      *weather.System
	calendar     *calendar.Calendar
	schedule     *schedule.Evaluator
	fishing      *fishing.System
	crop         *crop.System
	animal       *animal.System
	mining       *mining.System
	foraging     *foraging.System

	dispatcher *effects.Dispatcher
}

// buildSimcore constructs the full collaborator graph and spawns a small
// demo world: one actor per id in actorIds, plus one resource entity per
// domain system, all within walking distance of each other.
func buildSimcore(actorIds []types.EntityId, seed int64, logDir string) (*simcore, error) {
	worldLog, err := worldlog.NewLogger(logDir, 0)
	if err != nil {
		return nil, fmt.Errorf("simcore: open world log: %w", err)
	}

	cl := clock.NewManualClock(clock.DefaultConfig())
	world := worldstore.NewWorldStore(worldstore.Config{
		Width:      worldWidth,
		Height:     worldHeight,
		ShardCount: 8,
		Clock:      cl,
		Logger:     log.WithComponent("worldstore"),
	})
	reservations := reservation.New(log.WithComponent("reservation"))

	inv := inventory.New()
	cur := currency.New()
	rel := relationship.New(map[string]map[string]float64{
		"wildflower":     {"friendship": 4},
		"preserved-fish": {"friendship": 6},
	})
	standing := social.New(rel)
	shp := shop.New()
	skl := skill.New([]float64{0, 100, 300, 700, 1500})

	questDefs := quest.NewDefs()
	questDefs[quest.DefKey("settle-in", "catch-first-fish")] = quest.Definition{
		Required:       1,
		RewardCurrency: []types.CurrencyOp{{Amount: 25}},
	}
	qst := quest.New(questDefs)

	wthr := weather.New(map[string][]weather.Entry{
		"spring": {{State: "clear", Weight: 7}, {State: "rain", Weight: 3}},
		"summer": {{State: "clear", Weight: 8}, {State: "rain", Weight: 2}},
		"fall":   {{State: "clear", Weight: 5}, {State: "rain", Weight: 4}, {State: "storm", Weight: 1}},
		"winter": {{State: "clear", Weight: 4}, {State: "snow", Weight: 6}},
	}, seed)
	cal := calendar.New(nil)
	sched := schedule.New(cal)

	fsh := fishing.New([]fishing.CatchEntry{
		{ItemId: "perch", Weight: 6, MinQuantity: 1, MaxQuantity: 2, MinCasts: 1, MaxCasts: 1, SkillId: "fishing", SkillXp: 5, RespawnHours: 1},
		{ItemId: "golden-trout", Weight: 1, MinQuantity: 1, MaxQuantity: 1, MinCasts: 1, MaxCasts: 1, RequiresDeep: true, SkillId: "fishing", SkillXp: 20, RespawnHours: 6},
	}, 1, seed+1)
	fsh.RegisterSpot(fishingSpotId, true)

	crp := crop.New([]crop.CatchEntry{
		{ItemId: "carrot", Weight: 5, MinQuantity: 1, MaxQuantity: 3, MinHarvests: 1, MaxHarvests: 1, SkillId: "farming", SkillXp: 4, RegrowDays: 3},
	}, 1, seed+2)
	crp.RegisterPlot(cropPlotId)

	anm := animal.New([]animal.CatchEntry{
		{ItemId: "egg", Weight: 9, MinQuantity: 1, MaxQuantity: 2, MinCollections: 1, MaxCollections: 1, SkillId: "farming", SkillXp: 2, RegrowDays: 1},
	}, 1, seed+3)
	anm.RegisterAnimal(animalPenId)

	min := mining.New([]mining.CatchEntry{
		{ItemId: "copper-ore", Weight: 7, MinQuantity: 1, MaxQuantity: 2, MinStrikes: 1, MaxStrikes: 2, SkillId: "mining", SkillXp: 6, RespawnHours: 2},
		{ItemId: "iron-ore", Weight: 3, MinQuantity: 1, MaxQuantity: 1, MinStrikes: 1, MaxStrikes: 3, RequiresDeep: true, SkillId: "mining", SkillXp: 12, RespawnHours: 4},
	}, 1, seed+4)
	min.RegisterNode(miningNodeId, false)

	frg := foraging.New([]foraging.CatchEntry{
		{ItemId: "wildflower", Weight: 6, MinQuantity: 1, MaxQuantity: 2, MinGathers: 1, MaxGathers: 1, SkillId: "foraging", SkillXp: 3, RespawnHours: 1},
	}, 1, seed+5)
	frg.RegisterSpot(foragingSpotId)

	dispatcher := &effects.Dispatcher{
		Inventory:    inv,
		Currency:     cur,
		Shop:         shp,
		Relationship: rel,
		Crop:         crp,
		Animal:       anm,
		Mining:       min,
		Fishing:      fsh,
		Foraging:     frg,
		Skill:        skl,
		Quest:        qst,
		Log:          worldLog,
	}

	if err := seedWorld(world, actorIds); err != nil {
		return nil, err
	}

	driver := worldtick.New(worldtick.Config{
		Clock: cl,
		Log:   log.Logger,
		Systems: []worldtick.System{
			{Name: "weather", Tick: func(wt types.WorldTime) error { return wthr.Tick(wt.SeasonName) }},
			{Name: "fishing", Tick: func(wt types.WorldTime) error { return fsh.Tick(wt.DayOfYear, wt.SeasonName, wthr.Current()) }},
			{Name: "crop", Tick: func(wt types.WorldTime) error { return crp.Tick(wt.DayOfYear, wt.SeasonName, wthr.Current()) }},
			{Name: "animal", Tick: func(wt types.WorldTime) error { return anm.Tick(wt.DayOfYear, wt.SeasonName) }},
			{Name: "mining", Tick: func(wt types.WorldTime) error { return min.Tick(wt.DayOfYear) }},
			{Name: "foraging", Tick: func(wt types.WorldTime) error { return frg.Tick(wt.DayOfYear, wt.SeasonName, wthr.Current()) }},
		},
		Interval: 250 * time.Millisecond,
	})

	hosts := make([]*actorhost.Host, 0, len(actorIds))
	registry := demoRegistry()
	plnr := newDemoPlanner()
	for _, id := range actorIds {
		hosts = append(hosts, actorhost.New(actorhost.Config{
			Self:                id,
			World:               world,
			Planner:             plnr,
			Registry:            registry,
			Reservations:        reservations,
			Dispatcher:          dispatcher,
			Schedule:            sched,
			Log:                 worldLog.ForActor(string(id)),
			Rng:                 rand.New(rand.NewSource(seed + int64(len(hosts)))),
			LoopFrequencyHz:     20,
			PriorityJitterRange: 0.1,
		}))
	}

	return &simcore{
		world:        world,
		reservations: reservations,
		driver:       driver,
		hosts:        hosts,
		worldLog:     worldLog,
		collector:    metrics.NewCollector(world, reservations, hosts),
		clockPump:    newClockPump(cl, 1.0),

		inventory:    inv,
		currency:     cur,
		shop:         shp,
		relationship: rel,
		social:       standing,
		skill:        skl,
		quest:        qst,
		weather:      wthr,
		calendar:     cal,
		schedule:     sched,
		fishing:      fsh,
		crop:         crp,
		animal:       anm,
		mining:       min,
		foraging:     frg,

		dispatcher: dispatcher,
	}, nil
}

func seedWorld(world *worldstore.WorldStore, actorIds []types.EntityId) error {
	spawns := []types.SpawnEntry{
		{Id: fishingSpotId, Type: "fishing_spot", Tags: []string{"resource"}, Position: types.Position{X: 10, Y: 10}},
		{Id: cropPlotId, Type: "crop_plot", Tags: []string{"resource"}, Position: types.Position{X: 14, Y: 10}},
		{Id: animalPenId, Type: "animal_pen", Tags: []string{"resource"}, Position: types.Position{X: 18, Y: 10}},
		{Id: miningNodeId, Type: "mining_node", Tags: []string{"resource"}, Position: types.Position{X: 22, Y: 10}},
		{Id: foragingSpotId, Type: "foraging_spot", Tags: []string{"resource"}, Position: types.Position{X: 26, Y: 10}},
		{Id: shopId, Type: "shop", Tags: []string{"building"}, Position: types.Position{X: 30, Y: 10}},
	}
	for i, id := range actorIds {
		spawns = append(spawns, types.SpawnEntry{
			Id:       id,
			Type:     "villager",
			Tags:     []string{"actor"},
			Position: types.Position{X: i % worldWidth, Y: 0},
		})
	}

	result := world.TryCommit(types.EffectBatch{Spawns: spawns})
	if result != types.Committed {
		return fmt.Errorf("simcore: failed to seed demo world, commit result %v", result)
	}
	return nil
}

// clockPump drives a *clock.ManualClock forward on a wall-clock ticker.
// The tick source itself is deliberately left external to the core;
// this is ambient demo tooling, not part of its contract.
type clockPump struct {
	cl        *clock.ManualClock
	timeScale float64
}

func newClockPump(cl *clock.ManualClock, timeScale float64) *clockPump {
	return &clockPump{cl: cl, timeScale: timeScale}
}

// Run advances the clock on a ticker until ctx is cancelled. It is a
// member of the fleet's errgroup, so simcore.Stop's group.Wait() blocks
// until this goroutine has actually returned.
func (p *clockPump) Run(ctx context.Context) error {
	const tick = 200 * time.Millisecond
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.cl.Advance(tick.Seconds() * p.timeScale)
		case <-ctx.Done():
			return nil
		}
	}
}

// Start brings up the fleet: the clock pump and every actor host run
// under one errgroup.Group so Stop can wait for all of them to exit
// cleanly instead of assuming they already have.
func (s *simcore) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	s.fleet = g
	s.fleetCancel = cancel

	g.Go(func() error { return s.clockPump.Run(ctx) })

	for _, h := range s.hosts {
		g.Go(func() error {
			h.Start()
			<-ctx.Done()
			h.RequestStop()
			h.FinishStop()
			return nil
		})
	}

	s.driver.Start()
	s.collector.Start()
}

func (s *simcore) Stop() {
	s.fleetCancel()
	_ = s.fleet.Wait()

	s.collector.Stop()
	s.driver.Stop()
	_ = s.worldLog.Close()
}
