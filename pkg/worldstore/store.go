package worldstore

import (
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/cuemby/goapsim/pkg/clock"
	"github.com/cuemby/goapsim/pkg/types"
)

const defaultNextStepCacheSize = 4096

// Config fixes the grid and sharding shape of a WorldStore at
// construction time.
type Config struct {
	Width      int
	Height     int
	ShardCount int
	// Walkable is an optional width x height override; nil means every
	// cell is walkable. Must contain at least one walkable cell.
	Walkable [][]bool
	Clock    clock.Clock
	Logger   zerolog.Logger
}

// WorldStore owns all world state and arbitrates commits.
type WorldStore struct {
	shards     []*shard
	shardCount int
	width      int
	height     int

	walkableMu sync.RWMutex
	walkable   [][]bool

	globalVersion versionCounter

	clock  clock.Clock
	logger zerolog.Logger

	pathCacheMu sync.Mutex
	pathCache   *lru.Cache[pathKey, pathResult]
}

// NewWorldStore builds an empty store with the given configuration.
func NewWorldStore(cfg Config) *WorldStore {
	if cfg.ShardCount <= 0 {
		cfg.ShardCount = 16
	}
	shards := make([]*shard, cfg.ShardCount)
	for i := range shards {
		shards[i] = newShard(i)
	}
	walkable := cfg.Walkable
	if walkable == nil {
		walkable = make([][]bool, cfg.Width)
		for x := range walkable {
			walkable[x] = make([]bool, cfg.Height)
			for y := range walkable[x] {
				walkable[x][y] = true
			}
		}
	}
	cache, _ := lru.New[pathKey, pathResult](defaultNextStepCacheSize)
	return &WorldStore{
		shards:     shards,
		shardCount: cfg.ShardCount,
		width:      cfg.Width,
		height:     cfg.Height,
		walkable:   walkable,
		clock:      cfg.Clock,
		logger:     cfg.Logger.With().Str("component", "worldstore").Logger(),
		pathCache:  cache,
	}
}

// shardOf returns the stable shard index for an entity id. The hash must
// be stable across processes so captured state round-trips identically.
func (w *WorldStore) shardOf(id types.EntityId) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int((h.Sum32() & 0x7FFFFFFF)) % w.shardCount
}

// Snapshot returns a cheap, immutable, lock-free view of the world.
func (w *WorldStore) Snapshot() *Snapshot {
	things := make([]thingsMap, w.shardCount)
	facts := make([]factsSet, w.shardCount)
	for i, s := range w.shards {
		things[i] = s.loadThings()
		facts[i] = s.loadFacts()
	}
	w.walkableMu.RLock()
	walkable := w.walkable
	w.walkableMu.RUnlock()

	var wt types.WorldTime
	if w.clock != nil {
		wt = w.clock.Snapshot()
	}

	return &Snapshot{
		version:    w.globalVersion.load(),
		shardCount: w.shardCount,
		shardOf:    w.shardOf,
		things:     things,
		facts:      facts,
		width:      w.width,
		height:     w.height,
		walkable:   walkable,
		worldTime:  wt,
		store:      w,
	}
}

// TryCommit validates the read-set and, if it holds, applies every
// mutation in batch atomically with respect to the shards it touches.
func (w *WorldStore) TryCommit(batch types.EffectBatch) types.CommitResult {
	touched := w.touchedShards(batch)
	sort.Ints(touched)

	for _, idx := range touched {
		w.shards[idx].gate.Lock()
	}
	defer func() {
		for i := len(touched) - 1; i >= 0; i-- {
			w.shards[touched[i]].gate.Unlock()
		}
	}()

	builders := make(map[int]*shardBuilder, len(touched))
	for _, idx := range touched {
		builders[idx] = newShardBuilder(w.shards[idx])
	}

	// Read-set validation.
	for _, r := range batch.Reads {
		idx := w.shardOf(r.Thing)
		b := builders[idx]
		ent, ok := b.things[r.Thing]
		if !ok {
			return types.Conflict
		}
		if r.HasExpectation {
			actual := ent.Attribute(r.ExpectAttribute)
			diff := actual - r.ExpectValue
			if diff < 0 {
				diff = -diff
			}
			if diff >= 1e-9 {
				return types.Conflict
			}
		}
	}

	if ok := w.stageSpawns(builders, batch.Spawns); !ok {
		return types.Conflict
	}
	if ok := w.stageWrites(builders, batch.Writes); !ok {
		return types.Conflict
	}
	w.stageFactDeltas(builders, batch.FactDeltas)
	w.stageDespawns(builders, batch.Despawns)
	w.autoConsumeSweep(builders)

	for _, idx := range touched {
		builders[idx].install()
	}
	w.globalVersion.increment()

	return types.Committed
}

func (w *WorldStore) touchedShards(batch types.EffectBatch) []int {
	set := make(map[int]struct{})
	for _, r := range batch.Reads {
		set[w.shardOf(r.Thing)] = struct{}{}
	}
	for _, wr := range batch.Writes {
		set[w.shardOf(wr.Thing)] = struct{}{}
	}
	for _, fd := range batch.FactDeltas {
		set[w.shardOf(fd.A)] = struct{}{}
	}
	for _, sp := range batch.Spawns {
		set[w.shardOf(sp.Id)] = struct{}{}
	}
	if len(batch.Despawns) > 0 {
		for _, id := range batch.Despawns {
			set[w.shardOf(id)] = struct{}{}
		}
		// A despawned entity may be the object of a fact whose subject
		// lives in any shard; touch every shard so the cascade can scan
		// and remove those facts in the same commit.
		for i := 0; i < w.shardCount; i++ {
			set[i] = struct{}{}
		}
	}
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	return out
}

func (w *WorldStore) stageSpawns(builders map[int]*shardBuilder, spawns []types.SpawnEntry) bool {
	for _, sp := range spawns {
		if sp.Id == "" {
			return false
		}
		idx := w.shardOf(sp.Id)
		b := builders[idx]
		if _, exists := b.things[sp.Id]; exists {
			return false
		}
		pos := w.clampPosition(sp.Position)
		tags := normalizeTags(sp.Tags)
		attrs := make(map[string]float64, len(sp.Attributes))
		for k, v := range sp.Attributes {
			attrs[normalizeKey(k)] = v
		}
		b.things[sp.Id] = &types.Entity{
			Id:         sp.Id,
			Type:       sp.Type,
			Tags:       tags,
			Position:   pos,
			Attributes: attrs,
			Schedule:   sp.Schedule,
		}
	}
	return true
}

func (w *WorldStore) stageWrites(builders map[int]*shardBuilder, writes []types.WriteEntry) bool {
	for _, wr := range writes {
		idx := w.shardOf(wr.Thing)
		b := builders[idx]
		ent, ok := b.things[wr.Thing]
		if !ok {
			return false
		}
		next := cloneEntity(ent)
		switch wr.Attribute {
		case "@move.x":
			next.Position.X = int(wr.Value)
		case "@move.y":
			next.Position.Y = int(wr.Value)
		default:
			key := normalizeKey(wr.Attribute)
			next.Attributes[key] = wr.Value
			if key == "open" && next.Building != nil {
				next.Building.OpenFlag = wr.Value > 0.5
			}
		}
		next.Position = w.clampPosition(next.Position)
		b.things[wr.Thing] = next
	}
	return true
}

func (w *WorldStore) stageFactDeltas(builders map[int]*shardBuilder, deltas []types.FactDelta) {
	for _, fd := range deltas {
		idx := w.shardOf(fd.A)
		b := builders[idx]
		f := types.Fact{Predicate: fd.Predicate, A: fd.A, B: fd.B}
		if fd.Add {
			b.facts[f] = struct{}{}
		} else {
			delete(b.facts, f)
		}
	}
}

func (w *WorldStore) stageDespawns(builders map[int]*shardBuilder, despawns []types.EntityId) {
	if len(despawns) == 0 {
		return
	}
	dead := make(map[types.EntityId]struct{}, len(despawns))
	for _, id := range despawns {
		dead[id] = struct{}{}
	}
	removeDeadThingsAndFacts(builders, dead)
}

func removeDeadThingsAndFacts(builders map[int]*shardBuilder, dead map[types.EntityId]struct{}) {
	for _, b := range builders {
		for id := range dead {
			delete(b.things, id)
		}
		for f := range b.facts {
			if _, d := dead[f.A]; d {
				delete(b.facts, f)
				continue
			}
			if _, d := dead[f.B]; d {
				delete(b.facts, f)
			}
		}
	}
}

// autoConsumeSweep despawns every staged entity tagged "item" carrying a
// "*consumed" attribute above 0.5, within the shards already touched by
// this commit.
func (w *WorldStore) autoConsumeSweep(builders map[int]*shardBuilder) {
	dead := make(map[types.EntityId]struct{})
	for _, b := range builders {
		for id, ent := range b.things {
			if !ent.HasTag("item") {
				continue
			}
			for attr, v := range ent.Attributes {
				if v > 0.5 && strings.HasSuffix(attr, "consumed") {
					dead[id] = struct{}{}
					break
				}
			}
		}
	}
	if len(dead) == 0 {
		return
	}
	removeDeadThingsAndFacts(builders, dead)
}

func (w *WorldStore) clampPosition(p types.Position) types.Position {
	if w.width <= 0 || w.height <= 0 {
		return p
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.X >= w.width {
		p.X = w.width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y >= w.height {
		p.Y = w.height - 1
	}
	return p
}

func cloneEntity(e *types.Entity) *types.Entity {
	next := *e
	attrs := make(map[string]float64, len(e.Attributes))
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	next.Attributes = attrs
	tags := make(map[string]bool, len(e.Tags))
	for k, v := range e.Tags {
		tags[k] = v
	}
	next.Tags = tags
	if e.Building != nil {
		b := *e.Building
		next.Building = &b
	}
	return &next
}

func normalizeTags(tags []string) map[string]bool {
	out := make(map[string]bool, len(tags))
	for _, t := range tags {
		k := normalizeKey(t)
		if k == "" {
			continue
		}
		out[k] = true
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
