package worldstore

import (
	"fmt"

	"github.com/cuemby/goapsim/pkg/types"
)

// ThingState is the serializable form of one entity.
type ThingState struct {
	Id         string             `json:"id"`
	Type       string             `json:"type"`
	Tags       []string           `json:"tags"`
	X          int                `json:"x"`
	Y          int                `json:"y"`
	Attributes map[string]float64   `json:"attributes"`
	Building   *types.Building      `json:"building,omitempty"`
	Schedule   []types.ScheduleBlock `json:"schedule,omitempty"`
}

// FactState is the serializable form of one fact triple.
type FactState struct {
	Predicate string `json:"predicate"`
	A         string `json:"a"`
	B         string `json:"b"`
}

// WorldStateSnapshot is the complete, serializable content of a
// WorldStore: the manifest-referenced "world.json" chunk.
type WorldStateSnapshot struct {
	Version  uint64       `json:"version"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Walkable [][]bool     `json:"walkable"`
	Things   []ThingState `json:"things"`
	Facts    []FactState  `json:"facts"`
}

// CaptureState serializes the full world: grid, every entity, every fact,
// and the current version.
func (w *WorldStore) CaptureState() WorldStateSnapshot {
	snap := w.Snapshot()
	out := WorldStateSnapshot{
		Version:  snap.version,
		Width:    w.width,
		Height:   w.height,
		Walkable: w.walkable,
	}
	for _, e := range snap.AllThings() {
		tags := make([]string, 0, len(e.Tags))
		for t := range e.Tags {
			tags = append(tags, t)
		}
		out.Things = append(out.Things, ThingState{
			Id:         string(e.Id),
			Type:       e.Type,
			Tags:       tags,
			X:          e.Position.X,
			Y:          e.Position.Y,
			Attributes: e.Attributes,
			Building:   e.Building,
			Schedule:   e.Schedule,
		})
	}
	for i, fm := range snap.facts {
		_ = i
		for f := range fm {
			out.Facts = append(out.Facts, FactState{Predicate: f.Predicate, A: string(f.A), B: string(f.B)})
		}
	}
	return out
}

// ApplyState replaces the entire world with state. Width/height must
// match the store's construction-time configuration; mismatch is fatal
// to the load operation (not the process).
func (w *WorldStore) ApplyState(state WorldStateSnapshot) error {
	if state.Width != w.width || state.Height != w.height {
		return fmt.Errorf("worldstore: grid size mismatch: store is %dx%d, snapshot is %dx%d",
			w.width, w.height, state.Width, state.Height)
	}

	builders := make([]*shardBuilder, w.shardCount)
	for i, s := range w.shards {
		s.gate.Lock()
		builders[i] = &shardBuilder{shard: s, things: make(thingsMap), facts: make(factsSet)}
	}
	defer func() {
		for i := w.shardCount - 1; i >= 0; i-- {
			w.shards[i].gate.Unlock()
		}
	}()

	for _, ts := range state.Things {
		id := types.EntityId(ts.Id)
		idx := w.shardOf(id)
		tags := make(map[string]bool, len(ts.Tags))
		for _, t := range ts.Tags {
			tags[normalizeKey(t)] = true
		}
		builders[idx].things[id] = &types.Entity{
			Id:         id,
			Type:       ts.Type,
			Tags:       tags,
			Position:   types.Position{X: ts.X, Y: ts.Y},
			Attributes: ts.Attributes,
			Building:   ts.Building,
			Schedule:   ts.Schedule,
		}
	}
	for _, fs := range state.Facts {
		a := types.EntityId(fs.A)
		idx := w.shardOf(a)
		builders[idx].facts[types.Fact{Predicate: fs.Predicate, A: a, B: types.EntityId(fs.B)}] = struct{}{}
	}

	w.walkableMu.Lock()
	w.walkable = state.Walkable
	w.walkableMu.Unlock()

	for _, b := range builders {
		things := b.things
		facts := b.facts
		b.shard.things.Store(&things)
		b.shard.facts.Store(&facts)
	}
	w.globalVersion.v.Store(state.Version)

	return nil
}
