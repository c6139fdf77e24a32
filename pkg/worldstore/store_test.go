package worldstore

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

func newTestStore(shardCount int) *WorldStore {
	return NewWorldStore(Config{Width: 10, Height: 10, ShardCount: shardCount})
}

func spawnOne(t *testing.T, w *WorldStore, id types.EntityId, tags []string, attrs map[string]float64) {
	t.Helper()
	result := w.TryCommit(types.EffectBatch{
		Spawns: []types.SpawnEntry{{Id: id, Type: "thing", Tags: tags, Attributes: attrs}},
	})
	require.Equal(t, types.Committed, result)
}

func TestTryCommitReadSetConflict(t *testing.T) {
	w := newTestStore(4)
	spawnOne(t, w, "e1", nil, map[string]float64{"hp": 10})

	resultA := w.TryCommit(types.EffectBatch{
		Writes: []types.WriteEntry{{Thing: "e1", Attribute: "hp", Value: 5}},
	})
	require.Equal(t, types.Committed, resultA)

	resultB := w.TryCommit(types.EffectBatch{
		Reads:  []types.ReadEntry{{Thing: "e1", ExpectAttribute: "hp", ExpectValue: 10, HasExpectation: true}},
		Writes: []types.WriteEntry{{Thing: "e1", Attribute: "mana", Value: 3}},
	})
	assert.Equal(t, types.Conflict, resultB)

	snap := w.Snapshot()
	e1, ok := snap.GetThing("e1")
	require.True(t, ok)
	assert.Equal(t, 5.0, e1.Attribute("hp"))
	assert.Equal(t, 0.0, e1.Attribute("mana"))
}

func TestTryCommitDisjointParallelCommits(t *testing.T) {
	w := newTestStore(8)
	const n = 1000

	ids := make([]types.EntityId, n)
	for i := 0; i < n; i++ {
		ids[i] = types.EntityId("entity-" + strconv.Itoa(i))
	}
	spawns := make([]types.SpawnEntry, n)
	for i, id := range ids {
		spawns[i] = types.SpawnEntry{Id: id, Type: "thing", Attributes: map[string]float64{"hp": 1}}
	}
	require.Equal(t, types.Committed, w.TryCommit(types.EffectBatch{Spawns: spawns}))

	startVersion := w.Snapshot().Version()

	var wg sync.WaitGroup
	wg.Add(n)
	for _, id := range ids {
		go func(id types.EntityId) {
			defer wg.Done()
			result := w.TryCommit(types.EffectBatch{
				Writes: []types.WriteEntry{{Thing: id, Attribute: "hp", Value: 2}},
			})
			assert.Equal(t, types.Committed, result)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, startVersion+n, w.Snapshot().Version())
}

func TestAutoConsumeSweepDespawnsConsumedItems(t *testing.T) {
	w := newTestStore(4)
	spawnOne(t, w, "apple", []string{"item"}, map[string]float64{"consumed": 0})

	result := w.TryCommit(types.EffectBatch{
		Writes: []types.WriteEntry{{Thing: "apple", Attribute: "consumed", Value: 1}},
	})
	require.Equal(t, types.Committed, result)

	snap := w.Snapshot()
	_, ok := snap.GetThing("apple")
	assert.False(t, ok)
}

func TestDespawnCascadeRemovesFacts(t *testing.T) {
	w := newTestStore(4)
	spawnOne(t, w, "a", nil, nil)
	spawnOne(t, w, "b", nil, nil)

	result := w.TryCommit(types.EffectBatch{
		FactDeltas: []types.FactDelta{
			{Predicate: "likes", A: "a", B: "b", Add: true},
			{Predicate: "owes", A: "b", B: "a", Add: true},
		},
	})
	require.Equal(t, types.Committed, result)

	result = w.TryCommit(types.EffectBatch{Despawns: []types.EntityId{"a"}})
	require.Equal(t, types.Committed, result)

	snap := w.Snapshot()
	_, aExists := snap.GetThing("a")
	assert.False(t, aExists)
	_, bExists := snap.GetThing("b")
	assert.True(t, bExists)
	assert.False(t, snap.HasFact("likes", "a", "b"))
	assert.False(t, snap.HasFact("owes", "b", "a"))
}

func TestSpawnRejectsDuplicateId(t *testing.T) {
	w := newTestStore(4)
	spawnOne(t, w, "dup", nil, nil)

	result := w.TryCommit(types.EffectBatch{
		Spawns: []types.SpawnEntry{{Id: "dup", Type: "thing"}},
	})
	assert.Equal(t, types.Conflict, result)
}

func TestWriteRejectsMissingEntity(t *testing.T) {
	w := newTestStore(4)
	result := w.TryCommit(types.EffectBatch{
		Writes: []types.WriteEntry{{Thing: "ghost", Attribute: "hp", Value: 1}},
	})
	assert.Equal(t, types.Conflict, result)
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	w := newTestStore(4)
	spawnOne(t, w, "e1", []string{"item"}, map[string]float64{"hp": 3})
	require.Equal(t, types.Committed, w.TryCommit(types.EffectBatch{
		FactDeltas: []types.FactDelta{{Predicate: "likes", A: "e1", B: "e1", Add: true}},
	}))

	state := w.CaptureState()

	w2 := newTestStore(4)
	require.NoError(t, w2.ApplyState(state))

	snap := w2.Snapshot()
	e1, ok := snap.GetThing("e1")
	require.True(t, ok)
	assert.Equal(t, 3.0, e1.Attribute("hp"))
	assert.True(t, snap.HasFact("likes", "e1", "e1"))
	assert.Equal(t, state.Version, snap.Version())
}

func TestApplyStateRejectsMismatchedDimensions(t *testing.T) {
	w := newTestStore(4)
	state := w.CaptureState()
	state.Width = state.Width + 1

	w2 := newTestStore(4)
	err := w2.ApplyState(state)
	assert.Error(t, err)
}
