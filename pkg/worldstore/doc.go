/*
Package worldstore implements the sharded, versioned world state and its
validated optimistic-commit protocol.

# Architecture

The store partitions all entities and facts across a fixed number of
shards by a stable hash of the entity id. Each shard holds its things and
facts behind an atomic pointer swap, guarded by a per-shard mutex that
only a commit touching that shard acquires:

	┌─────────────────────── WORLDSTORE ──────────────────────┐
	│                                                           │
	│   shard[0]   shard[1]   shard[2]   ...   shard[N-1]      │
	│   ┌─────┐    ┌─────┐    ┌─────┐          ┌─────┐         │
	│   │gate │    │gate │    │gate │          │gate │         │
	│   │things│   │things│   │things│          │things│        │
	│   │facts│    │facts│    │facts│          │facts│         │
	│   └─────┘    └─────┘    └─────┘          └─────┘         │
	│                                                           │
	└───────────────────────────────────────────────────────────┘

Readers call Snapshot(), which copies the current atomic pointers (no
locks) into an immutable, share-nothing view. Writers call TryCommit,
which locks only the touched shards in ascending index order, validates
the read-set, stages copy-on-write mutations, sweeps auto-consumed items,
and installs new pointers with a version bump.

# Integration Points

  - pkg/clock supplies the WorldTime embedded in every snapshot.
  - pkg/reservation and pkg/effects consume EffectBatch results built
    against a Snapshot obtained here.
  - pkg/persistence round-trips CaptureState/ApplyState into the
    "world.json" chunk of a save archive.
*/
package worldstore
