/*
Package types defines the core data structures shared by the simulation
core: entities, facts, effect batches, reservations, plans, and the
read-only clock snapshot.

# Core Types

World model:
  - EntityId, Position, Entity, Building, Fact

Commit unit:
  - EffectBatch, ReadEntry, WriteEntry, FactDelta, SpawnEntry
  - InventoryOp, CurrencyOp, ShopTxn, RelationshipOp
  - CropOp, AnimalOp, MiningOp, FishingOp, ForagingOp, QuestOp

Planning:
  - Plan and Step live in pkg/planner and pkg/executor respectively, since
    a Step carries behavior (closures or handler-table lookups) rather
    than pure data; this package only carries the data contract it
    exchanges with those collaborators (Reservation, EffectBatch).

Reservations:
  - Reservation, ReservationToken, ReservationMode

Diagnostics:
  - ActorLoopState, ActorPlanStatus

Clock:
  - WorldTime

Domain progress records:
  - SkillProgress, QuestState, RelationshipEdge, ScheduleBlock,
    ScheduleEvaluation

# Design Patterns

Enumeration pattern: every enum is a typed string constant, matching the
rest of the simulation core's serialization story (JSON-friendly, readable
in logs and snapshot chunks).

Immutability: Entity is always replaced wholesale rather than mutated in
place; the world store installs a fresh copy-on-write map under its shard
gate rather than editing fields of a shared struct.

# Thread Safety

Values in this package carry no synchronization of their own. Entity
values handed out by a Snapshot are safe to read concurrently because
the snapshot holder never mutates them after install; everything else
is synchronized by its owning subsystem (WorldStore, ReservationService,
ActorHost).
*/
package types
