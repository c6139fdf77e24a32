package effects

import "github.com/cuemby/goapsim/pkg/types"

// ResourceOpResult is the common shape returned by the resource-gathering
// domain systems (crop, animal, mining, fishing, foraging): they all
// follow the "active resource + timer + weighted catch + skill xp" shape
// and so share one result type.
type ResourceOpResult struct {
	Success          bool
	InventoryChanges []types.InventoryOp
	SkillId          string
	SkillXp          float64
	Message          string
}

// ShopResult is the outcome of one shop transaction.
type ShopResult struct {
	Success    bool
	Quantity   int
	TotalPrice float64
}

// QuestResult is the outcome of one quest-objective apply.
type QuestResult struct {
	Status             types.QuestObjectiveStatus
	ObjectiveId         string
	ObjectiveProgress   float64
	ObjectiveRequired   float64
	InventoryChanges    []types.InventoryOp
	CurrencyChanges     []types.CurrencyOp
	Message             string
}

// InventorySystem moves items into or out of an owner's inventory.
type InventorySystem interface {
	// Move returns the quantity actually moved, which may be less than
	// requested (e.g. insufficient stock to remove).
	Move(owner types.EntityId, itemId string, quantity int, remove bool) int
}

// CurrencySystem tracks per-owner currency balances.
type CurrencySystem interface {
	AdjustCurrency(owner types.EntityId, amount float64) (balance float64)
}

// ShopSystem executes buy/sell transactions against a shop's stock and
// price table.
type ShopSystem interface {
	Transact(shop, actor types.EntityId, itemId string, quantity int, kind types.ShopTxnKind) ShopResult
}

// RelationshipSystem owns the affinity graph between entities, including
// the item-gift affinity lookup used when an op omits an explicit delta.
type RelationshipSystem interface {
	Adjust(op types.RelationshipOp) (delta float64, applied bool)
}

// CropSystem, AnimalSystem, MiningSystem, FishingSystem, ForagingSystem
// each resolve one gathering/production interaction. They are distinct
// interfaces (not one generic one) because their operations carry
// distinct payloads (types.CropOp vs types.FishingOp, ...), but every
// implementation follows the shared ResourceOpResult shape.
type CropSystem interface {
	Apply(op types.CropOp) ResourceOpResult
}

type AnimalSystem interface {
	Apply(op types.AnimalOp) ResourceOpResult
}

type MiningSystem interface {
	Apply(op types.MiningOp) ResourceOpResult
}

type FishingSystem interface {
	Apply(op types.FishingOp) ResourceOpResult
}

type ForagingSystem interface {
	Apply(op types.ForagingOp) ResourceOpResult
}

// SkillSystem tracks actor experience and levels.
type SkillSystem interface {
	GrantXp(actor types.EntityId, skillId string, xp float64)
}

// QuestSystem advances quest objectives.
type QuestSystem interface {
	Apply(op types.QuestOp) QuestResult
}

// Logger is the minimal structured-event sink dispatch writes to; it is
// satisfied by *worldlog.Logger.
type Logger interface {
	Event(eventType string, fields map[string]string)
}
