package effects

import (
	"math"
	"strconv"

	"github.com/cuemby/goapsim/pkg/types"
)

// Dispatcher holds every domain-system collaborator dispatch can forward
// to. Every field is optional: a nil collaborator means that operation
// kind is silently skipped (the world may be running with only a subset
// of domain systems attached).
type Dispatcher struct {
	Inventory    InventorySystem
	Currency     CurrencySystem
	Shop         ShopSystem
	Relationship RelationshipSystem
	Crop         CropSystem
	Animal       AnimalSystem
	Mining       MiningSystem
	Fishing      FishingSystem
	Foraging     ForagingSystem
	Skill        SkillSystem
	Quest        QuestSystem
	Log          Logger
}

// Dispatch runs every post-commit domain operation carried by batch. It
// is only ever called after WorldStore.TryCommit returned Committed.
func (d *Dispatcher) Dispatch(batch types.EffectBatch) {
	for _, op := range batch.InventoryOps {
		d.inventoryOp(op, "")
	}
	for _, op := range batch.CurrencyOps {
		d.currencyOp(op)
	}
	for _, txn := range batch.ShopTxns {
		d.shopTxn(txn)
	}
	for _, op := range batch.RelationshipOps {
		d.relationshipOp(op)
	}
	for _, op := range batch.CropOps {
		d.resourceOp("crop", op.Actor, func() (ResourceOpResult, bool) {
			if d.Crop == nil {
				return ResourceOpResult{}, false
			}
			return d.Crop.Apply(op), true
		})
	}
	for _, op := range batch.AnimalOps {
		d.resourceOp("animal", op.Actor, func() (ResourceOpResult, bool) {
			if d.Animal == nil {
				return ResourceOpResult{}, false
			}
			return d.Animal.Apply(op), true
		})
	}
	for _, op := range batch.MiningOps {
		d.resourceOp("mining", op.Actor, func() (ResourceOpResult, bool) {
			if d.Mining == nil {
				return ResourceOpResult{}, false
			}
			return d.Mining.Apply(op), true
		})
	}
	for _, op := range batch.FishingOps {
		d.resourceOp("fishing", op.Actor, func() (ResourceOpResult, bool) {
			if d.Fishing == nil {
				return ResourceOpResult{}, false
			}
			return d.Fishing.Apply(op), true
		})
	}
	for _, op := range batch.ForagingOps {
		d.resourceOp("foraging", op.Actor, func() (ResourceOpResult, bool) {
			if d.Foraging == nil {
				return ResourceOpResult{}, false
			}
			return d.Foraging.Apply(op), true
		})
	}
	for _, op := range batch.QuestOps {
		d.questOp(op)
	}
}

func (d *Dispatcher) inventoryOp(op types.InventoryOp, domainTag string) {
	if d.Inventory == nil || op.Quantity <= 0 {
		return
	}
	moved := d.Inventory.Move(op.Owner, op.ItemId, op.Quantity, op.Remove)
	sign := moved
	if op.Remove {
		sign = -moved
	}
	d.logEvent("INVENTORY", map[string]string{
		"owner":  string(op.Owner),
		"item":   op.ItemId,
		"delta":  strconv.Itoa(sign),
		"domain": domainTag,
	})
}

func (d *Dispatcher) currencyOp(op types.CurrencyOp) {
	if d.Currency == nil || math.Abs(op.Amount) < 1e-6 {
		return
	}
	balance := d.Currency.AdjustCurrency(op.Owner, op.Amount)
	d.logEvent("CURRENCY", map[string]string{
		"owner":   string(op.Owner),
		"delta":   strconv.FormatFloat(op.Amount, 'f', -1, 64),
		"balance": strconv.FormatFloat(balance, 'f', -1, 64),
	})
}

func (d *Dispatcher) shopTxn(txn types.ShopTxn) {
	if d.Shop == nil {
		return
	}
	result := d.Shop.Transact(txn.Shop, txn.Actor, txn.ItemId, txn.Quantity, txn.Kind)
	if !result.Success || result.Quantity <= 0 {
		return
	}
	actorDelta := result.TotalPrice
	if txn.Kind != types.ShopTxnSale {
		actorDelta = -result.TotalPrice
	}
	if d.Currency != nil {
		d.Currency.AdjustCurrency(txn.Actor, actorDelta)
		d.Currency.AdjustCurrency(txn.Shop, -actorDelta)
	}
	d.logEvent("SHOP", map[string]string{
		"shop":     string(txn.Shop),
		"actor":    string(txn.Actor),
		"item":     txn.ItemId,
		"quantity": strconv.Itoa(result.Quantity),
		"kind":     string(txn.Kind),
	})
}

func (d *Dispatcher) relationshipOp(op types.RelationshipOp) {
	if d.Relationship == nil {
		return
	}
	delta, applied := d.Relationship.Adjust(op)
	if !applied || math.Abs(delta) < 1e-6 {
		return
	}
	d.logEvent("RELATIONSHIP", map[string]string{
		"from":  string(op.From),
		"to":    string(op.To),
		"rel":   op.RelationshipId,
		"delta": strconv.FormatFloat(delta, 'f', -1, 64),
	})
}

func (d *Dispatcher) resourceOp(domain string, actor types.EntityId, run func() (ResourceOpResult, bool)) {
	result, attempted := run()
	if !attempted {
		return
	}
	for _, ic := range result.InventoryChanges {
		d.inventoryOp(ic, domain)
	}
	if result.SkillXp > 0 && !math.IsInf(result.SkillXp, 0) && !math.IsNaN(result.SkillXp) && d.Skill != nil {
		d.Skill.GrantXp(actor, result.SkillId, result.SkillXp)
	}
	d.logEvent("DOMAIN_OP", map[string]string{
		"domain":  domain,
		"actor":   string(actor),
		"success": strconv.FormatBool(result.Success),
	})
}

func (d *Dispatcher) questOp(op types.QuestOp) {
	if d.Quest == nil {
		return
	}
	result := d.Quest.Apply(op)
	for _, ic := range result.InventoryChanges {
		d.inventoryOp(ic, "quest")
	}
	for _, cc := range result.CurrencyChanges {
		d.currencyOp(cc)
	}
	d.logEvent("QUEST", map[string]string{
		"actor":    string(op.Actor),
		"quest":    op.QuestId,
		"status":   string(result.Status),
		"progress": strconv.FormatFloat(result.ObjectiveProgress, 'f', -1, 64),
		"required": strconv.FormatFloat(result.ObjectiveRequired, 'f', -1, 64),
	})
}

func (d *Dispatcher) logEvent(eventType string, fields map[string]string) {
	if d.Log == nil {
		return
	}
	d.Log.Event(eventType, fields)
}
