package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

type fakeInventory struct {
	calls []types.InventoryOp
}

func (f *fakeInventory) Move(owner types.EntityId, itemId string, quantity int, remove bool) int {
	f.calls = append(f.calls, types.InventoryOp{Owner: owner, ItemId: itemId, Quantity: quantity, Remove: remove})
	return quantity
}

type fakeCurrency struct {
	balances map[types.EntityId]float64
}

func newFakeCurrency() *fakeCurrency { return &fakeCurrency{balances: make(map[types.EntityId]float64)} }

func (f *fakeCurrency) AdjustCurrency(owner types.EntityId, amount float64) float64 {
	f.balances[owner] += amount
	return f.balances[owner]
}

type fakeShop struct {
	result ShopResult
}

func (f *fakeShop) Transact(shop, actor types.EntityId, itemId string, quantity int, kind types.ShopTxnKind) ShopResult {
	return f.result
}

type fakeRelationship struct {
	delta   float64
	applied bool
}

func (f *fakeRelationship) Adjust(op types.RelationshipOp) (float64, bool) {
	return f.delta, f.applied
}

type fakeCropSystem struct{ result ResourceOpResult }

func (f *fakeCropSystem) Apply(op types.CropOp) ResourceOpResult { return f.result }

type fakeSkill struct {
	calls []float64
}

func (f *fakeSkill) GrantXp(actor types.EntityId, skillId string, xp float64) {
	f.calls = append(f.calls, xp)
}

type fakeQuest struct {
	result QuestResult
}

func (f *fakeQuest) Apply(op types.QuestOp) QuestResult { return f.result }

type fakeLogger struct {
	events []string
}

func (f *fakeLogger) Event(eventType string, fields map[string]string) {
	f.events = append(f.events, eventType)
}

func TestDispatchInventoryOpIgnoresNonPositiveQuantity(t *testing.T) {
	inv := &fakeInventory{}
	d := &Dispatcher{Inventory: inv}

	d.Dispatch(types.EffectBatch{InventoryOps: []types.InventoryOp{{Owner: "alice", ItemId: "wood", Quantity: 0}}})
	assert.Empty(t, inv.calls)
}

func TestDispatchInventoryOpMovesItems(t *testing.T) {
	inv := &fakeInventory{}
	log := &fakeLogger{}
	d := &Dispatcher{Inventory: inv, Log: log}

	d.Dispatch(types.EffectBatch{InventoryOps: []types.InventoryOp{{Owner: "alice", ItemId: "wood", Quantity: 3}}})
	require.Len(t, inv.calls, 1)
	assert.Equal(t, "wood", inv.calls[0].ItemId)
	assert.Contains(t, log.events, "INVENTORY")
}

func TestDispatchCurrencyOpIgnoresTinyAmount(t *testing.T) {
	cur := newFakeCurrency()
	d := &Dispatcher{Currency: cur}

	d.Dispatch(types.EffectBatch{CurrencyOps: []types.CurrencyOp{{Owner: "alice", Amount: 1e-9}}})
	assert.Empty(t, cur.balances)
}

func TestDispatchShopTxnCreditsAndDebitsBothParties(t *testing.T) {
	cur := newFakeCurrency()
	shop := &fakeShop{result: ShopResult{Success: true, Quantity: 2, TotalPrice: 10}}
	d := &Dispatcher{Currency: cur, Shop: shop}

	d.Dispatch(types.EffectBatch{ShopTxns: []types.ShopTxn{{Shop: "store", Actor: "alice", ItemId: "wood", Quantity: 2, Kind: types.ShopTxnPurchase}}})
	assert.Equal(t, -10.0, cur.balances["alice"])
	assert.Equal(t, 10.0, cur.balances["store"])
}

func TestDispatchShopTxnSaleCreditsActor(t *testing.T) {
	cur := newFakeCurrency()
	shop := &fakeShop{result: ShopResult{Success: true, Quantity: 1, TotalPrice: 5}}
	d := &Dispatcher{Currency: cur, Shop: shop}

	d.Dispatch(types.EffectBatch{ShopTxns: []types.ShopTxn{{Shop: "store", Actor: "alice", ItemId: "egg", Quantity: 1, Kind: types.ShopTxnSale}}})
	assert.Equal(t, 5.0, cur.balances["alice"])
	assert.Equal(t, -5.0, cur.balances["store"])
}

func TestDispatchShopTxnSkipsUnsuccessfulResult(t *testing.T) {
	cur := newFakeCurrency()
	shop := &fakeShop{result: ShopResult{Success: false}}
	d := &Dispatcher{Currency: cur, Shop: shop}

	d.Dispatch(types.EffectBatch{ShopTxns: []types.ShopTxn{{Shop: "store", Actor: "alice", Quantity: 1}}})
	assert.Empty(t, cur.balances)
}

func TestDispatchRelationshipOpIgnoresTinyDelta(t *testing.T) {
	log := &fakeLogger{}
	d := &Dispatcher{Relationship: &fakeRelationship{delta: 1e-9, applied: true}, Log: log}

	d.Dispatch(types.EffectBatch{RelationshipOps: []types.RelationshipOp{{From: "alice", To: "bob"}}})
	assert.NotContains(t, log.events, "RELATIONSHIP")
}

func TestDispatchRelationshipOpLogsAppliedDelta(t *testing.T) {
	log := &fakeLogger{}
	d := &Dispatcher{Relationship: &fakeRelationship{delta: 5, applied: true}, Log: log}

	d.Dispatch(types.EffectBatch{RelationshipOps: []types.RelationshipOp{{From: "alice", To: "bob"}}})
	assert.Contains(t, log.events, "RELATIONSHIP")
}

func TestDispatchCropOpGrantsSkillXpAndInventory(t *testing.T) {
	inv := &fakeInventory{}
	skill := &fakeSkill{}
	d := &Dispatcher{
		Inventory: inv,
		Skill:     skill,
		Crop: &fakeCropSystem{result: ResourceOpResult{
			Success:          true,
			InventoryChanges: []types.InventoryOp{{Owner: "alice", ItemId: "carrot", Quantity: 1}},
			SkillId:          "farming",
			SkillXp:          2,
		}},
	}

	d.Dispatch(types.EffectBatch{CropOps: []types.CropOp{{Actor: "alice", Plot: "field-a"}}})
	require.Len(t, inv.calls, 1)
	require.Len(t, skill.calls, 1)
	assert.Equal(t, 2.0, skill.calls[0])
}

func TestDispatchResourceOpSkipsSkillGrantWhenNilSkillXp(t *testing.T) {
	skill := &fakeSkill{}
	d := &Dispatcher{
		Skill: skill,
		Crop:  &fakeCropSystem{result: ResourceOpResult{Success: true}},
	}

	d.Dispatch(types.EffectBatch{CropOps: []types.CropOp{{Actor: "alice", Plot: "field-a"}}})
	assert.Empty(t, skill.calls)
}

func TestDispatchResourceOpSkipsWhenSystemNil(t *testing.T) {
	d := &Dispatcher{}
	// No panic expected; crop is nil so op is silently skipped.
	d.Dispatch(types.EffectBatch{CropOps: []types.CropOp{{Actor: "alice", Plot: "field-a"}}})
}

func TestDispatchQuestOpAppliesRewardsOnCompletion(t *testing.T) {
	inv := &fakeInventory{}
	cur := newFakeCurrency()
	d := &Dispatcher{
		Inventory: inv,
		Currency:  cur,
		Quest: &fakeQuest{result: QuestResult{
			Status:            types.QuestObjectiveComplete,
			InventoryChanges:  []types.InventoryOp{{Owner: "alice", ItemId: "gold-star", Quantity: 1}},
			CurrencyChanges:   []types.CurrencyOp{{Owner: "alice", Amount: 50}},
		}},
	}

	d.Dispatch(types.EffectBatch{QuestOps: []types.QuestOp{{Actor: "alice", QuestId: "q1", ObjectiveId: "o1", Amount: 5}}})
	require.Len(t, inv.calls, 1)
	assert.Equal(t, 50.0, cur.balances["alice"])
}

func TestDispatchWithNilCollaboratorsDoesNotPanic(t *testing.T) {
	d := &Dispatcher{}
	d.Dispatch(types.EffectBatch{
		InventoryOps:    []types.InventoryOp{{Owner: "a", ItemId: "x", Quantity: 1}},
		CurrencyOps:     []types.CurrencyOp{{Owner: "a", Amount: 1}},
		ShopTxns:        []types.ShopTxn{{Shop: "s", Actor: "a"}},
		RelationshipOps: []types.RelationshipOp{{From: "a", To: "b"}},
		CropOps:         []types.CropOp{{Actor: "a"}},
		AnimalOps:       []types.AnimalOp{{Actor: "a"}},
		MiningOps:       []types.MiningOp{{Actor: "a"}},
		FishingOps:      []types.FishingOp{{Actor: "a"}},
		ForagingOps:     []types.ForagingOp{{Actor: "a"}},
		QuestOps:        []types.QuestOp{{Actor: "a"}},
	})
}
