package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/goapsim/pkg/types"
)

func newTestShop() *System {
	s := New()
	s.SetListing("general-store", Listing{ItemId: "axe", Stock: 3, BuyPrice: 10, SellPrice: 4})
	return s
}

func TestPurchaseDecrementsStock(t *testing.T) {
	s := newTestShop()

	result := s.Transact("general-store", "alice", "axe", 2, types.ShopTxnPurchase)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Quantity)
	assert.Equal(t, 20.0, result.TotalPrice)
}

func TestPurchaseClampsToRemainingStock(t *testing.T) {
	s := newTestShop()

	result := s.Transact("general-store", "alice", "axe", 10, types.ShopTxnPurchase)
	require.True(t, result.Success)
	assert.Equal(t, 3, result.Quantity)
}

func TestPurchaseFailsOnDepletedStock(t *testing.T) {
	s := newTestShop()
	s.Transact("general-store", "alice", "axe", 3, types.ShopTxnPurchase)

	result := s.Transact("general-store", "bob", "axe", 1, types.ShopTxnPurchase)
	assert.False(t, result.Success)
}

func TestSaleIncreasesStockWithNoLimit(t *testing.T) {
	s := newTestShop()

	result := s.Transact("general-store", "alice", "axe", 5, types.ShopTxnSale)
	require.True(t, result.Success)
	assert.Equal(t, 5, result.Quantity)
	assert.Equal(t, 20.0, result.TotalPrice)
}

func TestTransactFailsForUnknownShopOrItem(t *testing.T) {
	s := newTestShop()

	assert.False(t, s.Transact("no-such-shop", "alice", "axe", 1, types.ShopTxnPurchase).Success)
	assert.False(t, s.Transact("general-store", "alice", "no-such-item", 1, types.ShopTxnPurchase).Success)
}

func TestCaptureAndApplyStateRoundTrip(t *testing.T) {
	s := newTestShop()
	s.Transact("general-store", "alice", "axe", 1, types.ShopTxnPurchase)

	state := s.CaptureState()

	s2 := New()
	s2.ApplyState(state)

	result := s2.Transact("general-store", "bob", "axe", 1, types.ShopTxnPurchase)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Quantity)
}
