package shop

import (
	"sync"

	"github.com/cuemby/goapsim/pkg/effects"
	"github.com/cuemby/goapsim/pkg/types"
)

// Listing is one item's stock and unit prices at one shop.
type Listing struct {
	ItemId    string
	Stock     int
	BuyPrice  float64
	SellPrice float64
}

// shopState is one shop's mutable listing table.
type shopState struct {
	listings map[string]*Listing
}

// State is the complete serialized form of a System.
type State struct {
	Shops map[types.EntityId][]Listing
}

// System holds every shop's stock and price tables behind a single gate
// mutex.
type System struct {
	gate  sync.Mutex
	shops map[types.EntityId]*shopState
}

// New creates an empty shop system.
func New() *System {
	return &System{shops: make(map[types.EntityId]*shopState)}
}

// SetListing installs or replaces one item's listing at shop.
func (s *System) SetListing(shop types.EntityId, listing Listing) {
	s.gate.Lock()
	defer s.gate.Unlock()

	st := s.shops[shop]
	if st == nil {
		st = &shopState{listings: make(map[string]*Listing)}
		s.shops[shop] = st
	}
	l := listing
	st.listings[listing.ItemId] = &l
}

// Transact executes a buy or sell of quantity units of itemId at shop on
// actor's behalf. A Purchase is limited by the shop's remaining stock; a
// Sale has no stock limit (the shop always buys). Unknown shop or item,
// non-positive quantity, or (for a Purchase) zero remaining stock yields
// Success=false.
func (s *System) Transact(shop, actor types.EntityId, itemId string, quantity int, kind types.ShopTxnKind) effects.ShopResult {
	if quantity <= 0 {
		return effects.ShopResult{}
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	st := s.shops[shop]
	if st == nil {
		return effects.ShopResult{}
	}
	listing, ok := st.listings[itemId]
	if !ok {
		return effects.ShopResult{}
	}

	switch kind {
	case types.ShopTxnPurchase:
		bought := quantity
		if bought > listing.Stock {
			bought = listing.Stock
		}
		if bought <= 0 {
			return effects.ShopResult{}
		}
		listing.Stock -= bought
		return effects.ShopResult{Success: true, Quantity: bought, TotalPrice: float64(bought) * listing.BuyPrice}
	case types.ShopTxnSale:
		listing.Stock += quantity
		return effects.ShopResult{Success: true, Quantity: quantity, TotalPrice: float64(quantity) * listing.SellPrice}
	default:
		return effects.ShopResult{}
	}
}

// CaptureState serializes every shop's listings.
func (s *System) CaptureState() State {
	s.gate.Lock()
	defer s.gate.Unlock()

	out := State{Shops: make(map[types.EntityId][]Listing)}
	for shop, st := range s.shops {
		for _, l := range st.listings {
			out.Shops[shop] = append(out.Shops[shop], *l)
		}
	}
	return out
}

// ApplyState replaces the system's contents with state.
func (s *System) ApplyState(state State) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.shops = make(map[types.EntityId]*shopState)
	for shop, listings := range state.Shops {
		st := &shopState{listings: make(map[string]*Listing)}
		for _, l := range listings {
			cp := l
			st.listings[l.ItemId] = &cp
		}
		s.shops[shop] = st
	}
}
