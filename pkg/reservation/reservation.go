package reservation

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/goapsim/pkg/types"
)

// Service arbitrates exclusive and soft claims on entities across actors.
// All mutation is lock-free: each key's current token is swapped with a
// compare-and-set, never under a shared mutex.
type Service struct {
	tokens sync.Map // types.EntityId -> *types.ReservationToken
	logger zerolog.Logger
}

// New creates an empty reservation service.
func New(logger zerolog.Logger) *Service {
	return &Service{logger: logger.With().Str("component", "reservation").Logger()}
}

type undoFunc func()

// TryAcquireAll attempts to acquire every reservation atomically: either
// every token ends up owned by (actorId, planId), or none of the map's
// visible state changes.
func (s *Service) TryAcquireAll(reservations []types.Reservation, planId string, actorId types.EntityId) bool {
	if len(reservations) == 0 {
		return true
	}

	ordered := make([]types.Reservation, len(reservations))
	copy(ordered, reservations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Thing < ordered[j].Thing })

	var undos []undoFunc
	var selfRefresh []types.Reservation

	rollback := func() {
		for i := len(undos) - 1; i >= 0; i-- {
			undos[i]()
		}
	}

	now := time.Now().UTC()
	for _, r := range ordered {
		want := &types.ReservationToken{
			Thing:      r.Thing,
			Owner:      actorId,
			PlanId:     planId,
			Mode:       r.Mode,
			Priority:   r.Priority,
			CreatedUtc: now,
		}

		actual, loaded := s.tokens.LoadOrStore(r.Thing, want)
		if !loaded {
			thing := r.Thing
			undos = append(undos, func() {
				s.tokens.CompareAndDelete(thing, want)
			})
			continue
		}

		cur := actual.(*types.ReservationToken)
		if cur.Owner == actorId {
			selfRefresh = append(selfRefresh, r)
			continue
		}
		if cur.Mode == types.ReservationSoft && r.Priority > cur.Priority {
			if s.tokens.CompareAndSwap(r.Thing, cur, want) {
				thing, prior := r.Thing, cur
				undos = append(undos, func() {
					s.tokens.CompareAndSwap(thing, want, prior)
				})
				continue
			}
		}
		rollback()
		return false
	}

	for _, r := range selfRefresh {
		actual, ok := s.tokens.Load(r.Thing)
		if !ok {
			continue
		}
		cur := actual.(*types.ReservationToken)
		refreshed := &types.ReservationToken{
			Thing:      r.Thing,
			Owner:      actorId,
			PlanId:     planId,
			Mode:       r.Mode,
			Priority:   r.Priority,
			CreatedUtc: now,
		}
		s.tokens.CompareAndSwap(r.Thing, cur, refreshed)
	}

	return true
}

// ReleaseAll removes only the tokens this call owns: owner==actorId and
// planId matches.
func (s *Service) ReleaseAll(reservations []types.Reservation, planId string, actorId types.EntityId) {
	for _, r := range reservations {
		actual, ok := s.tokens.Load(r.Thing)
		if !ok {
			continue
		}
		cur := actual.(*types.ReservationToken)
		if cur.Owner == actorId && cur.PlanId == planId {
			s.tokens.CompareAndDelete(r.Thing, cur)
		}
	}
}

// HasActiveReservation reports whether thing is held Hard by someone
// other than requester.
func (s *Service) HasActiveReservation(thing types.EntityId, requester types.EntityId) bool {
	actual, ok := s.tokens.Load(thing)
	if !ok {
		return false
	}
	cur := actual.(*types.ReservationToken)
	return cur.Owner != requester && cur.Mode == types.ReservationHard
}

// CaptureState serializes every currently held token.
func (s *Service) CaptureState() []types.ReservationToken {
	var out []types.ReservationToken
	s.tokens.Range(func(_, value any) bool {
		out = append(out, *value.(*types.ReservationToken))
		return true
	})
	return out
}

// ApplyState clears all current tokens and reinstalls the given list.
func (s *Service) ApplyState(tokens []types.ReservationToken) {
	s.tokens.Range(func(key, _ any) bool {
		s.tokens.Delete(key)
		return true
	})
	for i := range tokens {
		t := tokens[i]
		s.tokens.Store(t.Thing, &t)
	}
}
