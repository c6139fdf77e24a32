package worldstore

import (
	"container/heap"
	"math"

	"github.com/cuemby/goapsim/pkg/types"
)

const unreachableDistance = math.MaxInt32

// Snapshot is an immutable, share-nothing view of the entire world at a
// particular global version. It never blocks a concurrent writer and is
// never mutated after construction.
type Snapshot struct {
	version    uint64
	shardCount int
	shardOf    func(types.EntityId) int
	things     []thingsMap
	facts      []factsSet
	width      int
	height     int
	walkable   [][]bool
	worldTime  types.WorldTime
	store      *WorldStore
}

// Version returns the global version this snapshot was taken at.
func (s *Snapshot) Version() uint64 { return s.version }

// WorldTime returns the clock reading captured with this snapshot.
func (s *Snapshot) WorldTime() types.WorldTime { return s.worldTime }

// GetThing looks up one entity by id.
func (s *Snapshot) GetThing(id types.EntityId) (*types.Entity, bool) {
	idx := s.shardOf(id)
	ent, ok := s.things[idx][id]
	return ent, ok
}

// AllThings yields every entity across every shard. The returned slice is
// freshly allocated and safe for the caller to retain.
func (s *Snapshot) AllThings() []*types.Entity {
	total := 0
	for _, m := range s.things {
		total += len(m)
	}
	out := make([]*types.Entity, 0, total)
	for _, m := range s.things {
		for _, e := range m {
			out = append(out, e)
		}
	}
	return out
}

// QueryByTag returns every entity whose tag set contains tag.
func (s *Snapshot) QueryByTag(tag string) []*types.Entity {
	key := normalizeKey(tag)
	var out []*types.Entity
	for _, m := range s.things {
		for _, e := range m {
			if e.Tags[key] {
				out = append(out, e)
			}
		}
	}
	return out
}

// HasFact tests fact membership.
func (s *Snapshot) HasFact(predicate string, a, b types.EntityId) bool {
	idx := s.shardOf(a)
	_, ok := s.facts[idx][types.Fact{Predicate: predicate, A: a, B: b}]
	return ok
}

// Distance returns the Manhattan distance between two entities, or a
// large sentinel if either is missing.
func (s *Snapshot) Distance(a, b types.EntityId) int {
	ea, ok := s.GetThing(a)
	if !ok {
		return unreachableDistance
	}
	eb, ok := s.GetThing(b)
	if !ok {
		return unreachableDistance
	}
	return ea.Position.ManhattanDistance(eb.Position)
}

// IsWalkable reports whether (x, y) is in-bounds and walkable.
func (s *Snapshot) IsWalkable(x, y int) bool {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return false
	}
	if s.walkable == nil {
		return true
	}
	return s.walkable[x][y]
}

type pathKey struct {
	version uint64
	from    types.Position
	to      types.Position
}

type pathResult struct {
	next types.Position
	ok   bool
}

// TryFindNextStep runs a 4-connected A* from "from" toward "to" and
// returns the first step to take. from == to returns (from, true): the
// identity case is treated as already-arrived rather than a pathing
// failure (documented open-question decision).
func (s *Snapshot) TryFindNextStep(from, to types.Position) (types.Position, bool) {
	if from == to {
		return from, true
	}
	key := pathKey{version: s.version, from: from, to: to}
	if s.store != nil && s.store.pathCache != nil {
		s.store.pathCacheMu.Lock()
		cached, found := s.store.pathCache.Get(key)
		s.store.pathCacheMu.Unlock()
		if found {
			return cached.next, cached.ok
		}
	}
	next, ok := s.aStarNextStep(from, to)
	if s.store != nil && s.store.pathCache != nil {
		s.store.pathCacheMu.Lock()
		s.store.pathCache.Add(key, pathResult{next: next, ok: ok})
		s.store.pathCacheMu.Unlock()
	}
	return next, ok
}

type pqItem struct {
	pos      types.Position
	priority int
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

func (s *Snapshot) aStarNextStep(from, to types.Position) (types.Position, bool) {
	if !s.IsWalkable(to.X, to.Y) {
		return types.Position{}, false
	}

	cameFrom := map[types.Position]types.Position{}
	gScore := map[types.Position]int{from: 0}
	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &pqItem{pos: from, priority: from.ManhattanDistance(to)})
	visited := map[types.Position]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqItem).pos
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == to {
			return s.reconstructFirstStep(cameFrom, from, to), true
		}
		for _, n := range neighbors4(cur) {
			if !s.IsWalkable(n.X, n.Y) {
				continue
			}
			tentative := gScore[cur] + 1
			if best, ok := gScore[n]; ok && tentative >= best {
				continue
			}
			gScore[n] = tentative
			cameFrom[n] = cur
			heap.Push(open, &pqItem{pos: n, priority: tentative + n.ManhattanDistance(to)})
		}
	}
	return types.Position{}, false
}

func (s *Snapshot) reconstructFirstStep(cameFrom map[types.Position]types.Position, from, to types.Position) types.Position {
	cur := to
	for {
		prev, ok := cameFrom[cur]
		if !ok || prev == from {
			return cur
		}
		cur = prev
	}
}

func neighbors4(p types.Position) []types.Position {
	return []types.Position{
		{X: p.X + 1, Y: p.Y},
		{X: p.X - 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
		{X: p.X, Y: p.Y - 1},
	}
}
