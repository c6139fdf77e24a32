package worldstore

import (
	"sync"
	"sync/atomic"

	"github.com/cuemby/goapsim/pkg/types"
)

type thingsMap = map[types.EntityId]*types.Entity
type factsSet = map[types.Fact]struct{}

// shard is one partition of the world. things/facts are swapped atomically
// by a commit holding gate; readers load the current pointer without
// taking gate at all.
type shard struct {
	index   int
	gate    sync.Mutex
	version atomic.Uint64
	things  atomic.Pointer[thingsMap]
	facts   atomic.Pointer[factsSet]
}

func newShard(index int) *shard {
	s := &shard{index: index}
	empty := make(thingsMap)
	emptyFacts := make(factsSet)
	s.things.Store(&empty)
	s.facts.Store(&emptyFacts)
	return s
}

func (s *shard) loadThings() thingsMap {
	return *s.things.Load()
}

func (s *shard) loadFacts() factsSet {
	return *s.facts.Load()
}

// shardBuilder stages copy-on-write mutations for one touched shard during
// a commit. It is only ever touched while the shard's gate is held.
type shardBuilder struct {
	shard  *shard
	things thingsMap
	facts  factsSet
}

func newShardBuilder(s *shard) *shardBuilder {
	src := s.loadThings()
	things := make(thingsMap, len(src))
	for k, v := range src {
		things[k] = v
	}
	srcFacts := s.loadFacts()
	facts := make(factsSet, len(srcFacts))
	for k := range srcFacts {
		facts[k] = struct{}{}
	}
	return &shardBuilder{shard: s, things: things, facts: facts}
}

func (b *shardBuilder) install() {
	things := b.things
	facts := b.facts
	b.shard.things.Store(&things)
	b.shard.facts.Store(&facts)
	b.shard.version.Add(1)
}
