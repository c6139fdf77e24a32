package worldstore

import "sync/atomic"

// versionCounter is the global, monotonically non-decreasing commit
// version shared by every snapshot taken from the store.
type versionCounter struct {
	v atomic.Uint64
}

func (c *versionCounter) load() uint64 {
	return c.v.Load()
}

func (c *versionCounter) increment() uint64 {
	return c.v.Add(1)
}
