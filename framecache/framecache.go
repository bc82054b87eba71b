// Package framecache is the associative FrameId -> *Frame map with ordered
// traversal for eviction, backed by hashicorp/golang-lru/v2's simplelru so
// that "most recently Get-ed moves to the back" and eviction-candidate
// traversal come from a maintained battle-tested structure instead of a
// hand-rolled linked list. The cache is sized to the frame pool's capacity,
// so FrameManager's own allocator bound means Put never triggers simplelru's
// own automatic eviction-on-insert — all eviction here is driven explicitly
// by FrameManager.EvictFrames via ForEach.
package framecache

import (
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"framewal/frame"
	"framewal/rc"
)

// Cache maps frame.ID to *frame.Frame with LRU-ordered traversal.
type Cache struct {
	lru *simplelru.LRU[frame.ID, *frame.Frame]
}

// New builds a Cache sized to capacity resident frames.
func New(capacity int) (*Cache, error) {
	lru, err := simplelru.NewLRU[frame.ID, *frame.Frame](capacity, nil)
	if err != nil {
		return nil, rc.Wrap(rc.InvalidArgument, "build frame cache", err)
	}
	return &Cache{lru: lru}, nil
}

// Get returns the resident Frame for id, if any, and promotes it to
// most-recently-used.
func (c *Cache) Get(id frame.ID) (*frame.Frame, bool) {
	return c.lru.Get(id)
}

// Put inserts or updates the Frame for id, marking it most-recently-used.
func (c *Cache) Put(id frame.ID, f *frame.Frame) {
	c.lru.Add(id, f)
}

// Remove evicts id from the cache without consulting eviction policy —
// used when the caller (FrameManager) already decided the Frame is leaving.
func (c *Cache) Remove(id frame.ID) {
	c.lru.Remove(id)
}

// Len returns the number of resident frames.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// ForEach visits resident frames in eviction-candidate order (least recently
// used first) without disturbing recency. The visitor returns false to stop
// early.
func (c *Cache) ForEach(visit func(id frame.ID, f *frame.Frame) bool) {
	for _, id := range c.lru.Keys() {
		f, ok := c.lru.Peek(id)
		if !ok {
			continue
		}
		if !visit(id, f) {
			return
		}
	}
}
