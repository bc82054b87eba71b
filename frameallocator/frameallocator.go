// Package frameallocator owns a bounded pool of Frame storage, separate from
// the associative lookup FrameCache performs. It hands out and reclaims
// Frame slots but never tracks identity — that is FrameManager's job.
package frameallocator

import (
	"fmt"

	"framewal/frame"
	"framewal/rc"
)

// Allocator is a bounded free-list of Frame storage.
type Allocator struct {
	free     []*frame.Frame
	capacity int
	inUse    int
}

// New preallocates capacity frames of PageSize bytes each. It fails with an
// rc.NoMem error if the underlying allocation panics (e.g. the OS refuses a
// huge reservation), and with an rc.InvalidArgument error if capacity is
// non-positive.
func New(capacity int) (a *Allocator, err error) {
	if capacity <= 0 {
		return nil, rc.New(rc.InvalidArgument, fmt.Sprintf("pool capacity must be positive, got %d", capacity))
	}

	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = rc.New(rc.NoMem, fmt.Sprintf("failed to preallocate %d frames: %v", capacity, r))
		}
	}()

	free := make([]*frame.Frame, capacity)
	for i := range free {
		free[i] = frame.New()
	}

	return &Allocator{free: free, capacity: capacity}, nil
}

// Capacity returns the pool's fixed size.
func (a *Allocator) Capacity() int { return a.capacity }

// InUse returns the number of frames currently checked out.
func (a *Allocator) InUse() int { return a.inUse }

// Alloc returns an unused Frame with PinCount 0 and undefined (zeroed) data,
// or nil if the pool is exhausted. Callers are expected to invoke
// FrameManager.EvictFrames and retry.
func (a *Allocator) Alloc() *frame.Frame {
	if len(a.free) == 0 {
		return nil
	}
	n := len(a.free) - 1
	f := a.free[n]
	a.free[n] = nil
	a.free = a.free[:n]
	a.inUse++
	return f
}

// Free returns a Frame to the pool. The precondition PinCount == 0 is a
// programmer contract the caller (FrameManager) must have already verified;
// Free panics if it is violated, since a pinned frame re-entering the free
// list is a correctness bug, not a recoverable runtime condition.
func (a *Allocator) Free(f *frame.Frame) {
	if f.PinCount != 0 {
		panic(fmt.Sprintf("frameallocator: Free called on frame %+v with pin_count=%d", f.ID, f.PinCount))
	}
	f.Reset()
	a.free = append(a.free, f)
	a.inUse--
}
