// Package frame defines the unit of caching for the frame pool: a
// page-sized buffer identified by (file descriptor, page number) plus the
// pin/dirty bookkeeping the frame manager needs to enforce eviction safety.
package frame

import "github.com/cespare/xxhash/v2"

// PageSize is the system-wide page size backing every Frame's Data buffer.
const PageSize = 4096

// ID uniquely identifies a page within an open file. It is structurally
// comparable, so it can be used directly as a map key.
type ID struct {
	FileDesc int32
	PageNum  uint32
}

// Frame is a single page-sized buffer plus identity and pin/dirty state.
// Frame is not safe for concurrent use on its own — all mutation happens
// under the FrameManager's mutex, per the concurrency model this pool is
// built around; callers holding a pinned Frame between calls own its Data
// buffer exclusively of the pool, but must coordinate among themselves if
// they share a single pin.
type Frame struct {
	ID       ID
	PinCount uint32
	Dirty    bool
	Data     []byte
}

// New allocates a Frame with a zeroed PageSize buffer and PinCount 0.
func New() *Frame {
	return &Frame{Data: make([]byte, PageSize)}
}

// Reset clears identity and dirty state and zeroes the buffer, returning the
// Frame to the state FrameAllocator.Alloc promises ("undefined data" is
// implemented here as zeroed, which is simpler to test against than truly
// undefined memory and costs nothing extra in Go).
func (f *Frame) Reset() {
	f.ID = ID{}
	f.PinCount = 0
	f.Dirty = false
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// CanEvict reports whether this Frame is a legal eviction candidate: no
// outstanding pins. Callers layering additional eviction policy (e.g.
// "dirty pages need a successful flush first") apply that check in the
// evict_action callback, not here.
func (f *Frame) CanEvict() bool {
	return f.PinCount == 0
}

// Checksum returns an xxhash digest of the frame's current contents, used
// for cheap integrity logging when a frame is evicted.
func (f *Frame) Checksum() uint64 {
	return xxhash.Sum64(f.Data)
}
