// Package framemanager is the concurrent facade over frameallocator and
// framecache: alloc/get/free/find_list/evict_frames, all serialized by a
// single mutex held for each call's entire duration, mirroring the teacher
// repo's storage_engine/bufferpool.BufferPool but generalized to the
// FrameId/Frame vocabulary this core uses and tightened to the closed rc
// error taxonomy.
package framemanager

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"framewal/frame"
	"framewal/frameallocator"
	"framewal/framecache"
	"framewal/rc"
)

// EvictAction flushes a candidate Frame (typically to disk) and reports
// whether it may now be reclaimed. It must not call back into Manager on
// the same goroutine — Manager's mutex is held across this call.
type EvictAction func(f *frame.Frame) error

// Manager is the pinned-frame pool facade. A single mutex guards the cache
// and allocator together; every exported method holds it for its entire
// duration, including, in EvictFrames, the caller-supplied evict callback.
type Manager struct {
	mu     sync.Mutex
	alloc  *frameallocator.Allocator
	cache  *framecache.Cache
	logger *zap.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger attaches structured logging; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New initializes a Manager over a pool of poolNum frames.
func New(poolNum int, opts ...Option) (*Manager, error) {
	alloc, err := frameallocator.New(poolNum)
	if err != nil {
		return nil, err
	}
	cache, err := framecache.New(poolNum)
	if err != nil {
		return nil, rc.Wrap(rc.Internal, "failed to build frame cache", err)
	}

	m := &Manager{alloc: alloc, cache: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}

	m.logger.Debug("frame manager initialized",
		zap.Int("pool_frames", poolNum),
		zap.String("pool_bytes", humanize.Bytes(uint64(poolNum)*uint64(frame.PageSize))),
	)

	return m, nil
}

// Cleanup tears down the cache. It fails with rc.Internal if any Frame is
// still resident — a leak detector, not a forced eviction.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cache.Len() > 0 {
		return rc.New(rc.Internal, fmt.Sprintf("cleanup called with %d resident frames still pinned or cached", m.cache.Len()))
	}
	return nil
}

// Alloc pins and returns the Frame for (fileDesc, pageNum), allocating a new
// one from the pool if it is not already resident. It returns nil if the
// allocator is exhausted; callers should invoke EvictFrames and retry.
func (m *Manager) Alloc(fileDesc int32, pageNum uint32) *frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := frame.ID{FileDesc: fileDesc, PageNum: pageNum}

	if f, ok := m.cache.Get(id); ok {
		f.PinCount++
		return f
	}

	f := m.alloc.Alloc()
	if f == nil {
		m.logger.Debug("frame pool exhausted", zap.Int32("file_desc", fileDesc), zap.Uint32("page_num", pageNum))
		return nil
	}

	if f.PinCount != 0 {
		panic(fmt.Sprintf("framemanager: allocator handed out frame with nonzero pin_count=%d", f.PinCount))
	}

	f.ID = id
	f.PinCount = 1
	m.cache.Put(id, f)
	return f
}

// Get pins and returns the resident Frame for (fileDesc, pageNum), or nil if
// it is not resident. Get never allocates.
func (m *Manager) Get(fileDesc int32, pageNum uint32) *frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := frame.ID{FileDesc: fileDesc, PageNum: pageNum}
	f, ok := m.cache.Get(id)
	if !ok {
		return nil
	}
	f.PinCount++
	return f
}

// Free releases the last pin on (fileDesc, pageNum). f must be the resident
// Frame for that id with PinCount == 1; violating either precondition is a
// programmer error and panics rather than returning an error, matching the
// "implementation must assert" contract.
func (m *Manager) Free(fileDesc int32, pageNum uint32, f *frame.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := frame.ID{FileDesc: fileDesc, PageNum: pageNum}
	resident, ok := m.cache.Get(id)
	if !ok {
		panic(fmt.Sprintf("framemanager: Free called on %+v, which is not resident", id))
	}
	if resident != f {
		panic(fmt.Sprintf("framemanager: Free called with frame pointer that does not match resident entry for %+v", id))
	}
	if f.PinCount != 1 {
		panic(fmt.Sprintf("framemanager: Free called on %+v with pin_count=%d, want 1", id, f.PinCount))
	}

	f.PinCount = 0
	m.cache.Remove(id)
	m.alloc.Free(f)
	return nil
}

// FindList pins and returns every resident Frame belonging to fileDesc, used
// when closing or flushing a file.
func (m *Manager) FindList(fileDesc int32) []*frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*frame.Frame
	m.cache.ForEach(func(id frame.ID, f *frame.Frame) bool {
		if id.FileDesc == fileDesc {
			f.PinCount++
			out = append(out, f)
		}
		return true
	})
	return out
}

// EvictFrames walks resident frames in eviction-candidate order, invoking
// evictAction on each unpinned candidate. A successful evictAction removes
// the Frame from the cache and returns it to the allocator; a failing one
// leaves it resident so other candidates still get a chance. Stops once
// count frames have been evicted or the cache is exhausted. The mutex is
// held for the entire walk, including each evictAction call, by design —
// see the concurrency note in the design docs about why this is safe as
// long as evictAction performs pure I/O and does not re-enter Manager.
func (m *Manager) EvictFrames(count int, evictAction EvictAction) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	var toRemove []frame.ID

	m.cache.ForEach(func(id frame.ID, f *frame.Frame) bool {
		if evicted >= count {
			return false
		}
		if !f.CanEvict() {
			return true
		}

		if err := evictAction(f); err != nil {
			m.logger.Debug("evict_action failed, frame stays resident",
				zap.Any("frame_id", id), zap.Error(err))
			return true
		}

		m.logger.Debug("evicted frame",
			zap.Any("frame_id", id),
			zap.Bool("was_dirty", f.Dirty),
			zap.Uint64("checksum", f.Checksum()),
		)

		toRemove = append(toRemove, id)
		evicted++
		return evicted < count
	})

	for _, id := range toRemove {
		f, ok := m.cache.Get(id)
		if !ok {
			continue
		}
		m.cache.Remove(id)
		m.alloc.Free(f)
	}

	return evicted
}
