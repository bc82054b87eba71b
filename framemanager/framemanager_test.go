package framemanager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"framewal/frame"
)

func TestAllocThenGetReturnsSameFrameWithIncrementedPin(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)

	f1 := m.Alloc(1, 10)
	require.NotNil(t, f1)
	require.Equal(t, uint32(1), f1.PinCount)

	f2 := m.Get(1, 10)
	require.NotNil(t, f2)
	require.Same(t, f1, f2)
	require.Equal(t, uint32(2), f2.PinCount)
}

func TestGetOnAbsentFrameReturnsNil(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)
	require.Nil(t, m.Get(1, 99))
}

func TestPoolNeverExceedsCapacity(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)

	require.NotNil(t, m.Alloc(1, 0))
	require.NotNil(t, m.Alloc(1, 1))
	require.Nil(t, m.Alloc(1, 2), "pool of capacity 2 must refuse a third distinct page")
}

func TestEvictFramesEvictsOnlyUnpinnedUpToCount(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)

	pinned := m.Alloc(1, 0)
	require.NotNil(t, pinned)

	for i := uint32(1); i < 4; i++ {
		f := m.Alloc(1, i)
		require.NotNil(t, f)
		f.PinCount-- // drop the pin but keep the frame resident, leaving 3 evictable
		require.True(t, f.CanEvict())
	}

	evicted := m.EvictFrames(10, func(f *frame.Frame) error { return nil })
	require.Equal(t, 3, evicted, "only the 3 unpinned frames should be evicted; the pinned one must survive")

	require.NotNil(t, m.Get(1, 0), "pinned frame must still be resident")
}

func TestEvictActionFailureLeavesFrameResident(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)

	f := m.Alloc(1, 0)
	f.PinCount-- // drop the pin but keep the frame resident
	require.True(t, f.CanEvict())

	evicted := m.EvictFrames(1, func(f *frame.Frame) error { return errAlwaysFail })
	require.Equal(t, 0, evicted)
	require.NotNil(t, m.Get(1, 0), "frame must remain resident when evict_action fails")
}

var errAlwaysFail = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "forced eviction failure" }

func TestCleanupFailsWithResidentFrames(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)

	require.NotNil(t, m.Alloc(1, 0))
	require.Error(t, m.Cleanup())
}

func TestCleanupSucceedsWhenEmpty(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)
	require.NoError(t, m.Cleanup())
}

func TestFreeAssertsMatchingFrameAndPinCount(t *testing.T) {
	m, err := New(2)
	require.NoError(t, err)

	f := m.Alloc(1, 0)
	m.Alloc(1, 0) // second pin, now pin_count == 2

	require.Panics(t, func() { m.Free(1, 0, f) }, "freeing with pin_count != 1 must assert")

	other := m.Alloc(1, 1)
	require.NotNil(t, other)
	require.Panics(t, func() { m.Free(1, 0, other) }, "freeing with a frame that is not the resident one must assert")
}

func TestFindListReturnsOnlyMatchingFileDesc(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)

	require.NotNil(t, m.Alloc(1, 0))
	require.NotNil(t, m.Alloc(1, 1))
	require.NotNil(t, m.Alloc(2, 0))

	list := m.FindList(1)
	require.Len(t, list, 2)
	for _, f := range list {
		require.Equal(t, int32(1), f.ID.FileDesc)
	}
}
