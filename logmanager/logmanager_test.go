package logmanager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"framewal/logrecord"
)

func TestAppendedEntriesRoundTripThroughFreshIterator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	m, err := Init(path)
	require.NoError(t, err)

	require.NoError(t, m.AppendBeginTrxLog(1))
	require.NoError(t, m.AppendRecordLog(logrecord.TypeInsert, 1, 5, logrecord.RID{PageNum: 2, SlotNum: 3}, 4, 0, []byte("data")))
	require.NoError(t, m.AppendCommitTrxLog(1, 42))
	require.NoError(t, m.Close())

	m2, err := Init(path)
	require.NoError(t, err)
	defer m2.Close()

	it := m2.Iterator()

	require.NoError(t, it.Next())
	require.Equal(t, logrecord.TypeMTRBegin, it.Entry().Header.LogType)
	require.Equal(t, int32(1), it.Entry().Header.TrxID)
	require.Equal(t, int64(1), it.Entry().Header.LSN)

	require.NoError(t, it.Next())
	require.Equal(t, logrecord.TypeInsert, it.Entry().Header.LogType)
	mp, err := logrecord.DecodeMutationPayload(it.Entry().Payload)
	require.NoError(t, err)
	require.Equal(t, []byte("data"), mp.Data)

	require.NoError(t, it.Next())
	require.Equal(t, logrecord.TypeMTRCommit, it.Entry().Header.LogType)
	cp, err := logrecord.DecodeCommitPayload(it.Entry().Payload)
	require.NoError(t, err)
	require.Equal(t, int32(42), cp.CommitXID)

	require.Error(t, it.Next())
}

func TestAppendLogRejectsNilEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	m, err := Init(path)
	require.NoError(t, err)
	defer m.Close()

	require.Error(t, m.AppendLog(nil))
}

func TestLSNsAreMonotonicAcrossAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	m, err := Init(path)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.AppendBeginTrxLog(1))
	require.NoError(t, m.AppendBeginTrxLog(2))
	require.NoError(t, m.AppendRollbackTrxLog(2))

	require.NoError(t, m.Sync())

	it := m.Iterator()
	var lsns []int64
	for {
		if err := it.Next(); err != nil {
			break
		}
		lsns = append(lsns, it.Entry().Header.LSN)
	}
	require.Equal(t, []int64{1, 2, 3}, lsns)
}
