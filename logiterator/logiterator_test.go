package logiterator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"framewal/logfile"
	"framewal/logrecord"
)

func TestNextYieldsEntriesInOrderThenCleanEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	f, err := logfile.Open(path)
	require.NoError(t, err)
	defer f.Close()

	e1, err := logrecord.BuildMTREntry(logrecord.TypeMTRBegin, 1)
	require.NoError(t, err)
	e1.Header.LSN = 1
	e2 := logrecord.BuildCommitEntry(1, 9)
	e2.Header.LSN = 2

	_, _, err = f.Append(e1.Encode())
	require.NoError(t, err)
	_, _, err = f.Append(e2.Encode())
	require.NoError(t, err)

	it := New(f)

	require.NoError(t, it.Next())
	require.True(t, it.Valid())
	require.Equal(t, logrecord.TypeMTRBegin, it.Entry().Header.LogType)

	require.NoError(t, it.Next())
	require.True(t, it.Valid())
	require.Equal(t, logrecord.TypeMTRCommit, it.Entry().Header.LogType)

	err = it.Next()
	require.Error(t, err)
	require.False(t, it.Valid())
}

func TestTruncatedTrailingRecordEndsIterationWithoutPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	f, err := logfile.Open(path)
	require.NoError(t, err)

	good, err := logrecord.BuildRecordEntry(logrecord.TypeInsert, 1, 1, logrecord.RID{PageNum: 1, SlotNum: 1}, 4, 0, []byte("data"))
	require.NoError(t, err)
	_, _, err = f.Append(good.Encode())
	require.NoError(t, err)

	// Simulate a crash mid-write: append a header claiming a payload that
	// never actually follows.
	torn := logrecord.Header{LogType: logrecord.TypeInsert, TrxID: 2, LogEntryLen: 100, LSN: 2}
	_, _, err = f.Append(torn.Encode())
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f2, err := logfile.Open(path)
	require.NoError(t, err)
	defer f2.Close()

	it := New(f2)
	require.NoError(t, it.Next())
	require.Equal(t, logrecord.TypeInsert, it.Entry().Header.LogType)

	err = it.Next()
	require.Error(t, err, "a torn trailing record must surface an error, not panic")
	require.False(t, it.Valid())
}
