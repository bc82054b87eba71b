package logrecord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{LogType: TypeInsert, TrxID: -7, LogEntryLen: 42, LSN: 123456789}
	decoded, err := DecodeHeader(h.Encode())
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestBuildCommitEntryRoundTrip(t *testing.T) {
	e := BuildCommitEntry(1, 7)
	require.Equal(t, TypeMTRCommit, e.Header.LogType)

	full := e.Encode()
	decodedHeader, err := DecodeHeader(full[:HeaderSize])
	require.NoError(t, err)
	require.Equal(t, e.Header, decodedHeader)

	payload, err := DecodeCommitPayload(full[HeaderSize:])
	require.NoError(t, err)
	require.Equal(t, int32(7), payload.CommitXID)
}

func TestBuildRecordEntryRoundTrip(t *testing.T) {
	data := []byte("hello world")
	e, err := BuildRecordEntry(TypeInsert, 3, 5, RID{PageNum: 9, SlotNum: 2}, int32(len(data)), 0, data)
	require.NoError(t, err)

	full := e.Encode()
	decodedHeader, err := DecodeHeader(full[:HeaderSize])
	require.NoError(t, err)
	require.Equal(t, e.Header, decodedHeader)

	mp, err := DecodeMutationPayload(full[HeaderSize:])
	require.NoError(t, err)
	require.Equal(t, int32(5), mp.TableID)
	require.Equal(t, RID{PageNum: 9, SlotNum: 2}, mp.RID)
	require.Equal(t, data, mp.Data)
}

func TestBuildMTREntryRejectsWrongType(t *testing.T) {
	_, err := BuildMTREntry(TypeMTRCommit, 1)
	require.Error(t, err)
}

func TestBuildRecordEntryRejectsNonMutationType(t *testing.T) {
	_, err := BuildRecordEntry(TypeMTRBegin, 1, 1, RID{}, 0, 0, nil)
	require.Error(t, err)
}
