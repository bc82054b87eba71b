// Package logrecord defines the redo log's on-disk binary format: a fixed
// 18-byte header followed by a type-specific payload, plus builder functions
// that construct entries without touching I/O. The wire format is bit-exact
// and must not change without updating every LogFile ever written.
package logrecord

import (
	"encoding/binary"

	"framewal/rc"
)

// Type identifies the payload shape of a LogEntry.
type Type uint16

const (
	TypeError Type = iota
	TypeMTRBegin
	TypeMTRRollback
	TypeMTRCommit
	TypeInsert
	TypeDelete
	TypeUpdate
)

func (t Type) String() string {
	switch t {
	case TypeError:
		return "ERROR"
	case TypeMTRBegin:
		return "MTR_BEGIN"
	case TypeMTRRollback:
		return "MTR_ROLLBACK"
	case TypeMTRCommit:
		return "MTR_COMMIT"
	case TypeInsert:
		return "INSERT"
	case TypeDelete:
		return "DELETE"
	case TypeUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// IsMutation reports whether t is a record-mutation type (INSERT/DELETE/
// UPDATE and any future table-mutation types), as opposed to a control
// record (BEGIN/COMMIT/ROLLBACK/ERROR).
func (t Type) IsMutation() bool {
	switch t {
	case TypeInsert, TypeDelete, TypeUpdate:
		return true
	default:
		return false
	}
}

// HeaderSize is the fixed on-disk size of Header, in bytes.
const HeaderSize = 18

// Header is the fixed-size framing record preceding every LogEntry payload.
type Header struct {
	LogType     Type
	TrxID       int32
	LogEntryLen int32
	LSN         int64
}

// Encode serializes h into a HeaderSize-byte little-endian buffer.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(h.LogType))
	binary.LittleEndian.PutUint32(buf[2:6], uint32(h.TrxID))
	binary.LittleEndian.PutUint32(buf[6:10], uint32(h.LogEntryLen))
	binary.LittleEndian.PutUint64(buf[10:18], uint64(h.LSN))
	return buf
}

// DecodeHeader parses a HeaderSize-byte buffer into a Header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, rc.New(rc.IOErr, "log header buffer shorter than HeaderSize")
	}
	return Header{
		LogType:     Type(binary.LittleEndian.Uint16(buf[0:2])),
		TrxID:       int32(binary.LittleEndian.Uint32(buf[2:6])),
		LogEntryLen: int32(binary.LittleEndian.Uint32(buf[6:10])),
		LSN:         int64(binary.LittleEndian.Uint64(buf[10:18])),
	}, nil
}

// RID locates a row within a table: (page_num, slot_num).
type RID struct {
	PageNum uint32
	SlotNum uint32
}

// Entry is a tagged log record: a Header plus its raw encoded payload.
// Decoded field access for mutation payloads goes through
// DecodeMutationPayload.
type Entry struct {
	Header  Header
	Payload []byte
}

// Encode serializes the full entry (header + payload) for appending to a
// LogFile. LogBuffer appends it as one contiguous unit; only a partial write
// to the file can leave it cut short on disk.
func (e *Entry) Encode() []byte {
	buf := make([]byte, 0, HeaderSize+len(e.Payload))
	buf = append(buf, e.Header.Encode()...)
	buf = append(buf, e.Payload...)
	return buf
}

// CommitPayload is the decoded MTR_COMMIT payload.
type CommitPayload struct {
	CommitXID int32
}

// MutationPayload is the decoded payload for INSERT/DELETE/UPDATE entries.
type MutationPayload struct {
	TableID    int32
	RID        RID
	DataOffset int32
	DataLen    int32
	Data       []byte
}

// BuildMTREntry builds a MTR_BEGIN or MTR_ROLLBACK entry (no payload).
func BuildMTREntry(t Type, trxID int32) (*Entry, error) {
	if t != TypeMTRBegin && t != TypeMTRRollback {
		return nil, rc.New(rc.InvalidArgument, "BuildMTREntry requires MTR_BEGIN or MTR_ROLLBACK")
	}
	return &Entry{Header: Header{LogType: t, TrxID: trxID, LogEntryLen: 0}}, nil
}

// BuildCommitEntry builds a MTR_COMMIT entry carrying the commit xid.
func BuildCommitEntry(trxID, commitXID int32) *Entry {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(commitXID))
	return &Entry{
		Header:  Header{LogType: TypeMTRCommit, TrxID: trxID, LogEntryLen: int32(len(payload))},
		Payload: payload,
	}
}

// DecodeCommitPayload decodes a MTR_COMMIT entry's payload.
func DecodeCommitPayload(payload []byte) (CommitPayload, error) {
	if len(payload) < 4 {
		return CommitPayload{}, rc.New(rc.IOErr, "commit payload shorter than 4 bytes")
	}
	return CommitPayload{CommitXID: int32(binary.LittleEndian.Uint32(payload[0:4]))}, nil
}

// mutationHeaderSize is the fixed portion of a mutation payload preceding
// the variable-length data: table_id(4) + rid.page_num(4) + rid.slot_num(4)
// + data_offset(4) + data_len(4).
const mutationHeaderSize = 20

// BuildRecordEntry builds an INSERT/DELETE/UPDATE (or other mutation type)
// entry, copying dataLen bytes out of data starting at index 0 (the caller
// is responsible for slicing data to the relevant window before calling;
// dataOffset is metadata describing where within the row the mutation
// applies, not an index into the data argument).
func BuildRecordEntry(t Type, trxID int32, tableID int32, rid RID, dataLen, dataOffset int32, data []byte) (*Entry, error) {
	if !t.IsMutation() {
		return nil, rc.New(rc.InvalidArgument, "BuildRecordEntry requires a mutation type")
	}
	if dataLen < 0 || int(dataLen) > len(data) {
		return nil, rc.New(rc.InvalidArgument, "dataLen exceeds provided data")
	}

	payload := make([]byte, mutationHeaderSize+dataLen)
	binary.LittleEndian.PutUint32(payload[0:4], uint32(tableID))
	binary.LittleEndian.PutUint32(payload[4:8], rid.PageNum)
	binary.LittleEndian.PutUint32(payload[8:12], rid.SlotNum)
	binary.LittleEndian.PutUint32(payload[12:16], uint32(dataOffset))
	binary.LittleEndian.PutUint32(payload[16:20], uint32(dataLen))
	copy(payload[mutationHeaderSize:], data[:dataLen])

	return &Entry{
		Header:  Header{LogType: t, TrxID: trxID, LogEntryLen: int32(len(payload))},
		Payload: payload,
	}, nil
}

// DecodeMutationPayload decodes an INSERT/DELETE/UPDATE entry's payload.
func DecodeMutationPayload(payload []byte) (MutationPayload, error) {
	if len(payload) < mutationHeaderSize {
		return MutationPayload{}, rc.New(rc.IOErr, "mutation payload shorter than fixed header")
	}
	tableID := int32(binary.LittleEndian.Uint32(payload[0:4]))
	rid := RID{
		PageNum: binary.LittleEndian.Uint32(payload[4:8]),
		SlotNum: binary.LittleEndian.Uint32(payload[8:12]),
	}
	dataOffset := int32(binary.LittleEndian.Uint32(payload[12:16]))
	dataLen := int32(binary.LittleEndian.Uint32(payload[16:20]))
	if mutationHeaderSize+int(dataLen) > len(payload) {
		return MutationPayload{}, rc.New(rc.IOErr, "mutation payload data_len exceeds payload size")
	}
	data := payload[mutationHeaderSize : mutationHeaderSize+int(dataLen)]

	return MutationPayload{
		TableID:    tableID,
		RID:        rid,
		DataOffset: dataOffset,
		DataLen:    dataLen,
		Data:       data,
	}, nil
}
