// Package logiterator is a forward cursor over a logfile.File, grounded on
// the teacher's WAL replay scan and on
// wycl16514-database-system-recovery-record's LogIterator: read a header,
// then its payload if any, and hand back one LogEntry per Next call.
package logiterator

import (
	"errors"
	"io"

	"framewal/logfile"
	"framewal/logrecord"
	"framewal/rc"
)

// Iterator is a forward cursor over a LogFile, positioned at its start on
// construction. It owns the current entry: each Next call replaces whatever
// LogEntry it previously returned.
type Iterator struct {
	file    *logfile.File
	offset  int64
	current *logrecord.Entry
	valid   bool
}

// New binds an Iterator to file, starting at offset 0.
func New(file *logfile.File) *Iterator {
	return &Iterator{file: file}
}

// Next reads the next header and, if the entry has a payload, its bytes,
// then constructs and stores the resulting LogEntry.
//
// It returns an rc.RecordEOF error when the header read hits a clean end of
// file (no bytes read at all). It returns an rc.IOErr when a header read is
// torn, or when the header read succeeds but the payload read is torn —
// the crash-mid-write case recovery must stop at.
func (it *Iterator) Next() error {
	it.current = nil
	it.valid = false

	headerBuf := make([]byte, logrecord.HeaderSize)
	n, err := it.file.ReadAt(headerBuf, it.offset)
	if n == 0 && errors.Is(err, io.EOF) {
		return rc.New(rc.RecordEOF, "clean end of log")
	}
	if n < len(headerBuf) {
		return rc.Wrap(rc.IOErr, "torn log header", err)
	}

	header, err := logrecord.DecodeHeader(headerBuf)
	if err != nil {
		return err
	}

	var payload []byte
	if header.LogEntryLen > 0 {
		payload = make([]byte, header.LogEntryLen)
		pn, perr := it.file.ReadAt(payload, it.offset+int64(logrecord.HeaderSize))
		if pn < len(payload) {
			return rc.Wrap(rc.IOErr, "torn log payload", perr)
		}
	}

	it.current = &logrecord.Entry{Header: header, Payload: payload}
	it.valid = true
	it.offset += int64(logrecord.HeaderSize) + int64(header.LogEntryLen)
	return nil
}

// Valid reports whether the last Next call produced a usable entry.
func (it *Iterator) Valid() bool {
	return it.valid
}

// Entry returns the last successfully parsed entry, or nil if none.
func (it *Iterator) Entry() *logrecord.Entry {
	return it.current
}

// Offset returns the byte offset the next Next call will read from.
func (it *Iterator) Offset() int64 {
	return it.offset
}
