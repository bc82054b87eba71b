// Package logbuffer accumulates serialized LogEntries in insertion order and
// batches their flush to a logfile.File, grounded on the teacher's
// wal_manager buffered-segment-append pattern.
package logbuffer

import (
	"sort"

	"framewal/logfile"
	"framewal/logrecord"
	"framewal/rc"
)

// DefaultHighWaterMark is the accumulated-byte threshold at or past which
// AppendLogEntry triggers an internal flush.
const DefaultHighWaterMark = 64 * 1024

// Buffer is an ordered byte buffer accumulating serialized entries until
// flushed to its bound logfile.File.
type Buffer struct {
	target     *logfile.File
	highWater  int
	data       []byte
	entryEnds  []int // cumulative end offset into data for each buffered entry
}

// New builds a Buffer that flushes to target once accumulated bytes reach
// highWaterMark (0 disables automatic flushing; the caller must flush
// explicitly).
func New(target *logfile.File, highWaterMark int) *Buffer {
	return &Buffer{target: target, highWater: highWaterMark}
}

// AppendLogEntry serializes entry and appends it to the buffer, flushing
// internally if the high-water mark is now reached or exceeded.
func (b *Buffer) AppendLogEntry(entry *logrecord.Entry) error {
	if entry == nil {
		return rc.New(rc.InvalidArgument, "append_log_entry: nil entry")
	}

	encoded := entry.Encode()
	b.data = append(b.data, encoded...)
	b.entryEnds = append(b.entryEnds, len(b.data))

	if b.highWater > 0 && len(b.data) >= b.highWater {
		return b.Flush()
	}
	return nil
}

// Flush writes all accumulated bytes to the bound LogFile in order, then
// clears the buffer. On a partial write, only the entries whose bytes were
// fully committed are dropped from the buffer — the remainder (including any
// torn entry) stays buffered for a future flush attempt.
func (b *Buffer) Flush() error {
	if len(b.data) == 0 {
		return nil
	}

	_, n, err := b.target.Append(b.data)

	committedEntries := sort.Search(len(b.entryEnds), func(i int) bool {
		return b.entryEnds[i] > n
	})

	if committedEntries > 0 {
		cut := b.entryEnds[committedEntries-1]
		remainingData := append([]byte(nil), b.data[cut:]...)
		remainingEnds := make([]int, len(b.entryEnds)-committedEntries)
		for i, end := range b.entryEnds[committedEntries:] {
			remainingEnds[i] = end - cut
		}
		b.data = remainingData
		b.entryEnds = remainingEnds
	}

	if err != nil {
		return err
	}
	return nil
}

// Len returns the number of unflushed bytes currently buffered.
func (b *Buffer) Len() int {
	return len(b.data)
}
