// Package logfile is the append-only sequential file the redo log is
// written to: a bounded set of primitives (append at a tracked offset,
// positional read, size, sync, close), grounded on the teacher's
// wal_manager.WALSegment but simplified to a single file, since segment
// rollover is a scaling concern this core's spec does not require.
package logfile

import (
	"io"
	"os"
	"sync"

	"framewal/rc"
)

// File is an append-only log file with a monotonically advancing write
// offset. Reads are positional (ReadAt) so LogEntryIterator can walk the
// file independently of concurrent appends.
type File struct {
	mu   sync.Mutex
	f    *os.File
	size int64
}

// Open opens or creates the log file at path.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, rc.Wrap(rc.IOErr, "open log file", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, rc.Wrap(rc.IOErr, "stat log file", err)
	}
	return &File{f: f, size: stat.Size()}, nil
}

// Append writes p at the current end of file and advances the offset. It
// returns the offset p was written at and the number of bytes actually
// written — on a partial write (err != nil, n < len(p)) the caller can use n
// to figure out how much of a batched payload actually landed.
func (lf *File) Append(p []byte) (offset int64, n int, err error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	offset = lf.size
	n, err = lf.f.WriteAt(p, offset)
	lf.size += int64(n)
	if err != nil {
		return offset, n, rc.Wrap(rc.IOErr, "append to log file", err)
	}
	return offset, n, nil
}

// ReadAt reads len(p) bytes starting at offset, mirroring os.File.ReadAt's
// contract: n < len(p) with err == io.EOF means a clean end of file with no
// bytes read (n == 0) or a torn trailing record (n > 0).
func (lf *File) ReadAt(p []byte, offset int64) (int, error) {
	return lf.f.ReadAt(p, offset)
}

// Size returns the current logical end-of-file offset.
func (lf *File) Size() int64 {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return lf.size
}

// EOF reports whether offset is at or past the current end of file.
func (lf *File) EOF(offset int64) bool {
	return offset >= lf.Size()
}

// Sync forces the file to stable storage — the durability guarantee
// LogManager.Sync depends on for commit.
func (lf *File) Sync() error {
	if err := lf.f.Sync(); err != nil {
		return rc.Wrap(rc.IOErr, "fsync log file", err)
	}
	return nil
}

// Close closes the underlying file handle.
func (lf *File) Close() error {
	return lf.f.Close()
}

var _ io.ReaderAt = (*File)(nil)
