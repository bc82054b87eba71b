// Package recovery implements the one-pass forward replay driven by
// Recover: classify each log entry, redo committed work, and roll back
// whatever transaction never reached a commit or explicit rollback marker
// before the log ends. Grounded on the teacher's storage_engine/
// recover_wal.go, generalized from its JSON Operation type to logrecord's
// binary Entry and from a global transaction-manager singleton to an
// explicitly passed TrxManager, per the source design's own redesign note.
package recovery

import (
	"go.uber.org/zap"

	"framewal/logiterator"
	"framewal/logrecord"
	"framewal/rc"
)

// Database is an opaque handle passed through to transaction redo/rollback;
// recovery never inspects it.
type Database interface{}

// Trx is the minimal transaction contract recovery drives.
type Trx interface {
	// Redo applies (or, for a mutation entry observed before commit,
	// stages) entry's effect against db.
	Redo(db Database, entry *logrecord.Entry) error
	// Rollback undoes whatever this transaction staged or applied.
	Rollback() error
}

// TrxManager is the minimal transaction-manager contract recovery drives.
type TrxManager interface {
	CreateTrx(trxID int32) (Trx, error)
	FindTrx(trxID int32) (Trx, bool)
}

// Recover performs a single forward scan of it, dispatching each entry to
// the transaction manager, and rolls back every transaction still open at
// end of log. A torn trailing record (header read cleanly but payload read
// failed) stops the scan early and proceeds straight to the rollback step —
// any transaction whose commit was mid-write is naturally rolled back by
// this rule.
func Recover(db Database, tm TrxManager, it *logiterator.Iterator, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	uncommitted := make(map[int32]struct{})

	for {
		err := it.Next()
		if err != nil {
			if rc.Is(err, rc.RecordEOF) {
				break
			}
			logger.Warn("log iteration stopped by torn tail, proceeding to rollback of open transactions", zap.Error(err))
			break
		}

		entry := it.Entry()
		switch entry.Header.LogType {
		case logrecord.TypeMTRBegin:
			if _, err := tm.CreateTrx(entry.Header.TrxID); err != nil {
				return err
			}
			uncommitted[entry.Header.TrxID] = struct{}{}

		case logrecord.TypeMTRCommit:
			if trx, ok := tm.FindTrx(entry.Header.TrxID); ok {
				if err := trx.Redo(db, entry); err != nil {
					return err
				}
			}
			delete(uncommitted, entry.Header.TrxID)

		case logrecord.TypeMTRRollback:
			// An explicit rollback marker means this transaction's outcome
			// was already decided before the crash: it is not a mutation to
			// redo, and it must not be rolled back again in the end-of-log
			// sweep below. Resolves the spec's silence on where
			// MTR_ROLLBACK fits the BEGIN/COMMIT/ERROR/mutation dispatch —
			// see DESIGN.md.
			if trx, ok := tm.FindTrx(entry.Header.TrxID); ok {
				if err := trx.Rollback(); err != nil {
					return err
				}
			}
			delete(uncommitted, entry.Header.TrxID)

		case logrecord.TypeError:
			continue

		default: // record mutation
			if trx, ok := tm.FindTrx(entry.Header.TrxID); ok {
				if err := trx.Redo(db, entry); err != nil {
					return err
				}
			}
		}
	}

	for trxID := range uncommitted {
		trx, ok := tm.FindTrx(trxID)
		if !ok {
			continue
		}
		if err := trx.Rollback(); err != nil {
			return err
		}
		logger.Debug("rolled back uncommitted transaction", zap.Int32("trx_id", trxID))
	}

	return nil
}
