// Package scanner implements the sequential, newest-wins key lookup over the
// data log (spec.md §4.3) and the index-log replay driver used by
// internal/engine.RestoreIndexes (spec.md §4.4).
package scanner

import (
	"github.com/iamNilotpal/ignite/internal/logfile"
	"github.com/iamNilotpal/ignite/internal/record"
)

// ScanNewest sweeps a log sequentially for key, returning the newest matching
// record of type T along with the offset and encoded length it was appended
// at. T is bounded by record.Indexable rather than hardcoded to a concrete
// record type (spec.md §9: "a generic bounded by this capability is
// sufficient... do not reach for runtime dispatch"), so the same scan logic
// serves both the data log (T = *record.DataRecord) and, should a future
// caller need newest-wins lookup over the index log, IndexRecords as well —
// headerSize/bodyLen/decode are supplied by the caller since they differ per
// concrete wire format. Tie-break on equal timestamps is "later wins" (>=),
// per spec.md §9: a millisecond collision is realistic and the
// later-appearing append is the one that should be considered authoritative.
func ScanNewest[T record.Indexable](
	lf *logfile.File,
	key string,
	headerSize int,
	bodyLen func([]byte) (int, error),
	decode func([]byte) (T, error),
) (rec T, offset int64, length int, found bool, err error) {
	cursor, err := lf.SequentialScan(headerSize, bodyLen)
	if err != nil {
		var zero T
		return zero, 0, 0, false, err
	}
	defer cursor.Close()

	var best T
	var bestOffset int64
	var bestLength int
	haveBest := false

	for {
		off, raw, ok := cursor.Next()
		if !ok {
			break
		}

		decoded, decodeErr := decode(raw)
		if decodeErr != nil {
			// A decode failure mid-stream is treated as clean EOF (spec.md
			// §4.2/§4.3): a crash can truncate the final record.
			break
		}

		if decoded.Key() == key && (!haveBest || decoded.Timestamp() >= best.Timestamp()) {
			best = decoded
			bestOffset = off
			bestLength = len(raw)
			haveBest = true
		}
	}

	if !haveBest {
		var zero T
		return zero, 0, 0, false, nil
	}
	return best, bestOffset, bestLength, true, nil
}

// ScanNewestData is a convenience wrapper around ScanNewest fixed to
// DataRecord's wire format — the only instantiation internal/engine needs
// today.
func ScanNewestData(lf *logfile.File, key string) (*record.DataRecord, int64, int, bool, error) {
	return ScanNewest[*record.DataRecord](lf, key, record.DataHeaderSize, record.DataBodyLen, record.DecodeData)
}

// Replay sequentially decodes every IndexRecord in the index log and invokes
// apply for each one, in append order. Replay stops at the first decode
// failure without returning an error (spec.md §7: "on mid-stream decode
// failure, accept the prefix decoded so far"). Unlike ScanNewest this isn't
// generic over record.Indexable: its whole purpose is rebuilding the
// in-memory index from the index log specifically, so there's no second
// instantiation for it to share logic with.
func Replay(lf *logfile.File, apply func(*record.IndexRecord)) error {
	cursor, err := lf.SequentialScan(record.IndexHeaderSize, record.IndexBodyLen)
	if err != nil {
		return err
	}
	defer cursor.Close()

	for {
		_, raw, ok := cursor.Next()
		if !ok {
			break
		}

		decoded, decodeErr := record.DecodeIndex(raw)
		if decodeErr != nil {
			break
		}

		apply(decoded)
	}

	return nil
}
