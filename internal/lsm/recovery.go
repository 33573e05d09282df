package lsm

import (
	"bytes"
	"os"

	atomicfile "github.com/natefinch/atomic"
)

// writeRecoverySnapshot atomically overwrites path with entries encoded via
// the same self-delimiting framing segment files use (spec.md §6: "Recovery
// snapshot file (LSM optional): binary encoding of the memtable as
// [(key, value), …]"). Each call replaces the previous snapshot outright —
// this is a point-in-time dump of the memtable, not an appended log.
func writeRecoverySnapshot(path string, entries []entry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.Write(encodeEntry(e))
	}
	return atomicfile.WriteFile(path, bytes.NewReader(buf.Bytes()))
}

// loadRecoverySnapshot decodes a file written by writeRecoverySnapshot. A
// missing file isn't an error: Close always flushes the memtable before
// returning, so a clean shutdown never leaves a snapshot to recover from. A
// truncated tail (a crash mid-write of the snapshot itself) is treated as a
// clean stop, same as a sequential log scan.
func loadRecoverySnapshot(path string) ([]entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []entry
	for len(data) >= entryHeaderSize {
		bodyLen, err := entryBodyLen(data)
		if err != nil {
			break
		}

		total := entryHeaderSize + bodyLen
		if len(data) < total {
			break
		}

		e, err := decodeEntry(data[:total])
		if err != nil {
			break
		}

		entries = append(entries, e)
		data = data[total:]
	}

	return entries, nil
}
