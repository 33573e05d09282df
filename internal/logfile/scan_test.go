package logfile

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/internal/record"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestSequentialScanOverDataRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	defer lf.Close()

	recs := []*record.DataRecord{
		record.NewDataRecord("a", []byte("1"), record.OpAdd, 1),
		record.NewDataRecord("b", []byte("2"), record.OpAdd, 2),
		record.NewDataRecord("c", []byte("3"), record.OpAdd, 3),
	}
	for _, r := range recs {
		_, _, err := lf.Append(record.EncodeData(r))
		require.NoError(t, err)
	}

	cursor, err := lf.SequentialScan(record.DataHeaderSize, record.DataBodyLen)
	require.NoError(t, err)
	defer cursor.Close()

	var seen []string
	for {
		_, raw, ok := cursor.Next()
		if !ok {
			break
		}
		decoded, err := record.DecodeData(raw)
		require.NoError(t, err)
		seen = append(seen, decoded.Key())
	}

	require.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestSequentialScanOnMissingFileYieldsNoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.log")
	lf := &File{path: path}

	cursor, err := lf.SequentialScan(record.DataHeaderSize, record.DataBodyLen)
	require.NoError(t, err)

	_, _, ok := cursor.Next()
	require.False(t, ok)
	require.NoError(t, cursor.Close())
}

func TestSequentialScanStopsCleanlyOnTruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)

	good := record.NewDataRecord("a", []byte("1"), record.OpAdd, 1)
	_, _, err = lf.Append(record.EncodeData(good))
	require.NoError(t, err)

	// Simulate a crash mid-write of a second record: a header-only partial append.
	_, _, err = lf.Append(record.EncodeData(record.NewDataRecord("b", []byte("2"), record.OpAdd, 2))[:record.DataHeaderSize])
	require.NoError(t, err)
	require.NoError(t, lf.Close())

	reopened, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	defer reopened.Close()

	cursor, err := reopened.SequentialScan(record.DataHeaderSize, record.DataBodyLen)
	require.NoError(t, err)
	defer cursor.Close()

	var count int
	for {
		_, _, ok := cursor.Next()
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 1, count)
}
