package scanner

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/internal/logfile"
	"github.com/iamNilotpal/ignite/internal/record"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func openDataLog(t *testing.T) *logfile.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := logfile.Open(logfile.Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	t.Cleanup(func() { lf.Close() })
	return lf
}

func appendData(t *testing.T, lf *logfile.File, rec *record.DataRecord) {
	t.Helper()
	_, _, err := lf.Append(record.EncodeData(rec))
	require.NoError(t, err)
}

func TestScanNewestReturnsLatestByTimestamp(t *testing.T) {
	lf := openDataLog(t)

	appendData(t, lf, record.NewDataRecord("k", []byte("v1"), record.OpAdd, 100))
	appendData(t, lf, record.NewDataRecord("other", []byte("x"), record.OpAdd, 150))
	appendData(t, lf, record.NewDataRecord("k", []byte("v2"), record.OpUpdate, 200))

	rec, _, _, found, err := ScanNewestData(lf, "k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v2", string(rec.Value()))
}

func TestScanNewestTieBreaksOnLaterAppend(t *testing.T) {
	lf := openDataLog(t)

	appendData(t, lf, record.NewDataRecord("k", []byte("first"), record.OpAdd, 500))
	appendData(t, lf, record.NewDataRecord("k", []byte("second"), record.OpUpdate, 500))

	rec, _, _, found, err := ScanNewestData(lf, "k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "second", string(rec.Value()))
}

func TestScanNewestNotFound(t *testing.T) {
	lf := openDataLog(t)
	appendData(t, lf, record.NewDataRecord("k", []byte("v"), record.OpAdd, 1))

	_, _, _, found, err := ScanNewestData(lf, "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestReplayAppliesIndexRecordsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.log")
	lf, err := logfile.Open(logfile.Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	defer lf.Close()

	recs := []*record.IndexRecord{
		record.NewIndexRecord("a", 0, 10, record.OpAdd, 1),
		record.NewIndexRecord("b", 10, 20, record.OpAdd, 2),
		record.NewIndexRecord("a", 0, 10, record.OpDelete, 3),
	}
	for _, r := range recs {
		_, _, err := lf.Append(record.EncodeIndex(r))
		require.NoError(t, err)
	}

	result := make(map[string]bool)
	err = Replay(lf, func(rec *record.IndexRecord) {
		switch rec.Operation() {
		case record.OpAdd, record.OpUpdate:
			result[rec.Key()] = true
		case record.OpDelete:
			delete(result, rec.Key())
		}
	})
	require.NoError(t, err)

	require.False(t, result["a"])
	require.True(t, result["b"])
}
