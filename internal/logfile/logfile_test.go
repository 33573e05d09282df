package logfile

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReadAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	defer lf.Close()

	offset1, n1, err := lf.Append([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, int64(0), offset1)
	require.Equal(t, 5, n1)

	offset2, n2, err := lf.Append([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, int64(5), offset2)
	require.Equal(t, 6, n2)

	require.Equal(t, int64(11), lf.Size())

	got, err := lf.ReadAt(offset2, n2)
	require.NoError(t, err)
	require.Equal(t, "world!", string(got))
}

func TestAppendPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")

	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	_, _, err = lf.Append([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, lf.Close())

	reopened, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, int64(len("persisted")), reopened.Size())
	got, err := reopened.ReadAt(0, len("persisted"))
	require.NoError(t, err)
	require.Equal(t, "persisted", string(got))
}

func TestReadAtPastEndOfFileReturnsIndexOutOfRangeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	defer lf.Close()

	_, _, err = lf.Append([]byte("hello"))
	require.NoError(t, err)

	_, err = lf.ReadAt(0, 100)
	require.Error(t, err)

	var storageErr *errors.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, errors.ErrorCodeIndexOutOfRange, storageErr.Code())
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)

	require.NoError(t, lf.Close())
	require.NoError(t, lf.Close())
}

func TestAppendOnClosedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop()})
	require.NoError(t, err)
	require.NoError(t, lf.Close())

	_, _, err = lf.Append([]byte("x"))
	require.Error(t, err)
}

func TestSyncEveryBatchesFsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.log")
	lf, err := Open(Config{Path: path, Logger: logger.Noop(), SyncEvery: 3})
	require.NoError(t, err)
	defer lf.Close()

	require.False(t, lf.syncOnAppend)

	for i := 0; i < 3; i++ {
		_, _, err := lf.Append([]byte("x"))
		require.NoError(t, err)
	}
	require.Equal(t, 0, lf.appendsSinceSync)
}
