package storage

import (
	"testing"

	"github.com/iamNilotpal/ignite/internal/record"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	s, err := New(&Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndReadDataRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	rec := record.NewDataRecord("k", []byte("v"), record.OpAdd, 1)
	offset, length, err := s.AppendData(rec)
	require.NoError(t, err)

	got, err := s.ReadData(offset, length)
	require.NoError(t, err)
	require.Equal(t, "k", got.Key())
	require.Equal(t, "v", string(got.Value()))
}

func TestAppendIndexIsReadableViaIndexLog(t *testing.T) {
	s := newTestStorage(t)

	rec := record.NewIndexRecord("k", 0, 10, record.OpAdd, 1)
	require.NoError(t, s.AppendIndex(rec))
	require.Greater(t, s.IndexLog().Size(), int64(0))
}

func TestCloseClosesBothLogs(t *testing.T) {
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	s, err := New(&Config{Options: &opts, Logger: logger.Noop()})
	require.NoError(t, err)

	require.NoError(t, s.Close())

	_, _, err = s.AppendData(record.NewDataRecord("k", []byte("v"), record.OpAdd, 1))
	require.ErrorIs(t, err, ErrStorageClosed)
}
