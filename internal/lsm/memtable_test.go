package lsm

import (
	"testing"

	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestMemtablePutGetDelete(t *testing.T) {
	mt := NewMemtable(1<<20, logger.Noop())

	mt.Put("k", []byte("v"))
	v, found := mt.Get("k")
	require.True(t, found)
	require.Equal(t, "v", string(v))

	mt.Delete("k")
	v, found = mt.Get("k")
	require.True(t, found)
	require.Equal(t, tombstone, string(v))
}

func TestMemtableShouldFlush(t *testing.T) {
	mt := NewMemtable(10, logger.Noop())
	require.False(t, mt.ShouldFlush())

	mt.Put("key", []byte("0123456789"))
	require.True(t, mt.ShouldFlush())
}

func TestMemtableSnapshotSortsAndClears(t *testing.T) {
	mt := NewMemtable(1<<20, logger.Noop())
	mt.Put("c", []byte("3"))
	mt.Put("a", []byte("1"))
	mt.Put("b", []byte("2"))

	snap := mt.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, "a", snap[0].key)
	require.Equal(t, "b", snap[1].key)
	require.Equal(t, "c", snap[2].key)

	require.Equal(t, int64(0), mt.Size())
	_, found := mt.Get("a")
	require.False(t, found)
}

func TestMemtableCloseIsIdempotent(t *testing.T) {
	mt := NewMemtable(1<<20, logger.Noop())
	mt.Put("k", []byte("v"))
	mt.Close()
	mt.Close()
}

func TestMemtableEntriesDoesNotClear(t *testing.T) {
	mt := NewMemtable(1<<20, logger.Noop())
	mt.Put("b", []byte("2"))
	mt.Put("a", []byte("1"))

	entries := mt.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "a", entries[0].key)
	require.Equal(t, "b", entries[1].key)

	v, found := mt.Get("a")
	require.True(t, found)
	require.Equal(t, "1", string(v))
}

func TestMemtableLoadSeedsExistingTable(t *testing.T) {
	mt := NewMemtable(1<<20, logger.Noop())
	mt.Put("a", []byte("old"))

	mt.Load([]entry{{key: "a", value: []byte("new")}, {key: "b", value: []byte("2")}})

	v, found := mt.Get("a")
	require.True(t, found)
	require.Equal(t, "new", string(v))

	v, found = mt.Get("b")
	require.True(t, found)
	require.Equal(t, "2", string(v))
}
