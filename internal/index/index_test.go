package index

import (
	"testing"

	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: logger.Noop()})
	require.NoError(t, err)
	return idx
}

func TestPutGetHasDelete(t *testing.T) {
	idx := newTestIndex(t)

	_, ok, err := idx.Get("k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, idx.Put("k", IndexBucket{Offset: 10, Length: 5}))

	has, err := idx.Has("k")
	require.NoError(t, err)
	require.True(t, has)

	bucket, ok, err := idx.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(10), bucket.Offset)
	require.Equal(t, uint32(5), bucket.Length)

	require.NoError(t, idx.Delete("k"))
	has, err = idx.Has("k")
	require.NoError(t, err)
	require.False(t, has)
}

func TestDeleteAbsentKeyIsNotAnError(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Delete("missing"))
}

func TestLen(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Put("a", IndexBucket{}))
	require.NoError(t, idx.Put("b", IndexBucket{}))

	n, err := idx.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestReplaceSwapsEntireMap(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Put("stale", IndexBucket{Offset: 1}))

	fresh := map[string]IndexBucket{"fresh": {Offset: 99}}
	require.NoError(t, idx.Replace(fresh))

	_, ok, err := idx.Get("stale")
	require.NoError(t, err)
	require.False(t, ok)

	bucket, ok, err := idx.Get("fresh")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(99), bucket.Offset)
}

func TestCloseIsTerminalAndIdempotentError(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), ErrIndexClosed)

	_, _, err := idx.Get("k")
	require.ErrorIs(t, err, ErrIndexClosed)
}
