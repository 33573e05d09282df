package lsm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAndOpenSegmentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg1.seg")

	entries := []entry{
		{key: "c", value: []byte("3")},
		{key: "a", value: []byte("1")},
		{key: "b", value: []byte("2")},
	}

	seg, err := WriteSegment(path, entries, 1000)
	require.NoError(t, err)
	require.Equal(t, "a", seg.MinKey)
	require.Equal(t, "c", seg.MaxKey)

	reopened, err := OpenSegment(SegmentMetadata{
		Path: path, MinKey: seg.MinKey, MaxKey: seg.MaxKey,
		SizeBytes: seg.SizeBytes, TimestampMs: seg.TimestampMs,
	})
	require.NoError(t, err)

	v, found := reopened.Read("b")
	require.True(t, found)
	require.Equal(t, "2", string(v))

	_, found = reopened.Read("z")
	require.False(t, found)
}

func TestSegmentInRangeAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.seg")
	entries := []entry{{key: "m", value: []byte("v")}}

	seg, err := WriteSegment(path, entries, 1)
	require.NoError(t, err)

	require.True(t, seg.InRange("m"))
	require.False(t, seg.InRange("z"))
	require.True(t, seg.Contains("m"))
	require.False(t, seg.Contains("x"))
}

func TestSegmentScanReturnsKeyRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.seg")
	entries := []entry{
		{key: "a", value: []byte("1")},
		{key: "b", value: []byte("2")},
		{key: "c", value: []byte("3")},
		{key: "d", value: []byte("4")},
	}

	seg, err := WriteSegment(path, entries, 1)
	require.NoError(t, err)

	got := seg.Scan("b", "c")
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].key)
	require.Equal(t, "c", got[1].key)
}

func TestSegmentMergeNewerWinsAndDropsTombstones(t *testing.T) {
	older := &Segment{entries: []entry{
		{key: "a", value: []byte("old-a")},
		{key: "b", value: []byte("old-b")},
	}}
	newer := &Segment{entries: []entry{
		{key: "a", value: []byte("new-a")},
		{key: "c", value: []byte(tombstone)},
	}}

	merged := older.Merge(newer)

	byKey := make(map[string][]byte)
	for _, e := range merged {
		byKey[e.key] = e.value
	}

	require.Equal(t, "new-a", string(byKey["a"]))
	require.Equal(t, "old-b", string(byKey["b"]))
	_, hasTombstone := byKey["c"]
	require.False(t, hasTombstone)
}

func TestSplitDividesOnThreshold(t *testing.T) {
	entries := []entry{
		{key: "a", value: []byte("12345")},
		{key: "b", value: []byte("12345")},
		{key: "c", value: []byte("12345")},
	}

	head, overflow, split := Split(entries, 20)
	require.True(t, split)
	require.NotEmpty(t, head)
	require.NotEmpty(t, overflow)
	require.Equal(t, len(entries), len(head)+len(overflow))
}

func TestSplitNoOverflowWhenUnderThreshold(t *testing.T) {
	entries := []entry{{key: "a", value: []byte("v")}}

	head, overflow, split := Split(entries, 1<<20)
	require.False(t, split)
	require.Nil(t, overflow)
	require.Equal(t, entries, head)
}
