package lsm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateOnMissingFileYieldsEmptyManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	m, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Empty(t, m.Segments())
}

func TestManifestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")

	m, err := LoadOrCreate(path)
	require.NoError(t, err)

	m.AddSegment(SegmentMetadata{Path: "s1.seg", MinKey: "a", MaxKey: "m", SizeBytes: 100, TimestampMs: 1})
	m.AddSegment(SegmentMetadata{Path: "s2.seg", MinKey: "n", MaxKey: "z", SizeBytes: 200, TimestampMs: 2})
	require.NoError(t, m.Save())

	reloaded, err := LoadOrCreate(path)
	require.NoError(t, err)

	segs := reloaded.Segments()
	require.Len(t, segs, 2)
	require.Equal(t, "s1.seg", segs[0].Path)
	require.Equal(t, "s2.seg", segs[1].Path)
}

func TestLoadOrCreateOnCorruptFileReturnsManifestCorruptedError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	_, err := LoadOrCreate(path)
	require.Error(t, err)

	var storageErr *errors.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, errors.ErrorCodeManifestCorrupted, storageErr.Code())
}

func TestManifestReplaceSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m, err := LoadOrCreate(path)
	require.NoError(t, err)

	m.AddSegment(SegmentMetadata{Path: "old.seg"})
	m.ReplaceSegments([]SegmentMetadata{{Path: "new.seg"}})

	segs := m.Segments()
	require.Len(t, segs, 1)
	require.Equal(t, "new.seg", segs[0].Path)
}
