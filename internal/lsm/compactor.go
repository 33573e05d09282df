package lsm

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
)

// Compactor runs spec.md §4.5's merge_and_compact pass: fold manifest
// segments oldest-to-newest (newer wins, tombstones only drop once nothing
// newer remains to overrule them), split any merge result that overflows the
// configured size threshold, and replace the manifest atomically before
// unlinking the superseded files.
type Compactor struct {
	segmentDir     string
	sizeThresholdB int64
}

// NewCompactor builds a Compactor that writes merged segments into
// segmentDir and splits any result larger than sizeThresholdBytes.
func NewCompactor(segmentDir string, sizeThresholdBytes int64) *Compactor {
	return &Compactor{segmentDir: segmentDir, sizeThresholdB: sizeThresholdBytes}
}

// MergeAndCompact folds manifest's segments oldest-to-newest through
// Segment.Merge, persists the result, and replaces manifest's segment list.
// It unlinks the superseded segment files itself, only after Manifest.Save
// has durably replaced the manifest (spec.md §4.5/§7: "fsync manifest before
// unlink"), and returns their paths.
func (c *Compactor) MergeAndCompact(manifest *Manifest) (supersededPaths []string, err error) {
	metas := manifest.Segments()
	if len(metas) < 2 {
		return nil, nil
	}

	// Segments() returns append order (oldest first); a stable
	// descending-by-timestamp sort keeps a later append ahead of an earlier
	// one when their millisecond timestamps collide, matching the same
	// later-wins tie-break scanner.ScanNewest uses. newestFirst is kept
	// around only to name the newest segment's timestamp below.
	newestFirst := make([]SegmentMetadata, len(metas))
	copy(newestFirst, metas)
	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}
	sort.SliceStable(newestFirst, func(i, j int) bool { return newestFirst[i].TimestampMs > newestFirst[j].TimestampMs })

	// The fold itself must run oldest-to-newest. Segment.Merge resolves
	// exactly two inputs and, wherever its result still carries a
	// tombstone, drops the key outright — correct only when "newer" in
	// that call is truly the most recent information available for the
	// key. Folding newest-into-oldest (as an earlier revision did) breaks
	// that: an intermediate tombstone gets dropped before an even older
	// segment's real value for the same key has been considered, so that
	// stale value resurfaces in the final output. Folding oldest-to-newest
	// means each Merge's "newer" argument really is newer than everything
	// merged so far, so a tombstone is only ever dropped once nothing
	// more recent remains that could overrule it.
	oldestFirst := make([]SegmentMetadata, len(newestFirst))
	copy(oldestFirst, newestFirst)
	for i, j := 0, len(oldestFirst)-1; i < j; i, j = i+1, j-1 {
		oldestFirst[i], oldestFirst[j] = oldestFirst[j], oldestFirst[i]
	}

	oldest := oldestFirst[0]
	oldestSeg, err := OpenSegment(oldest)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeCompactionFailed, "failed to open oldest segment for compaction").
			WithPath(oldest.Path)
	}
	mergedEntries := oldestSeg.entries
	supersededPaths = append(supersededPaths, oldest.Path)

	for _, newerMeta := range oldestFirst[1:] {
		newerSeg, err := OpenSegment(newerMeta)
		if err != nil {
			return nil, errors.NewStorageError(err, errors.ErrorCodeCompactionFailed, "failed to open segment for compaction").
				WithPath(newerMeta.Path)
		}
		supersededPaths = append(supersededPaths, newerMeta.Path)

		accumulated := &Segment{entries: mergedEntries}
		mergedEntries = accumulated.Merge(newerSeg)
	}

	var newMetas []SegmentMetadata

	head, overflow, didSplit := Split(mergedEntries, c.sizeThresholdB)
	ts := newestFirst[0].TimestampMs

	headMeta, err := c.writeCompactedSegment(head, ts)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeCompactionFailed, "failed to write compacted segment")
	}
	newMetas = append(newMetas, *headMeta)

	if didSplit {
		overflowMeta, err := c.writeCompactedSegment(overflow, ts+1)
		if err != nil {
			return nil, errors.NewStorageError(err, errors.ErrorCodeCompactionFailed, "failed to write overflow segment from compaction split")
		}
		newMetas = append(newMetas, *overflowMeta)
	}

	manifest.ReplaceSegments(newMetas)
	if err := manifest.Save(); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeCompactionFailed, "failed to save manifest after compaction")
	}

	for _, path := range supersededPaths {
		_ = os.Remove(path)
	}

	return supersededPaths, nil
}

func (c *Compactor) writeCompactedSegment(entries []entry, tsMs int64) (*SegmentMetadata, error) {
	minKey, maxKey := "", ""
	if len(entries) > 0 {
		minKey, maxKey = entries[0].key, entries[len(entries)-1].key
	}

	name := seginfo.GenerateSSTableName(minKey, maxKey, time.Now().UnixNano())
	path := filepath.Join(c.segmentDir, name)

	seg, err := WriteSegment(path, entries, tsMs)
	if err != nil {
		return nil, err
	}

	return &SegmentMetadata{
		Path: seg.Path, MinKey: seg.MinKey, MaxKey: seg.MaxKey,
		SizeBytes: seg.SizeBytes, TimestampMs: seg.TimestampMs, Compacted: true,
	}, nil
}
