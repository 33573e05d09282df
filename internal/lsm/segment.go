package lsm

import (
	"sort"

	"github.com/iamNilotpal/ignite/internal/logfile"
)

// Segment is an immutable, sorted collection of (key, value) pairs — an
// SSTable in the spec's terminology. Once written, a Segment's file is never
// mutated; contains/read/scan operate against an in-memory sorted copy of its
// entries loaded at open time, since the engine's working set is expected to
// fit comfortably in memory for a single-node embedded store.
type Segment struct {
	Path        string
	MinKey      string
	MaxKey      string
	SizeBytes   int64
	TimestampMs int64
	Compacted   bool

	entries []entry // sorted ascending by key
}

// WriteSegment sorts entries by key and writes them to a new file at path,
// returning the Segment descriptor. entries must not contain duplicate keys;
// callers (Engine's flush via Memtable.Snapshot, Compactor) are responsible for deduplication
// before calling WriteSegment.
func WriteSegment(path string, entries []entry, timestampMs int64) (*Segment, error) {
	sorted := make([]entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	lf, err := logfile.Open(logfile.Config{Path: path, SyncOnAppend: true})
	if err != nil {
		return nil, err
	}

	var size int64
	for _, e := range sorted {
		_, n, err := lf.Append(encodeEntry(e))
		if err != nil {
			_ = lf.Close()
			return nil, err
		}
		size += int64(n)
	}
	if err := lf.Close(); err != nil {
		return nil, err
	}

	seg := &Segment{Path: path, SizeBytes: size, TimestampMs: timestampMs, entries: sorted}
	if len(sorted) > 0 {
		seg.MinKey = sorted[0].key
		seg.MaxKey = sorted[len(sorted)-1].key
	}
	return seg, nil
}

// OpenSegment loads a previously written segment file into memory.
func OpenSegment(meta SegmentMetadata) (*Segment, error) {
	lf, err := logfile.Open(logfile.Config{Path: meta.Path, SyncOnAppend: true})
	if err != nil {
		return nil, err
	}
	defer lf.Close()

	cursor, err := lf.SequentialScan(entryHeaderSize, entryBodyLen)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var entries []entry
	for {
		_, raw, ok := cursor.Next()
		if !ok {
			break
		}
		e, err := decodeEntry(raw)
		if err != nil {
			break
		}
		entries = append(entries, e)
	}

	return &Segment{
		Path: meta.Path, MinKey: meta.MinKey, MaxKey: meta.MaxKey,
		SizeBytes: meta.SizeBytes, TimestampMs: meta.TimestampMs, Compacted: meta.Compacted,
		entries: entries,
	}, nil
}

func (s *Segment) search(key string) int {
	return sort.Search(len(s.entries), func(i int) bool { return s.entries[i].key >= key })
}

// InRange reports whether key falls within the segment's [MinKey, MaxKey].
func (s *Segment) InRange(key string) bool {
	if len(s.entries) == 0 {
		return false
	}
	return key >= s.MinKey && key <= s.MaxKey
}

// Contains reports whether key is present in the segment (tombstones count
// as present, per spec.md's probe semantics — the caller decides visibility).
func (s *Segment) Contains(key string) bool {
	i := s.search(key)
	return i < len(s.entries) && s.entries[i].key == key
}

// Read returns the raw stored value for key (which may be the tombstone
// marker) and whether the key was found at all.
func (s *Segment) Read(key string) ([]byte, bool) {
	i := s.search(key)
	if i < len(s.entries) && s.entries[i].key == key {
		return s.entries[i].value, true
	}
	return nil, false
}

// Scan returns all entries with start <= key <= end.
func (s *Segment) Scan(start, end string) []entry {
	lo := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].key >= start })
	hi := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].key > end })
	if lo >= hi {
		return nil
	}
	out := make([]entry, hi-lo)
	copy(out, s.entries[lo:hi])
	return out
}

// Merge combines newer into s (the older segment), newer wins per key. A
// tombstone that eliminates every remaining reference to a key is dropped
// from the merged result (spec.md §3 invariant 6 / §4.5). This is only safe
// to call when newer genuinely holds the most recent information about every
// key it mentions — folding more than two segments must run oldest-to-newest
// (accumulated-so-far as s, the next-more-recent segment as newer), never the
// reverse, or a tombstone here can be dropped before an even older segment's
// real value for the same key has had a chance to be excluded by it.
func (s *Segment) Merge(newer *Segment) []entry {
	merged := make(map[string][]byte, len(s.entries)+len(newer.entries))
	for _, e := range s.entries {
		merged[e.key] = e.value
	}
	for _, e := range newer.entries {
		merged[e.key] = e.value
	}

	out := make([]entry, 0, len(merged))
	for k, v := range merged {
		if string(v) == tombstone {
			continue
		}
		out = append(out, entry{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// Split divides entries into two key-contiguous halves when the segment's
// size exceeds threshold, producing a second segment with the overflow.
func Split(entries []entry, thresholdBytes int64) (head, overflow []entry, split bool) {
	var size int64
	for i, e := range entries {
		size += int64(entryHeaderSize + len(e.key) + len(e.value))
		if size > thresholdBytes {
			return entries[:i], entries[i:], true
		}
	}
	return entries, nil, false
}
