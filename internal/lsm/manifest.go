package lsm

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"os"
	"sync"

	"github.com/iamNilotpal/ignite/pkg/errors"
	atomicfile "github.com/natefinch/atomic"
)

// SegmentMetadata is a manifest row describing one on-disk segment file
// (spec.md §3/§6).
type SegmentMetadata struct {
	Path        string `json:"path"`
	MinKey      string `json:"min_key"`
	MaxKey      string `json:"max_key"`
	SizeBytes   int64  `json:"size"`
	TimestampMs int64  `json:"timestamp"`
	Compacted   bool   `json:"is_compacted"`
}

// manifestDoc is the on-disk JSON shape (spec.md §6).
type manifestDoc struct {
	Path     string            `json:"path"`
	Segments []SegmentMetadata `json:"segments"`
}

// Manifest is the persisted, ordered list of live segments (append order,
// newest last). It is JSON-encoded — no example repo in this module's
// dependency corpus reaches for a third-party codec for a small,
// infrequently-written config-shaped document, so encoding/json is used
// directly (see DESIGN.md) — and overwritten atomically on Save via
// github.com/natefinch/atomic, the same dependency the rest of the corpus
// uses for atomic config/cache persistence.
type Manifest struct {
	mu       sync.Mutex
	path     string
	segments []SegmentMetadata
}

// LoadOrCreate decodes the manifest at path if it exists and is non-empty,
// otherwise constructs an empty one (spec.md §4.5).
func LoadOrCreate(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stdErrors.Is(err, os.ErrNotExist) {
			return &Manifest{path: path}, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return &Manifest{path: path}, nil
	}

	var doc manifestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeManifestCorrupted, "manifest file could not be decoded").
			WithPath(path)
	}

	return &Manifest{path: path, segments: doc.Segments}, nil
}

// Segments returns a copy of the manifest's current segment rows, in append
// order (newest last).
func (m *Manifest) Segments() []SegmentMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SegmentMetadata, len(m.segments))
	copy(out, m.segments)
	return out
}

// AddSegment appends meta to the ordered segment list.
func (m *Manifest) AddSegment(meta SegmentMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments = append(m.segments, meta)
}

// ReplaceSegments swaps the entire segment list, used by the compactor after
// a merge pass produces a new set of segments.
func (m *Manifest) ReplaceSegments(segs []SegmentMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments = segs
}

// Save atomically overwrites the manifest file (spec.md §4.5/§7: fsync before
// acknowledging a manifest save). github.com/natefinch/atomic.WriteFile
// writes to a temp file in the same directory, fsyncs it, then renames over
// the destination, so a crash mid-save never leaves a torn manifest.
func (m *Manifest) Save() error {
	m.mu.Lock()
	doc := manifestDoc{Path: m.path, Segments: m.segments}
	m.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return atomicfile.WriteFile(m.path, bytes.NewReader(data))
}
