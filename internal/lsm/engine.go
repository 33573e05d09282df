// Package lsm implements spec.md §4.5's optional LSM-style evolution of the
// core Store: a Memtable buffering writes, immutable sorted Segment files
// flushed once the memtable crosses a size threshold, a JSON Manifest
// tracking live segments, a BloomFilter hinting absence before any segment is
// touched, and a Compactor merging/splitting segments whenever Compact is
// called.
package lsm

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed lsm engine")

	// ErrKeyNotFound is returned by Get when a key is absent from the bloom
	// filter, the memtable, and every segment, or is present only as a
	// tombstone.
	ErrKeyNotFound = stdErrors.New("key not found")
)

// Engine is the LSM Store: Memtable + segment Manifest + BloomFilter +
// Compactor, composed per spec.md §4.5's get/put resolution algorithm.
type Engine struct {
	mu sync.Mutex

	options   *options.Options
	log       *zap.SugaredLogger
	closed    atomic.Bool
	memtable  *Memtable
	manifest  *Manifest
	bloom     *BloomFilter
	compactor *Compactor
	segDir    string

	recoveryPath string
	bloomWarned  atomic.Bool
}

// Config holds the parameters needed to initialize a new LSM Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New loads (or creates) the manifest at opts.ManifestPath, rebuilds the
// bloom filter from every live segment's keys, and returns a ready Engine.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, stdErrors.New("lsm engine configuration is required")
	}

	opts := config.Options
	log := config.Logger.With("instance_id", uuid.New().String())
	manifestPath := resolveLSMPath(opts.DataDir, opts.ManifestPath)

	manifest, err := LoadOrCreate(manifestPath)
	if err != nil {
		return nil, err
	}

	bloom := NewBloomFilter(opts.BloomCapacity, opts.BloomFPRate)
	for _, meta := range manifest.Segments() {
		seg, err := OpenSegment(meta)
		if err != nil {
			log.Errorw("Failed to open segment while rebuilding bloom filter", "path", meta.Path, "error", err)
			continue
		}
		for _, e := range seg.entries {
			bloom.Add(e.key)
		}
	}

	segDir := filepath.Dir(manifestPath)
	recoveryPath := resolveLSMPath(opts.DataDir, opts.RecoveryPath)

	memtable := NewMemtable(opts.MemtableThresholdBytes, config.Logger)
	recovered, err := loadRecoverySnapshot(recoveryPath)
	if err != nil {
		log.Errorw("Failed to read memtable recovery snapshot", "path", recoveryPath, "error", err)
	} else if len(recovered) > 0 {
		memtable.Load(recovered)
		for _, e := range recovered {
			bloom.Add(e.key)
		}
		log.Infow("Restored memtable from recovery snapshot", "path", recoveryPath, "entries", len(recovered))
	}

	e := &Engine{
		options:      opts,
		log:          log,
		memtable:     memtable,
		manifest:     manifest,
		bloom:        bloom,
		compactor:    NewCompactor(segDir, int64(opts.MemtableThresholdBytes)),
		segDir:       segDir,
		recoveryPath: recoveryPath,
	}

	return e, nil
}

// Put inserts key/value into the memtable, flushing first if the memtable
// has already crossed its size threshold (spec.md §4.5's put algorithm).
func (e *Engine) Put(key string, value []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.memtable.ShouldFlush() {
		if err := e.flushLocked(); err != nil {
			return err
		}
	}

	e.memtable.Put(key, value)
	e.bloom.Add(key)
	e.warnIfBloomExceeded()
	return nil
}

// Delete inserts the tombstone marker for key (spec.md §4.5/§3 invariant 6).
func (e *Engine) Delete(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.memtable.Delete(key)
	e.bloom.Add(key)
	e.warnIfBloomExceeded()
	return nil
}

// warnIfBloomExceeded logs once, the first time the bloom filter has
// absorbed more keys than it was sized for, that its false-positive rate has
// risen above the configured target. The filter keeps working either way —
// this only degrades how often Get falls through to checking a segment it
// didn't need to.
func (e *Engine) warnIfBloomExceeded() {
	if !e.bloom.Exceeded() || !e.bloomWarned.CompareAndSwap(false, true) {
		return
	}
	e.log.Warnw("Bloom filter capacity exceeded, false-positive rate degraded",
		"error", errors.NewStorageError(nil, errors.ErrorCodeBloomCapacityExceeded, "bloom filter capacity exceeded"))
}

// Get resolves key per spec.md §4.5: a bloom "definitely not" short-circuits
// to absent; otherwise the memtable is consulted, then segments newest-first.
// A tombstone encountered at any level means key is logically absent.
func (e *Engine) Get(key string) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.bloom.MightContain(key) {
		return nil, ErrKeyNotFound
	}

	if v, found := e.memtable.Get(key); found {
		if string(v) == tombstone {
			return nil, ErrKeyNotFound
		}
		return v, nil
	}

	metas := e.manifest.Segments()
	// Segments() returns append order (oldest first); reverse before a
	// stable descending sort so a later append outranks an earlier one
	// whenever their millisecond timestamps collide.
	for i, j := 0, len(metas)-1; i < j; i, j = i+1, j-1 {
		metas[i], metas[j] = metas[j], metas[i]
	}
	sort.SliceStable(metas, func(i, j int) bool { return metas[i].TimestampMs > metas[j].TimestampMs })

	for _, meta := range metas {
		if key < meta.MinKey || key > meta.MaxKey {
			continue
		}

		seg, err := OpenSegment(meta)
		if err != nil {
			e.log.Errorw("Failed to open segment during get", "path", meta.Path, "error", err)
			continue
		}

		if v, found := seg.Read(key); found {
			if string(v) == tombstone {
				return nil, ErrKeyNotFound
			}
			return v, nil
		}
	}

	return nil, ErrKeyNotFound
}

// Flush forces the current memtable to a new sorted segment file regardless
// of its size, recording the result in the manifest.
func (e *Engine) Flush() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushLocked()
}

func (e *Engine) flushLocked() error {
	entries := e.memtable.Snapshot()
	if len(entries) == 0 {
		return nil
	}

	minKey, maxKey := entries[0].key, entries[len(entries)-1].key
	tsNanos := time.Now().UnixNano()
	name := seginfo.GenerateSSTableName(minKey, maxKey, tsNanos)
	path := filepath.Join(e.segDir, name)

	seg, err := WriteSegment(path, entries, tsNanos/int64(time.Millisecond))
	if err != nil {
		return err
	}

	e.manifest.AddSegment(SegmentMetadata{
		Path: seg.Path, MinKey: seg.MinKey, MaxKey: seg.MaxKey,
		SizeBytes: seg.SizeBytes, TimestampMs: seg.TimestampMs,
	})

	if err := e.manifest.Save(); err != nil {
		return err
	}

	// Everything the recovery snapshot was protecting is now durable in a
	// segment; an unclean shutdown has nothing left to recover here.
	if err := os.Remove(e.recoveryPath); err != nil && !os.IsNotExist(err) {
		e.log.Errorw("Failed to remove stale recovery snapshot after flush", "path", e.recoveryPath, "error", err)
	}

	return nil
}

// Snapshot writes the memtable's current contents to the configured recovery
// path without disturbing the live memtable (spec.md §5/§6: an optional
// background-safe snapshot of the memtable for faster restart after an
// unclean shutdown). Like Flush and Compact, it's caller-invoked rather than
// automatic — see DESIGN.md's Open Question decisions.
func (e *Engine) Snapshot() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	entries := e.memtable.Entries()
	e.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}
	return writeRecoverySnapshot(e.recoveryPath, entries)
}

// Compact runs a single merge-and-compact pass over the manifest's current
// segments (spec.md §4.5). It runs only when called (Instance.Compact, the
// CLI's compact command), never on a write; nothing in this module schedules
// it from opts.CompactInterval.
func (e *Engine) Compact() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.compactor.MergeAndCompact(e.manifest)
	return err
}

// Close flushes any pending memtable contents and marks the engine unusable.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.flushLocked()
	e.memtable.Close()
	return err
}

func resolveLSMPath(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
