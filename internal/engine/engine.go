// Package engine implements the log-structured Store from spec.md §4.4: Put,
// Get, CreateIndex, DeleteIndex, RestoreIndexes, Close. It composes
// internal/index (the in-memory key -> IndexBucket map) and internal/storage
// (the data log + index log), and owns the resolver policy between an
// indexed direct read and a full data-log scan (spec.md §4.6).
//
// The teacher's original engine also wired a third subsystem, compaction,
// into every engine — but spec.md's core Store has no compaction concept at
// all (compaction only exists in the LSM extension, internal/lsm, which owns
// its own merge/split pipeline independently). That field and its
// internal/compaction import are dropped here; DESIGN.md records why.
package engine

import (
	"context"
	stdErrors "errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/internal/record"
	"github.com/iamNilotpal/ignite/internal/scanner"
	"github.com/iamNilotpal/ignite/internal/storage"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

	// ErrKeyNotFound is returned by Get when a key exists in neither the
	// index nor the data log.
	ErrKeyNotFound = stdErrors.New("key not found")

	// ErrIndexAlreadyExists is returned by CreateIndex for an already-indexed key.
	ErrIndexAlreadyExists = stdErrors.New("key is already indexed")
)

// Engine is the log-structured Store: config + an in-memory indexes map, per
// spec.md §3/§4.4.
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool
	index   *index.Index
	storage *storage.Storage
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance with the provided configuration.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	log := config.Logger.With("instance_id", uuid.New().String())

	idx, err := index.New(&index.Config{Logger: log})
	if err != nil {
		return nil, err
	}

	store, err := storage.New(&storage.Config{Logger: log, Options: config.Options})
	if err != nil {
		return nil, err
	}

	e := &Engine{options: config.Options, log: log, index: idx, storage: store}

	if err := e.RestoreIndexes(ctx); err != nil {
		config.Logger.Errorw("Failed to restore indexes on startup", "error", err)
	}

	return e, nil
}

// Put appends a DataRecord to the data log. If key is already indexed, an
// index UPDATE record is journaled and the in-memory bucket is replaced,
// journal-first-then-memory (spec.md §4.4 step 3 / §9). Put never auto-indexes
// a previously unindexed key — indexing is always an explicit CreateIndex
// (spec.md's resolved Open Question).
func (e *Engine) Put(ctx context.Context, key string, value []byte) (offset int64, length int, err error) {
	if e.closed.Load() {
		return 0, 0, ErrEngineClosed
	}

	rec := record.NewDataRecord(key, value, record.OpAdd, nowMs())

	offset, length, err = e.storage.AppendData(rec)
	if err != nil {
		return 0, 0, err
	}

	indexed, err := e.index.Has(key)
	if err != nil {
		return offset, length, err
	}

	if indexed {
		if err := e.writeIndexRecord(key, uint64(offset), uint32(length), record.OpUpdate); err != nil {
			return offset, length, err
		}
	}

	return offset, length, nil
}

// Get resolves key to its current value: an index hit reads directly at the
// recorded offset; a miss falls back to a full newest-wins scan of the data
// log (spec.md §4.6).
func (e *Engine) Get(ctx context.Context, key string) (*record.DataRecord, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	bucket, ok, err := e.index.Get(key)
	if err != nil {
		return nil, err
	}

	if ok {
		rec, err := e.storage.ReadData(int64(bucket.Offset), int(bucket.Length))
		if err != nil {
			return nil, err
		}
		if rec.Key() != key {
			return nil, errors.NewIndexCorruptionError("Get", 0, nil).WithKey(key)
		}
		return rec, nil
	}

	rec, _, _, found, err := scanner.ScanNewestData(e.storage.DataLog(), key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrKeyNotFound
	}
	return rec, nil
}

// CreateIndex scans the data log (never the index log — spec.md's resolution
// of the ambiguous/buggy revision) for key's newest record, journals an ADD
// IndexRecord, and inserts the bucket into the in-memory map.
func (e *Engine) CreateIndex(ctx context.Context, key string) (offset int64, length int, err error) {
	if e.closed.Load() {
		return 0, 0, ErrEngineClosed
	}

	if already, err := e.index.Has(key); err != nil {
		return 0, 0, err
	} else if already {
		return 0, 0, ErrIndexAlreadyExists
	}

	_, off, ln, found, err := scanner.ScanNewestData(e.storage.DataLog(), key)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, ErrKeyNotFound
	}

	if err := e.writeIndexRecord(key, uint64(off), uint32(ln), record.OpAdd); err != nil {
		return 0, 0, err
	}

	return off, ln, nil
}

// DeleteIndex journals a DELETE IndexRecord then removes key from the map.
// Idempotent: deleting an absent index is not an error (spec.md §4.4).
func (e *Engine) DeleteIndex(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	rec := record.NewIndexRecord(key, 0, 0, record.OpDelete, nowMs())
	if err := e.storage.AppendIndex(rec); err != nil {
		return err
	}

	return e.index.Delete(key)
}

// RestoreIndexes sequentially replays the index log into a fresh map, then
// installs it in one step (spec.md §4.4). An empty index log yields an empty
// map; a replay error (for example the index log cannot be reopened for
// reading) is logged and also yields an empty map (spec.md §7's graceful
// degradation). internal/scanner.Replay already stops cleanly at the first decode failure,
// accepting whatever prefix it managed to decode.
func (e *Engine) RestoreIndexes(ctx context.Context) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	rebuilt := make(map[string]index.IndexBucket)

	err := scanner.Replay(e.storage.IndexLog(), func(rec *record.IndexRecord) {
		switch rec.Operation() {
		case record.OpAdd, record.OpUpdate:
			rebuilt[rec.Key()] = index.IndexBucket{Offset: rec.Offset(), Length: rec.Length()}
		case record.OpDelete:
			delete(rebuilt, rec.Key())
		}
	})
	if err != nil {
		e.log.Errorw("Index log replay failed, leaving indexes empty", "error", err)
		rebuilt = make(map[string]index.IndexBucket)
	}

	return e.index.Replace(rebuilt)
}

// writeIndexRecord is the shared, correctly-ordered choke point for the
// paths that journal an index insert or update (Put and CreateIndex; DeleteIndex
// follows the same order inline): append the IndexRecord to the index
// log first, then mutate the in-memory map, so a crash between the two steps
// leaves the on-disk journal as the source of truth (spec.md §4.4/§9).
func (e *Engine) writeIndexRecord(key string, offset uint64, length uint32, op record.Operation) error {
	rec := record.NewIndexRecord(key, offset, length, op, nowMs())
	if err := e.storage.AppendIndex(rec); err != nil {
		return err
	}
	return e.index.Put(key, index.IndexBucket{Offset: offset, Length: length})
}

// Close gracefully shuts down the engine, combining any index/storage close
// errors with multierr.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return multierr.Combine(e.index.Close(), e.storage.Close())
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}
