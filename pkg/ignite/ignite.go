// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (KeyDir/Index) with an append-only log
// structure on disk to achieve high throughput. It is designed for applications
// requiring fast read and write operations, such as caching, session management,
// and real-time data processing, aiming to provide a simple, efficient, and
// reliable solution for in-memory data storage in Go applications.
package ignite

import (
	"context"
	stdErrors "errors"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/lsm"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
)

// ErrNotSupportedInLSMMode is returned by the index-specific operations
// (CreateIndex/RestoreIndexes), which only make sense for the
// log-structured core engine (spec.md §4.4); the LSM engine resolves every
// read through its own memtable/segment/bloom pipeline instead (spec.md §4.5).
var ErrNotSupportedInLSMMode = stdErrors.New("operation not supported when EngineMode is lsm")

// ErrNotSupportedInLogMode is returned by the LSM-only operations
// (Flush/Compact/Snapshot) when the instance runs the log engine.
var ErrNotSupportedInLogMode = stdErrors.New("operation not supported when EngineMode is log")

// Instance is the primary entry point for interacting with the Ignite store,
// providing methods for setting, getting, and deleting key-value pairs. It
// wraps exactly one of the two engines selected by options.EngineMode: the
// log-structured core (internal/engine) or the LSM evolution (internal/lsm).
type Instance struct {
	logEngine *engine.Engine
	lsmEngine *lsm.Engine
	options   *options.Options
}

// NewInstance creates and initializes a new Ignite DB instance, selecting the
// log-structured or LSM engine per opts.EngineMode (default: log).
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	if defaultOpts.EngineMode == options.EngineModeLSM {
		lsmEng, err := lsm.New(&lsm.Config{Logger: log, Options: &defaultOpts})
		if err != nil {
			return nil, err
		}
		return &Instance{lsmEngine: lsmEng, options: &defaultOpts}, nil
	}

	logEng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{logEngine: logEng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the database. If the key already exists,
// its value will be updated. Under the log engine the write is appended to the
// data log before Set returns; under the LSM engine it only updates the
// memtable, which reaches a segment file on the next flush.
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	if i.lsmEngine != nil {
		return i.lsmEngine.Put(key, value)
	}
	_, _, err := i.logEngine.Put(ctx, key, value)
	return err
}

// Get retrieves the value associated with the given key.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, error) {
	if i.lsmEngine != nil {
		return i.lsmEngine.Get(key)
	}
	rec, err := i.logEngine.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return rec.Value(), nil
}

// Delete removes a key-value pair from the database. Under the log engine
// this deletes the key's *index*, not its underlying data records (spec.md
// §4.4: the data log is append-only and is never pruned); under the LSM
// engine it inserts a tombstone that is dropped on the next compaction pass.
func (i *Instance) Delete(ctx context.Context, key string) error {
	if i.lsmEngine != nil {
		return i.lsmEngine.Delete(key)
	}
	return i.logEngine.DeleteIndex(ctx, key)
}

// CreateIndex builds an in-memory index entry for key by scanning the data
// log for its newest record (log engine only; spec.md §4.4).
func (i *Instance) CreateIndex(ctx context.Context, key string) error {
	if i.logEngine == nil {
		return ErrNotSupportedInLSMMode
	}
	_, _, err := i.logEngine.CreateIndex(ctx, key)
	return err
}

// RestoreIndexes rebuilds the entire in-memory index by replaying the index
// log from scratch (log engine only; spec.md §4.4).
func (i *Instance) RestoreIndexes(ctx context.Context) error {
	if i.logEngine == nil {
		return ErrNotSupportedInLSMMode
	}
	return i.logEngine.RestoreIndexes(ctx)
}

// Flush forces the LSM engine's current memtable to a new segment file
// (LSM engine only; the log engine, which has no memtable, returns
// ErrNotSupportedInLogMode).
func (i *Instance) Flush() error {
	if i.lsmEngine == nil {
		return ErrNotSupportedInLogMode
	}
	return i.lsmEngine.Flush()
}

// Compact runs one merge-and-compact pass over the LSM engine's segments
// (LSM engine only; spec.md §4.5).
func (i *Instance) Compact() error {
	if i.lsmEngine == nil {
		return ErrNotSupportedInLogMode
	}
	return i.lsmEngine.Compact()
}

// Snapshot writes the LSM engine's memtable to its configured recovery path
// without flushing it to a segment (LSM engine only; spec.md §5/§6's optional
// recovery snapshot), shortening the window of unpersisted writes an unclean
// shutdown would lose.
func (i *Instance) Snapshot() error {
	if i.lsmEngine == nil {
		return ErrNotSupportedInLogMode
	}
	return i.lsmEngine.Snapshot()
}

// Close gracefully shuts down the Ignite DB instance, flushing any pending
// writes and releasing all associated resources.
func (i *Instance) Close(ctx context.Context) error {
	if i.lsmEngine != nil {
		return i.lsmEngine.Close()
	}
	return i.logEngine.Close()
}
