// Package index provides the in-memory key -> IndexBucket map IgniteDB keeps
// in front of the data log (spec.md §3 "indexes"). It holds the minimum
// metadata required to locate a key's newest record on disk: a byte offset
// and an encoded length, nothing else — no cached value, no segment table,
// because the core engine has exactly one data log and offsets into it are
// already absolute.
package index

import (
	stdErrors "errors"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

var (
	ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")
)

// New creates an empty Index ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		buckets: make(map[string]IndexBucket, 2046),
	}, nil
}

// Get returns the bucket for key and whether it was present.
func (idx *Index) Get(key string) (IndexBucket, bool, error) {
	if idx.closed.Load() {
		return IndexBucket{}, false, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	bucket, ok := idx.buckets[key]
	return bucket, ok, nil
}

// Has reports whether key is indexed.
func (idx *Index) Has(key string) (bool, error) {
	if idx.closed.Load() {
		return false, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, ok := idx.buckets[key]
	return ok, nil
}

// Put inserts or overwrites the bucket for key.
func (idx *Index) Put(key string, bucket IndexBucket) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.buckets[key] = bucket
	return nil
}

// Delete removes key from the map. Deleting an absent key is not an error,
// matching spec.md §4.4's idempotent delete_index.
func (idx *Index) Delete(key string) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.buckets, key)
	return nil
}

// Len returns the number of indexed keys.
func (idx *Index) Len() (int, error) {
	if idx.closed.Load() {
		return 0, ErrIndexClosed
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.buckets), nil
}

// Replace swaps the entire map atomically, used by RestoreIndexes to install
// a freshly-replayed index-log map in one step (spec.md §4.4: "Replace
// `indexes` with the reconstructed map").
func (idx *Index) Replace(buckets map[string]IndexBucket) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.buckets = buckets
	return nil
}

// Close gracefully shuts down the Index, releasing the map and ensuring that
// the index cannot be used after closure.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("Closing index system")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	clear(idx.buckets)
	idx.buckets = nil

	idx.log.Infow("Index system closed successfully")
	return nil
}
