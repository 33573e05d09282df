package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// IndexBucket is the in-memory tuple locating a key's newest record in the
// data log: the byte offset the record starts at and its encoded length.
// Private to the engine (spec.md §3): callers never see a bucket directly,
// only the (offset, length) pair through Index's exported methods.
type IndexBucket struct {
	Offset uint64
	Length uint32
}

// Index is the in-memory key -> IndexBucket map spec.md §3 calls `indexes`.
// It is exclusively owned by internal/engine; IndexBucket values are by-value
// copies (spec.md §5), so callers cannot mutate an entry in place.
type Index struct {
	mu      sync.RWMutex
	buckets map[string]IndexBucket
	log     *zap.SugaredLogger
	closed  atomic.Bool
}

// Config encapsulates the configuration parameters required to initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
