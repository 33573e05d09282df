package lsm

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Memtable is the ordered, in-memory buffer the LSM engine writes into
// before a flush produces a sorted segment file. spec.md §9 leaves the key
// type as a deployment choice between string and u64; this module fixes
// string, since a build-time generic parameter would be unused machinery for
// a single fixed deployment.
type Memtable struct {
	mu        sync.RWMutex
	entries   map[string][]byte
	sizeBytes int64
	threshold uint64
	log       *zap.SugaredLogger
	closed    atomic.Bool
}

// NewMemtable creates an empty Memtable that flushes once its estimated
// serialized size reaches thresholdBytes.
func NewMemtable(thresholdBytes uint64, log *zap.SugaredLogger) *Memtable {
	return &Memtable{entries: make(map[string][]byte), threshold: thresholdBytes, log: log}
}

// Put inserts or overwrites key's value.
func (mt *Memtable) Put(key string, value []byte) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if old, ok := mt.entries[key]; ok {
		mt.sizeBytes -= int64(len(key) + len(old))
	}
	mt.entries[key] = value
	mt.sizeBytes += int64(len(key) + len(value))
}

// Delete inserts the tombstone marker for key (spec.md §4.5).
func (mt *Memtable) Delete(key string) {
	mt.Put(key, []byte(tombstone))
}

// Get returns key's stored value and whether key is present in the memtable
// at all. A present tombstone is returned as-is; callers distinguish
// "absent from memtable" (found=false, falls through to segments) from
// "present as a tombstone" (found=true, value is logically absent) per
// spec.md §4.5's LSM get resolution.
func (mt *Memtable) Get(key string) (value []byte, found bool) {
	mt.mu.RLock()
	defer mt.mu.RUnlock()

	v, ok := mt.entries[key]
	return v, ok
}

// Size returns the estimated serialized byte length of current contents.
func (mt *Memtable) Size() int64 {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return mt.sizeBytes
}

// ShouldFlush reports whether Size() has crossed the configured threshold.
func (mt *Memtable) ShouldFlush() bool {
	return uint64(mt.Size()) >= mt.threshold
}

// Snapshot returns a sorted-by-key copy of the memtable's current contents
// and clears the memtable, for use by Flush. The copy-before-clear ordering
// means a concurrent reader never observes a torn intermediate state
// (spec.md §5: an optional background snapshot "must observe a consistent
// snapshot... and must not be interleaved with in-place mutation").
func (mt *Memtable) Snapshot() []entry {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	out := make([]entry, 0, len(mt.entries))
	for k, v := range mt.entries {
		out = append(out, entry{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })

	mt.entries = make(map[string][]byte)
	mt.sizeBytes = 0

	return out
}

// Entries returns a sorted-by-key copy of the memtable's current contents
// without clearing it, for use by Engine.Snapshot — unlike Snapshot, this
// must not disturb the live memtable, since a recovery snapshot is a
// best-effort side channel, not a flush.
func (mt *Memtable) Entries() []entry {
	mt.mu.RLock()
	defer mt.mu.RUnlock()

	out := make([]entry, 0, len(mt.entries))
	for k, v := range mt.entries {
		out = append(out, entry{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// Load seeds the memtable from entries (used once, at startup, to restore a
// recovery snapshot written before an unclean shutdown). It does not treat
// tombstones specially; Put already encodes them as ordinary values.
func (mt *Memtable) Load(entries []entry) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, e := range entries {
		if old, ok := mt.entries[e.key]; ok {
			mt.sizeBytes -= int64(len(e.key) + len(old))
		}
		mt.entries[e.key] = e.value
		mt.sizeBytes += int64(len(e.key) + len(e.value))
	}
}

// Close marks the memtable unusable. Idempotent.
func (mt *Memtable) Close() {
	if !mt.closed.CompareAndSwap(false, true) {
		return
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	clear(mt.entries)
}
