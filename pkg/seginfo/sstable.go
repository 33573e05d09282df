package seginfo

import (
	"fmt"
	"hash/fnv"
)

// GenerateSSTableName names an LSM sorted segment file. Arbitrary key bytes
// aren't filesystem-safe on their own, so the min/max keys are hashed down to
// a short hex tag; the nanosecond timestamp is kept in full. Because the key
// tags come first, a directory listing sorted by name is ordered by those
// tags, not by age.
func GenerateSSTableName(minKey, maxKey string, tsNanos int64) string {
	return fmt.Sprintf("sstable_%s_%s_%d.seg", keyTag(minKey), keyTag(maxKey), tsNanos)
}

func keyTag(key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("%08x", h.Sum32())
}
