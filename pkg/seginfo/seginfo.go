// Package seginfo names on-disk segment files for this module's two storage
// engines. The core log-structured Store never rotates its data/index logs
// (see internal/storage), so the teacher's original rotating
// prefix_NNNNN_timestamp.seg naming and on-disk discovery scheme has no
// segment directory to scan here; what's left of that scheme is
// GenerateSSTableName/keyTag (sstable.go), adapted for the LSM engine's
// manifest-tracked sorted segment files instead of filesystem globbing.
package seginfo
