// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, performance, and maintenance operations, such as
// directory paths, segment characteristics, and compaction intervals.
package options

import (
	"strings"
	"time"
)

// EngineMode selects which storage engine backs an Instance: the
// log-structured core (a single data log + an optional in-memory index) or
// the LSM evolution (memtable, sorted segments, manifest, compaction).
type EngineMode string

const (
	// EngineModeLog is the core append-only log engine (spec §4.4).
	EngineModeLog EngineMode = "log"

	// EngineModeLSM is the memtable/segment/manifest evolution (spec §4.5).
	EngineModeLSM EngineMode = "lsm"
)

// Defines configurable parameters for each segment.
// It provides fine-grained control over segment behavior, performance, and resource utilization.
type segmentOptions struct {
	// Defines the maximum size a segment can grow to before rotation.
	// When a segment reaches this size, a new segment will be created.
	// Larger segments mean fewer files but slower compaction and recovery.
	//
	//  - Default: 1GB
	//  - Maximum: 4GB
	//  - Minimum: 512MB
	Size uint64 `json:"maxSegmentSize"`

	// Specifies where segment files are stored.
	//
	// Default: "/var/lib/ignitedb/segments"
	Directory string `json:"directory"`

	// Defines the filename prefix for segment files.
	// Final filename will be: `prefix_segmentId_timestamp.seg`
	//
	// Default: "segment"
	//
	// Example: If Prefix is "mydata", a segment file might be "mydata_000001_20240525232100.seg".
	Prefix string `json:"prefix"`
}

// Defines the configuration parameters for Ignite DB.
// It provides control over storage, performance and maintenance aspects.
type Options struct {
	// Specifies the base path where files will be stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Records a compaction interval. No engine reads it: the LSM engine
	// compacts only when Instance.Compact is called, and the log engine
	// never compacts.
	//
	// Default: 5h
	CompactInterval time.Duration `json:"compactInterval"`

	// Configures segment management including size limits and naming convention.
	// Neither engine reads it: the LSM engine names sstable files with
	// seginfo.GenerateSSTableName, keeps them beside its manifest and splits
	// on MemtableThresholdBytes; the log engine's data/index logs never rotate.
	SegmentOptions *segmentOptions `json:"segmentOptions"`

	// EngineMode selects the log-structured core or the LSM evolution.
	//
	// Default: EngineModeLog
	EngineMode EngineMode `json:"engineMode"`

	// DataLogPath is the append-only log holding DataRecords, used by the
	// log engine. Relative paths are resolved against DataDir.
	//
	// Default: "data.log"
	DataLogPath string `json:"dataLogPath"`

	// IndexLogPath is the write-ahead journal of IndexRecords, used by the
	// log engine to recover the in-memory index map after a restart.
	// Relative paths are resolved against DataDir.
	//
	// Default: "index.log"
	IndexLogPath string `json:"indexLogPath"`

	// MemtableThresholdBytes is the estimated serialized size, in bytes, at
	// which the LSM engine flushes its memtable to a new sorted segment.
	//
	// Default: 10 MiB
	MemtableThresholdBytes uint64 `json:"memtableThresholdBytes"`

	// BloomFPRate is the target false-positive rate for the LSM engine's
	// Bloom filter.
	//
	// Default: 0.01
	BloomFPRate float64 `json:"bloomFpRate"`

	// BloomCapacity is the number of distinct keys the Bloom filter is sized
	// for before its false-positive rate degrades past BloomFPRate.
	//
	// Default: 1,000,000
	BloomCapacity uint64 `json:"bloomCapacity"`

	// ManifestPath is where the LSM engine persists its segment manifest.
	// Relative paths are resolved against DataDir.
	//
	// Default: "manifest.json"
	ManifestPath string `json:"manifestPath"`

	// RecoveryPath is where the LSM engine may snapshot the memtable for
	// faster restart. Relative paths are resolved against DataDir.
	//
	// Default: "memtable.recovery"
	RecoveryPath string `json:"recoveryPath"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		*o = opts
	}
}

// Sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets Options.CompactInterval (only values above DefaultCompactInterval are
// accepted); no engine schedules compaction from it.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > DefaultCompactInterval {
			o.CompactInterval = interval
		}
	}
}

// Sets the directory specifically for storing segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets the file name prefix for segment files.
func WithSegmentPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			o.SegmentOptions.Prefix = prefix
		}
	}
}

// Sets the maximum size of individual segment files.
func WithSegmentSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size > MinSegmentSize && size < MaxSegmentSize {
			o.SegmentOptions.Size = size
		}
	}
}

// Selects the storage engine: the log-structured core or the LSM evolution.
func WithEngineMode(mode EngineMode) OptionFunc {
	return func(o *Options) {
		if mode == EngineModeLog || mode == EngineModeLSM {
			o.EngineMode = mode
		}
	}
}

// Overrides the data log's path (log engine only).
func WithDataLogPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.DataLogPath = path
		}
	}
}

// Overrides the index log's path (log engine only).
func WithIndexLogPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.IndexLogPath = path
		}
	}
}

// Overrides the memtable flush threshold, in bytes (LSM engine only).
func WithMemtableThreshold(bytes uint64) OptionFunc {
	return func(o *Options) {
		if bytes > 0 {
			o.MemtableThresholdBytes = bytes
		}
	}
}

// Overrides the Bloom filter's target false-positive rate (LSM engine only).
func WithBloomFPRate(rate float64) OptionFunc {
	return func(o *Options) {
		if rate > 0 && rate < 1 {
			o.BloomFPRate = rate
		}
	}
}

// Overrides the Bloom filter's sizing capacity, in keys (LSM engine only).
func WithBloomCapacity(capacity uint64) OptionFunc {
	return func(o *Options) {
		if capacity > 0 {
			o.BloomCapacity = capacity
		}
	}
}

// Overrides the manifest file path (LSM engine only).
func WithManifestPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.ManifestPath = path
		}
	}
}

// Overrides the memtable recovery snapshot path (LSM engine only).
func WithRecoveryPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.RecoveryPath = path
		}
	}
}
