package options

import "time"

const (
	// Specifies the default base directory where IgniteDB will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Defines the default value of Options.CompactInterval (5 hours). No
	// engine runs compaction automatically from it.
	DefaultCompactInterval = time.Hour * 5

	// Represents the minimum allowed size for a segment file in bytes (512MB).
	MinSegmentSize uint64 = 512 * 1024 * 1024

	// Represents the maximum allowed size for a segment file in bytes (4GB).
	MaxSegmentSize uint64 = 4 * 1024 * 1024 * 1024

	// Specifies the default target size for a new segment file in bytes (1GB).
	DefaultSegmentSize uint64 = 1 * 1024 * 1024 * 1024

	// Specifies the default subdirectory within the main data directory
	// where segment files will be stored.
	DefaultSegmentDirectory = "/segments"

	// Defines the default prefix for segment file names.
	// For example, a segment file might be named "segment-00001.db".
	DefaultSegmentPrefix = "segment"

	// Default log-engine file names, relative to DataDir.
	DefaultDataLogPath  = "data.log"
	DefaultIndexLogPath = "index.log"

	// Default LSM-engine tunables.
	DefaultMemtableThresholdBytes uint64  = 10 * 1024 * 1024 // 10 MiB
	DefaultBloomFPRate            float64 = 0.01
	DefaultBloomCapacity          uint64  = 1_000_000
	DefaultManifestPath                   = "manifest.json"
	DefaultRecoveryPath                   = "memtable.recovery"
)

// NewDefaultOptions returns a fresh Options value with every field set to
// its documented default. Each call allocates its own SegmentOptions so
// that distinct Instances never share mutable configuration state.
func NewDefaultOptions() Options {
	return Options{
		DataDir:         DefaultDataDir,
		CompactInterval: DefaultCompactInterval,
		SegmentOptions: &segmentOptions{
			Size:      DefaultSegmentSize,
			Prefix:    DefaultSegmentPrefix,
			Directory: DefaultSegmentDirectory,
		},
		EngineMode:             EngineModeLog,
		DataLogPath:            DefaultDataLogPath,
		IndexLogPath:           DefaultIndexLogPath,
		MemtableThresholdBytes: DefaultMemtableThresholdBytes,
		BloomFPRate:            DefaultBloomFPRate,
		BloomCapacity:          DefaultBloomCapacity,
		ManifestPath:           DefaultManifestPath,
		RecoveryPath:           DefaultRecoveryPath,
	}
}
