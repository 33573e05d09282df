package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the header
	// portion of a segment file. Headers contain critical metadata about the
	// segment's structure, so header read failures prevent access to the
	// entire segment and all data it contains.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the actual data
	// content from segment files after successfully reading the header. This
	// represents a more localized failure compared to header problems, as the
	// segment structure is intact but specific data regions are inaccessible.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that the storage system's attempt to
	// recover from a previous failure was unsuccessful. This represents a
	// compound failure where both the original problem and the recovery
	// mechanism have failed, creating a more serious operational situation.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"

	// ErrorCodeIndexOutOfRange indicates an index entry points past the end of
	// its data log. This is a logically impossible state (spec "Corrupt" class)
	// that is surfaced to the caller rather than auto-repaired.
	ErrorCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
)

// Index-specific error codes cover the failure modes of the in-memory
// key -> location map and its crash-recovery journal.
const (
	// ErrorCodeIndexKeyNotFound indicates a lookup for a key that has no entry
	// in the in-memory index.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexAlreadyExists indicates CreateIndex was called for a key
	// that is already indexed.
	ErrorCodeIndexAlreadyExists ErrorCode = "INDEX_ALREADY_EXISTS"

	// ErrorCodeIndexInvalidSegmentID indicates an index entry names a segment
	// that cannot be found on disk.
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"

	// ErrorCodeIndexTimestampExtraction indicates a segment filename could not
	// be parsed for its embedded timestamp/sequence components.
	ErrorCodeIndexTimestampExtraction ErrorCode = "INDEX_TIMESTAMP_EXTRACTION_FAILED"

	// ErrorCodeIndexCorrupted indicates the in-memory index structure itself is
	// in an inconsistent state, e.g. during a failed restore.
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"
)

// LSM-specific error codes cover the failure modes unique to the memtable +
// sorted-segment + manifest evolution of the storage engine.
const (
	// ErrorCodeManifestCorrupted indicates the on-disk manifest could not be
	// decoded or refers to segments that no longer exist.
	ErrorCodeManifestCorrupted ErrorCode = "MANIFEST_CORRUPTED"

	// ErrorCodeCompactionFailed indicates a compaction pass could not complete,
	// e.g. because a source segment could not be read or the merged segment
	// could not be flushed.
	ErrorCodeCompactionFailed ErrorCode = "COMPACTION_FAILED"

	// ErrorCodeBloomCapacityExceeded indicates the Bloom filter has absorbed
	// more keys than its configured capacity, raising its effective false
	// positive rate above the configured target.
	ErrorCodeBloomCapacityExceeded ErrorCode = "BLOOM_CAPACITY_EXCEEDED"
)
