package record

import (
	"encoding/binary"
	stdErrors "errors"

	ierrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/zeebo/xxh3"
)

var errShortHeader = stdErrors.New("record header shorter than expected")

const (
	// dataRecordHeaderSize is the fixed header before key/value bytes:
	// checksum(8) + operation(1) + timestamp(8) + keyLen(4) + valueLen(4).
	dataRecordHeaderSize = 25

	// indexRecordHeaderSize is the fixed header before key bytes:
	// checksum(8) + operation(1) + timestamp(8) + offset(8) + length(4) + keyLen(4).
	indexRecordHeaderSize = 33

	// DataHeaderSize and IndexHeaderSize are exported for internal/logfile's
	// SequentialScan, which reads exactly this many bytes before asking
	// DataBodyLen/IndexBodyLen how many more bytes the record's body holds.
	DataHeaderSize  = dataRecordHeaderSize
	IndexHeaderSize = indexRecordHeaderSize
)

// DataBodyLen reports how many bytes follow a DataRecord header, read from
// the header's key-length/value-length fields. It is internal/logfile's
// FrameSniffer for the data log.
func DataBodyLen(header []byte) (int, error) {
	if len(header) < dataRecordHeaderSize {
		return 0, errShortHeader
	}
	keyLen := binary.BigEndian.Uint32(header[17:21])
	valueLen := binary.BigEndian.Uint32(header[21:25])
	return int(keyLen + valueLen), nil
}

// IndexBodyLen reports how many bytes follow an IndexRecord header. It is
// internal/logfile's FrameSniffer for the index log.
func IndexBodyLen(header []byte) (int, error) {
	if len(header) < indexRecordHeaderSize {
		return 0, errShortHeader
	}
	keyLen := binary.BigEndian.Uint32(header[29:33])
	return int(keyLen), nil
}

// EncodedDataSize reports the exact number of bytes EncodeData(r) will
// produce, without allocating the encoded form.
func EncodedDataSize(r *DataRecord) int {
	return dataRecordHeaderSize + len(r.key) + len(r.value)
}

// EncodeData serializes a DataRecord to its self-delimiting binary form.
func EncodeData(r *DataRecord) []byte {
	buf := make([]byte, EncodedDataSize(r))

	buf[8] = byte(r.operation)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.timestamp))
	binary.BigEndian.PutUint32(buf[17:21], uint32(len(r.key)))
	binary.BigEndian.PutUint32(buf[21:25], uint32(len(r.value)))
	copy(buf[25:25+len(r.key)], r.key)
	copy(buf[25+len(r.key):], r.value)

	checksum := xxh3.Hash(buf[8:])
	binary.BigEndian.PutUint64(buf[0:8], checksum)

	return buf
}

// DecodeData parses a byte slice produced by EncodeData. A checksum mismatch
// or a slice too short to hold a valid record surfaces a corruption error
// rather than panicking; sequential scanners treat any such error as clean
// end-of-stream (spec: a crash can truncate the final record mid-write).
func DecodeData(buf []byte) (*DataRecord, error) {
	if len(buf) < dataRecordHeaderSize {
		return nil, ierrors.NewStorageError(
			nil, ierrors.ErrorCodeHeaderReadFailure, "data record header truncated",
		).WithDetail("bufLen", len(buf)).WithDetail("minLen", dataRecordHeaderSize)
	}

	wantChecksum := binary.BigEndian.Uint64(buf[0:8])
	gotChecksum := xxh3.Hash(buf[8:])
	if wantChecksum != gotChecksum {
		return nil, ierrors.NewStorageError(
			nil, ierrors.ErrorCodeSegmentCorrupted, "data record checksum mismatch",
		).WithDetail("want", wantChecksum).WithDetail("got", gotChecksum)
	}

	op := Operation(buf[8])
	timestamp := int64(binary.BigEndian.Uint64(buf[9:17]))
	keyLen := binary.BigEndian.Uint32(buf[17:21])
	valueLen := binary.BigEndian.Uint32(buf[21:25])

	want := int(dataRecordHeaderSize + keyLen + valueLen)
	if len(buf) < want {
		return nil, ierrors.NewStorageError(
			nil, ierrors.ErrorCodePayloadReadFailure, "data record payload truncated",
		).WithDetail("bufLen", len(buf)).WithDetail("wantLen", want)
	}

	key := string(buf[25 : 25+keyLen])
	value := make([]byte, valueLen)
	copy(value, buf[25+keyLen:25+keyLen+valueLen])

	return &DataRecord{key: key, value: value, operation: op, timestamp: timestamp}, nil
}

// EncodedIndexSize reports the exact number of bytes EncodeIndex(r) will
// produce, without allocating the encoded form.
func EncodedIndexSize(r *IndexRecord) int {
	return indexRecordHeaderSize + len(r.key)
}

// EncodeIndex serializes an IndexRecord to its self-delimiting binary form.
func EncodeIndex(r *IndexRecord) []byte {
	buf := make([]byte, EncodedIndexSize(r))

	buf[8] = byte(r.operation)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.timestamp))
	binary.BigEndian.PutUint64(buf[17:25], r.offset)
	binary.BigEndian.PutUint32(buf[25:29], r.length)
	binary.BigEndian.PutUint32(buf[29:33], uint32(len(r.key)))
	copy(buf[33:], r.key)

	checksum := xxh3.Hash(buf[8:])
	binary.BigEndian.PutUint64(buf[0:8], checksum)

	return buf
}

// DecodeIndex parses a byte slice produced by EncodeIndex.
func DecodeIndex(buf []byte) (*IndexRecord, error) {
	if len(buf) < indexRecordHeaderSize {
		return nil, ierrors.NewStorageError(
			nil, ierrors.ErrorCodeHeaderReadFailure, "index record header truncated",
		).WithDetail("bufLen", len(buf)).WithDetail("minLen", indexRecordHeaderSize)
	}

	wantChecksum := binary.BigEndian.Uint64(buf[0:8])
	gotChecksum := xxh3.Hash(buf[8:])
	if wantChecksum != gotChecksum {
		return nil, ierrors.NewStorageError(
			nil, ierrors.ErrorCodeSegmentCorrupted, "index record checksum mismatch",
		).WithDetail("want", wantChecksum).WithDetail("got", gotChecksum)
	}

	op := Operation(buf[8])
	timestamp := int64(binary.BigEndian.Uint64(buf[9:17]))
	offset := binary.BigEndian.Uint64(buf[17:25])
	length := binary.BigEndian.Uint32(buf[25:29])
	keyLen := binary.BigEndian.Uint32(buf[29:33])

	want := int(indexRecordHeaderSize + keyLen)
	if len(buf) < want {
		return nil, ierrors.NewStorageError(
			nil, ierrors.ErrorCodePayloadReadFailure, "index record key truncated",
		).WithDetail("bufLen", len(buf)).WithDetail("wantLen", want)
	}

	key := string(buf[33 : 33+keyLen])

	return &IndexRecord{
		key: key, offset: offset, length: length, operation: op, timestamp: timestamp,
	}, nil
}
