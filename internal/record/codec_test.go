package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataRecordRoundTrip(t *testing.T) {
	rec := NewDataRecord("user:42", []byte("alice"), OpAdd, 1700000000000)

	encoded := EncodeData(rec)
	require.Equal(t, EncodedDataSize(rec), len(encoded))

	decoded, err := DecodeData(encoded)
	require.NoError(t, err)
	require.Equal(t, rec.Key(), decoded.Key())
	require.Equal(t, rec.Value(), decoded.Value())
	require.Equal(t, rec.Operation(), decoded.Operation())
	require.Equal(t, rec.Timestamp(), decoded.Timestamp())
}

func TestDataRecordChecksumMismatch(t *testing.T) {
	rec := NewDataRecord("k", []byte("v"), OpAdd, 1)
	encoded := EncodeData(rec)

	// Flip a byte in the value payload without touching the checksum.
	encoded[len(encoded)-1] ^= 0xFF

	_, err := DecodeData(encoded)
	require.Error(t, err)
}

func TestDataRecordTruncatedHeader(t *testing.T) {
	_, err := DecodeData([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDataRecordTruncatedPayload(t *testing.T) {
	rec := NewDataRecord("longkey", []byte("longvalue"), OpAdd, 1)
	encoded := EncodeData(rec)

	_, err := DecodeData(encoded[:len(encoded)-2])
	require.Error(t, err)
}

func TestDataBodyLen(t *testing.T) {
	rec := NewDataRecord("abc", []byte("defgh"), OpUpdate, 5)
	encoded := EncodeData(rec)

	bodyLen, err := DataBodyLen(encoded[:DataHeaderSize])
	require.NoError(t, err)
	require.Equal(t, len(encoded)-DataHeaderSize, bodyLen)
}

func TestIndexRecordRoundTrip(t *testing.T) {
	rec := NewIndexRecord("user:42", 128, 64, OpUpdate, 1700000000001)

	encoded := EncodeIndex(rec)
	require.Equal(t, EncodedIndexSize(rec), len(encoded))

	decoded, err := DecodeIndex(encoded)
	require.NoError(t, err)
	require.Equal(t, rec.Key(), decoded.Key())
	require.Equal(t, rec.Offset(), decoded.Offset())
	require.Equal(t, rec.Length(), decoded.Length())
	require.Equal(t, rec.Operation(), decoded.Operation())
	require.Equal(t, rec.Timestamp(), decoded.Timestamp())
}

func TestIndexRecordChecksumMismatch(t *testing.T) {
	rec := NewIndexRecord("k", 0, 0, OpDelete, 1)
	encoded := EncodeIndex(rec)
	encoded[len(encoded)-1] ^= 0xFF

	_, err := DecodeIndex(encoded)
	require.Error(t, err)
}

func TestIndexBodyLen(t *testing.T) {
	rec := NewIndexRecord("abcdef", 10, 20, OpAdd, 3)
	encoded := EncodeIndex(rec)

	bodyLen, err := IndexBodyLen(encoded[:IndexHeaderSize])
	require.NoError(t, err)
	require.Equal(t, len(encoded)-IndexHeaderSize, bodyLen)
}

func TestOperationString(t *testing.T) {
	require.Equal(t, "ADD", OpAdd.String())
	require.Equal(t, "UPDATE", OpUpdate.String())
	require.Equal(t, "DELETE", OpDelete.String())
	require.Equal(t, "UNKNOWN", Operation(99).String())
}
