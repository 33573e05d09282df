package logfile

import (
	"errors"
	"io"
	"os"
)

// FrameSniffer inspects a just-read fixed-size record header and reports how
// many additional bytes follow it (the variable-length key/value portion).
// internal/record supplies one implementation per wire type.
type FrameSniffer func(header []byte) (bodyLen int, err error)

// Cursor sequentially reads whole records out of a log file without holding
// the File's append lock, so a scan can run concurrently with appends to the
// same file (the scan only ever reads bytes already written by a prior
// Append). Each record is read in two parts: the fixed header, then the
// header-reported body length, giving one place (SequentialScan) that owns
// cursor advancement (spec.md §9's "offset advancement bug" is structurally
// impossible here because the cursor only ever moves by the bytes just read).
type Cursor struct {
	f          *os.File
	pos        int64
	headerSize int
	sniff      FrameSniffer
}

// SequentialScan opens an independent read handle on the log file and returns
// a Cursor starting at offset 0. headerSize and sniff describe the wire
// format being scanned (internal/record.DataHeaderSize/DataBodyLen or
// IndexHeaderSize/IndexBodyLen). A log file that does not yet exist on disk
// yields a Cursor whose first Next() call reports end-of-stream rather than
// an error, since an absent log is indistinguishable from an empty one.
func (lf *File) SequentialScan(headerSize int, sniff FrameSniffer) (*Cursor, error) {
	f, err := os.Open(lf.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Cursor{headerSize: headerSize, sniff: sniff}, nil
		}
		return nil, err
	}
	return &Cursor{f: f, headerSize: headerSize, sniff: sniff}, nil
}

// Next reads the next whole record. ok is false once the stream is exhausted
// or a decode failure is hit; per spec.md §4.2/§4.3, any decode failure during
// a sequential scan is treated as clean end-of-stream, never a fatal error, so
// Next never returns a non-nil error — callers only check ok.
func (c *Cursor) Next() (offset int64, raw []byte, ok bool) {
	if c.f == nil {
		return 0, nil, false
	}

	header := make([]byte, c.headerSize)
	n, err := io.ReadFull(c.f, header)
	if err != nil || n < c.headerSize {
		return 0, nil, false
	}

	bodyLen, err := c.sniff(header)
	if err != nil || bodyLen < 0 {
		return 0, nil, false
	}

	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		n, err := io.ReadFull(c.f, body)
		if err != nil || n < bodyLen {
			return 0, nil, false
		}
	}

	startOffset := c.pos
	full := make([]byte, 0, c.headerSize+bodyLen)
	full = append(full, header...)
	full = append(full, body...)

	c.pos += int64(len(full))
	return startOffset, full, true
}

// Close releases the cursor's independent read handle. Closing a Cursor
// opened against a not-yet-created log file is a no-op.
func (c *Cursor) Close() error {
	if c.f == nil {
		return nil
	}
	return c.f.Close()
}
