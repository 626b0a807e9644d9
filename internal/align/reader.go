package align

import (
	"errors"
	"fmt"
	"io"
)

// ReadStatus reports how a ReadLine call ended.
type ReadStatus int

const (
	// StatusFound means a newline was located within capacity.
	// The line, including the newline, is in Outcome.Line.
	StatusFound ReadStatus = iota
	// StatusEndOfStream means the stream ended before a newline was seen.
	// Outcome.Line holds the partial tail, possibly empty.
	StatusEndOfStream
	// StatusOverflow means the buffer filled before a newline was seen.
	// Outcome.Line holds exactly capacity-1 bytes; the rest of the line is
	// still unread on the stream.
	StatusOverflow
)

func (s ReadStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusEndOfStream:
		return "end-of-stream"
	case StatusOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("ReadStatus(%d)", int(s))
	}
}

// Outcome is the result of one ReadLine call. Line aliases the reader's
// internal buffer and is only valid until the next ReadLine.
type Outcome struct {
	Status ReadStatus
	Line   []byte
}

// ErrZeroCapacity is returned when a LineReader is created with no buffer
// space at all. It is a configuration error, not a runtime condition.
var ErrZeroCapacity = errors.New("align: zero-capacity line buffer")

// LineReader reads one line at a time into a fixed-capacity buffer,
// one byte per read. The buffer is allocated once and never grows;
// lines that do not fit are reported as StatusOverflow.
type LineReader struct {
	src io.ByteReader
	buf []byte
}

// NewLineReader returns a reader over src with the given buffer capacity.
// Capacity must be at least 1; a capacity of 1 leaves no room for both a
// byte and the terminator, so every ReadLine reports StatusOverflow with
// empty content.
func NewLineReader(src io.ByteReader, capacity int) (*LineReader, error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}
	return &LineReader{src: src, buf: make([]byte, 0, capacity)}, nil
}

// ReadLine consumes bytes from the stream until a newline is found, the
// buffer fills, or the stream ends, and reports which case occurred.
// Bytes consumed are never pushed back. Any read error other than EOF is
// returned as-is and ends the run.
func (lr *LineReader) ReadLine() (Outcome, error) {
	lr.buf = lr.buf[:0]
	if cap(lr.buf) == 1 {
		return Outcome{Status: StatusOverflow, Line: lr.buf}, nil
	}
	for {
		b, err := lr.src.ReadByte()
		if errors.Is(err, io.EOF) {
			return Outcome{Status: StatusEndOfStream, Line: lr.buf}, nil
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("reading input: %w", err)
		}
		lr.buf = append(lr.buf, b)
		if b == '\n' {
			return Outcome{Status: StatusFound, Line: lr.buf}, nil
		}
		if len(lr.buf) == cap(lr.buf)-1 {
			return Outcome{Status: StatusOverflow, Line: lr.buf}, nil
		}
	}
}
