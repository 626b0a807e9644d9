// Package align implements the line alignment engine: for each input line
// that ends in the target character immediately before its newline, the
// line is padded with the fill character so the target character lands at
// the target column, with tabs expanded for width purposes. All other
// lines, lines longer than the line buffer, and lines already at or past
// the target column pass through byte for byte.
package align

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultBufferSize is the line buffer capacity used when Options does not
// set one. Lines of DefaultBufferSize-1 bytes or more (terminator included)
// are passed through unmodified.
const DefaultBufferSize = 2048

// Options configures one processing run. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	TargetChar   byte // character to align, default '\\'
	TargetColumn int  // 1-indexed column to align it to, default 80
	FillChar     byte // padding character, default ' '
	TabWidth     int  // columns per tab when measuring width, default 4
	BufferSize   int  // line buffer capacity, default DefaultBufferSize
}

// DefaultOptions returns the built-in defaults: align '\' to column 80
// with spaces, tabs four columns wide.
func DefaultOptions() Options {
	return Options{
		TargetChar:   '\\',
		TargetColumn: 80,
		FillChar:     ' ',
		TabWidth:     4,
		BufferSize:   DefaultBufferSize,
	}
}

// Validate reports whether the options satisfy the core's preconditions.
// The target column must leave room in the buffer for the terminator and
// one content byte past the column.
func (o Options) Validate() error {
	if o.BufferSize < 2 {
		return fmt.Errorf("align: buffer size %d too small (need at least 2)", o.BufferSize)
	}
	if o.TargetColumn < 1 || o.TargetColumn > o.BufferSize-2 {
		return fmt.Errorf("align: target column %d out of range [1, %d]", o.TargetColumn, o.BufferSize-2)
	}
	if o.TabWidth < 0 {
		return fmt.Errorf("align: tab width %d must not be negative", o.TabWidth)
	}
	return nil
}

// Stats summarizes one processing run.
type Stats struct {
	Lines        int   // logical lines seen, including overflow lines
	Aligned      int   // lines rewritten to move the target character
	Overflowed   int   // lines passed through because they exceeded the buffer
	BytesWritten int64 // total bytes emitted
}

// Process reads r line by line and writes the transformed stream to w.
// It runs to completion or stops at the first I/O error; output already
// written stays written. The line buffer is allocated once up front.
func Process(w io.Writer, r io.Reader, opts Options) (Stats, error) {
	var st Stats
	if err := opts.Validate(); err != nil {
		return st, err
	}

	src, ok := r.(io.ByteReader)
	if !ok {
		src = bufio.NewReader(r)
	}
	dst := bufio.NewWriter(w)

	lr, err := NewLineReader(src, opts.BufferSize)
	if err != nil {
		return st, err
	}

	for {
		out, err := lr.ReadLine()
		if err != nil {
			return st, err
		}

		switch out.Status {
		case StatusFound:
			st.Lines++
			if err := emitLine(dst, out.Line, opts, &st); err != nil {
				return st, err
			}

		case StatusEndOfStream:
			// A final line with no terminator is never aligned: alignment
			// is defined only for a target character immediately before a
			// newline.
			if len(out.Line) > 0 {
				st.Lines++
				if err := write(dst, out.Line, &st); err != nil {
					return st, err
				}
			}
			return st, flush(dst)

		case StatusOverflow:
			// Too long to examine; reproduce the line exactly.
			st.Lines++
			st.Overflowed++
			if err := write(dst, out.Line, &st); err != nil {
				return st, err
			}
			found, err := drainThroughNewline(src, dst, &st)
			if err != nil {
				return st, err
			}
			if !found {
				return st, flush(dst)
			}
		}
	}
}

// emitLine writes one terminated line, aligned when it qualifies.
// line always ends in '\n' here.
func emitLine(dst *bufio.Writer, line []byte, opts Options, st *Stats) error {
	n := len(line)
	if n == 1 {
		// Blank line.
		return write(dst, line, st)
	}
	if line[n-2] != opts.TargetChar {
		return write(dst, line, st)
	}

	width := LineWidth(line, opts.TabWidth)
	if width >= opts.TargetColumn {
		// Already at or past the target column; never truncate or move
		// content back.
		return write(dst, line, st)
	}

	// Content without the target character and terminator occupies
	// width-1 columns, so targetColumn-width fill bytes put the target
	// character on the target column.
	if err := write(dst, line[:n-2], st); err != nil {
		return err
	}
	for i := 0; i < opts.TargetColumn-width; i++ {
		if err := writeByte(dst, opts.FillChar, st); err != nil {
			return err
		}
	}
	if err := writeByte(dst, opts.TargetChar, st); err != nil {
		return err
	}
	if err := writeByte(dst, '\n', st); err != nil {
		return err
	}
	st.Aligned++
	return nil
}

// drainThroughNewline copies bytes verbatim, one at a time, until a
// newline has been copied or the stream ends. Reports whether a newline
// was found.
func drainThroughNewline(src io.ByteReader, dst *bufio.Writer, st *Stats) (bool, error) {
	for {
		b, err := src.ReadByte()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading input: %w", err)
		}
		if err := writeByte(dst, b, st); err != nil {
			return false, err
		}
		if b == '\n' {
			return true, nil
		}
	}
}

func write(dst *bufio.Writer, p []byte, st *Stats) error {
	if _, err := dst.Write(p); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	st.BytesWritten += int64(len(p))
	return nil
}

func writeByte(dst *bufio.Writer, b byte, st *Stats) error {
	if err := dst.WriteByte(b); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	st.BytesWritten++
	return nil
}

func flush(dst *bufio.Writer) error {
	if err := dst.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
