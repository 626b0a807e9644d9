package align

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func runProcess(t *testing.T, input string, opts Options) (string, Stats) {
	t.Helper()
	var out bytes.Buffer
	st, err := Process(&out, strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Process(%q): %v", input, err)
	}
	return out.String(), st
}

func TestProcessPassThrough(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"blank line", "\n"},
		{"blank lines", "\n\n\n"},
		{"no target char", "hello world\n"},
		{"target char mid-line", "a\\b\n"},
		{"eof without newline", "no terminator"},
		{"eof without newline ending in target", "dangling\\"},
		{"target only followed by text", "\\ and more\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, st := runProcess(t, tt.input, opts)
			if got != tt.input {
				t.Errorf("output = %q, want unchanged %q", got, tt.input)
			}
			if st.Aligned != 0 {
				t.Errorf("aligned = %d, want 0", st.Aligned)
			}
		})
	}
}

func TestProcessAligns(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetColumn = 10

	got, st := runProcess(t, "ab\\\n", opts)
	want := "ab       \\\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if idx := strings.IndexByte(got, '\\'); idx != opts.TargetColumn-1 {
		t.Errorf("target char at byte offset %d, want %d", idx, opts.TargetColumn-1)
	}
	if st.Aligned != 1 || st.Lines != 1 {
		t.Errorf("stats = %+v, want 1 line, 1 aligned", st)
	}
}

func TestProcessFillBytes(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetColumn = 8
	opts.FillChar = '.'

	got, _ := runProcess(t, "x\\\n", opts)
	want := "x......\\\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestProcessTabExpansion(t *testing.T) {
	// Width before the newline: a=1, tab=4, X=1, \=1 -> 7. Three fill
	// bytes advance the target char to column 10.
	opts := DefaultOptions()
	opts.TargetColumn = 10

	got, _ := runProcess(t, "a\tX\\\n", opts)
	want := "a\tX   \\\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestProcessAlreadyAtOrPastColumn(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetColumn = 4

	tests := []struct {
		name  string
		input string
	}{
		{"exactly at column", "abc\\\n"},
		{"past column", "abcdefgh\\\n"},
		{"tabs push past column", "\t\\\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, st := runProcess(t, tt.input, opts)
			if got != tt.input {
				t.Errorf("output = %q, want unchanged %q", got, tt.input)
			}
			if st.Aligned != 0 {
				t.Errorf("aligned = %d, want 0", st.Aligned)
			}
		})
	}
}

func TestProcessTargetColumnOne(t *testing.T) {
	// Any line ending in the target char is already at or past column 1,
	// so nothing ever moves and no fill is emitted.
	opts := DefaultOptions()
	opts.TargetColumn = 1

	got, _ := runProcess(t, "\\\n", opts)
	if got != "\\\n" {
		t.Errorf("output = %q, want %q", got, "\\\n")
	}
}

func TestProcessCustomTargetChar(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetChar = ';'
	opts.TargetColumn = 6

	got, _ := runProcess(t, "ab;\nab\\\n", opts)
	want := "ab   ;\nab\\\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestProcessOverflowPassthrough(t *testing.T) {
	opts := DefaultOptions()
	opts.BufferSize = 8
	opts.TargetColumn = 5

	// Longer than the buffer, ends in the target char: reproduced exactly,
	// never aligned.
	input := "abcdefghijklmnop\\\nok\\\n"
	got, st := runProcess(t, input, opts)
	want := "abcdefghijklmnop\\\nok  \\\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if st.Overflowed != 1 {
		t.Errorf("overflowed = %d, want 1", st.Overflowed)
	}
	if st.Aligned != 1 {
		t.Errorf("aligned = %d, want 1 (the short line)", st.Aligned)
	}
}

func TestProcessOverflowAtEOF(t *testing.T) {
	opts := DefaultOptions()
	opts.BufferSize = 4
	opts.TargetColumn = 2

	input := "abcdefgh"
	got, _ := runProcess(t, input, opts)
	if got != input {
		t.Errorf("output = %q, want unchanged %q", got, input)
	}
}

func TestProcessIdempotent(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetColumn = 12

	input := "short\\\n" +
		"plain line\n" +
		"\n" +
		"a\tX\\\n" +
		"exactly12ch\\\n" +
		"waaaaaaaaaaaaaay too long\\\n" +
		"tail"

	first, _ := runProcess(t, input, opts)
	second, _ := runProcess(t, first, opts)
	if second != first {
		t.Errorf("second run changed output:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestProcessStats(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetColumn = 6
	opts.BufferSize = 8

	input := "a\\\nplain\nabcdefghij\nx"
	got, st := runProcess(t, input, opts)
	want := "a    \\\nplain\nabcdefghij\nx"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if st.Lines != 4 {
		t.Errorf("lines = %d, want 4", st.Lines)
	}
	if st.Aligned != 1 {
		t.Errorf("aligned = %d, want 1", st.Aligned)
	}
	if st.Overflowed != 1 {
		t.Errorf("overflowed = %d, want 1", st.Overflowed)
	}
	if st.BytesWritten != int64(len(want)) {
		t.Errorf("bytes written = %d, want %d", st.BytesWritten, len(want))
	}
}

func TestProcessValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Options)
	}{
		{"zero buffer", func(o *Options) { o.BufferSize = 0 }},
		{"buffer too small", func(o *Options) { o.BufferSize = 1 }},
		{"column zero", func(o *Options) { o.TargetColumn = 0 }},
		{"column beyond buffer", func(o *Options) { o.TargetColumn = o.BufferSize - 1 }},
		{"negative tab width", func(o *Options) { o.TabWidth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mut(&opts)
			if _, err := Process(&bytes.Buffer{}, strings.NewReader("x\n"), opts); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write(p []byte) (int, error) { return 0, f.err }

func TestProcessPropagatesWriteError(t *testing.T) {
	wantErr := errors.New("output closed")
	_, err := Process(failingWriter{err: wantErr}, strings.NewReader("hello\n"), DefaultOptions())
	if !errors.Is(err, wantErr) {
		t.Fatalf("Process error = %v, want wrapped %v", err, wantErr)
	}
}

func TestProcessPropagatesReadError(t *testing.T) {
	wantErr := errors.New("input gone")
	var out bytes.Buffer
	lr := failingByteReader{err: wantErr}
	_, err := Process(&out, readerFromByteReader{lr}, DefaultOptions())
	if !errors.Is(err, wantErr) {
		t.Fatalf("Process error = %v, want wrapped %v", err, wantErr)
	}
}

// readerFromByteReader exposes a ByteReader as an io.Reader so Process
// uses it directly instead of wrapping it in bufio.
type readerFromByteReader struct{ failingByteReader }

func (r readerFromByteReader) Read(p []byte) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	p[0] = b
	return 1, nil
}
