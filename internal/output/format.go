// Package output renders alignr's human-facing text: run summaries, watch
// log lines, errors and hints. Everything the filter itself emits goes to
// the output stream untouched; this package only writes to the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/alignr/internal/align"
)

const fallbackWidth = 80

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Formatter writes styled or plain text to one terminal stream.
type Formatter struct {
	w     io.Writer
	color bool
	width int
}

// NewFormatter builds a formatter for w. mode is "auto", "always" or
// "never"; in auto mode color is enabled only when w is a terminal,
// NO_COLOR is unset and the terminal advertises color support.
func NewFormatter(w io.Writer, mode string) *Formatter {
	f := &Formatter{w: w, width: fallbackWidth}

	switch mode {
	case "always":
		f.color = true
	case "never":
		f.color = false
	default:
		f.color = detectColor(w)
	}

	if file, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(file.Fd())); err == nil && tw > 0 {
			f.width = tw
		}
	}
	return f
}

func detectColor(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

func (f *Formatter) render(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

// Summary prints a one-line digest of a completed run.
func (f *Formatter) Summary(path string, st align.Stats, elapsed time.Duration) {
	name := runewidth.Truncate(path, f.width/2, "…")
	fmt.Fprintf(f.w, "%s %s lines, %s aligned",
		f.render(labelStyle, name),
		f.render(countStyle, fmt.Sprintf("%d", st.Lines)),
		f.render(countStyle, fmt.Sprintf("%d", st.Aligned)))
	if st.Overflowed > 0 {
		fmt.Fprintf(f.w, ", %s passed through over-length", f.render(countStyle, fmt.Sprintf("%d", st.Overflowed)))
	}
	fmt.Fprintf(f.w, " %s\n", f.render(dimStyle, fmt.Sprintf("(%d bytes, %s)", st.BytesWritten, elapsed.Round(time.Microsecond))))
}

// Watchln prints a timestamped watch-mode log line.
func (f *Formatter) Watchln(format string, args ...interface{}) {
	stamp := f.render(dimStyle, time.Now().Format("15:04:05"))
	fmt.Fprintf(f.w, "%s %s\n", stamp, fmt.Sprintf(format, args...))
}

// Errorf prints an error line.
func (f *Formatter) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(f.w, "%s %s\n", f.render(errStyle, "error:"), fmt.Sprintf(format, args...))
}

// Hint prints explanatory text wrapped to the terminal width.
func (f *Formatter) Hint(text string) {
	fmt.Fprintln(f.w, f.render(dimStyle, wordwrap.String(text, f.width)))
}
