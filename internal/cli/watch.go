package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/alignr/internal/align"
	"github.com/Dicklesworthstone/alignr/internal/output"
	"github.com/Dicklesworthstone/alignr/internal/tui/watchview"
	"github.com/Dicklesworthstone/alignr/internal/util"
	"github.com/Dicklesworthstone/alignr/internal/watcher"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-align a file in place whenever it changes",
		Long: `Watch mode keeps a file aligned: every time it changes on disk, alignr
rewrites it in place (backup, write, remove backup) with the configured
target character, column and fill.

Examples:
  alignr watch macros.h
  alignr watch macros.h -p 100 --tui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args[0], useTUI)
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "render a live dashboard instead of log lines")
	return cmd
}

// watchRunner re-aligns one file in place and remembers the resulting
// modification time and size, so the event caused by its own rewrite is
// recognized and skipped instead of looping forever.
type watchRunner struct {
	path   string
	suffix string
	opts   align.Options
	mod    time.Time
	size   int64
}

// run performs one in-place alignment. skipped is true when the file is
// unchanged since our own last rewrite.
func (wr *watchRunner) run() (st align.Stats, elapsed time.Duration, skipped bool, err error) {
	info, err := os.Stat(wr.path)
	if err != nil {
		return st, 0, false, err
	}
	if !wr.mod.IsZero() && info.ModTime().Equal(wr.mod) && info.Size() == wr.size {
		return st, 0, true, nil
	}

	start := time.Now()
	err = util.EditInPlace(wr.path, wr.suffix, func(w io.Writer, r io.Reader) error {
		var perr error
		st, perr = align.Process(w, r, wr.opts)
		return perr
	})
	elapsed = time.Since(start)
	if err != nil {
		return st, elapsed, false, err
	}

	if info, serr := os.Stat(wr.path); serr == nil {
		wr.mod = info.ModTime()
		wr.size = info.Size()
	}
	return st, elapsed, false, nil
}

func runWatch(cmd *cobra.Command, opts *rootOptions, path string, useTUI bool) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &watchRunner{path: path, suffix: cfg.BackupSuffix, opts: cfg.Resolve()}

	if useTUI {
		return watchTUI(ctx, cfg.Debounce(), runner)
	}
	return watchPlain(ctx, cmd, cfg.Color, cfg.Debounce(), runner, opts.quiet)
}

func watchPlain(ctx context.Context, cmd *cobra.Command, colorMode string, debounce time.Duration, runner *watchRunner, quiet bool) error {
	f := output.NewFormatter(cmd.ErrOrStderr(), colorMode)

	report := func() {
		st, elapsed, skipped, err := runner.run()
		switch {
		case err != nil:
			f.Errorf("%v", err)
		case skipped || quiet:
		default:
			f.Watchln("%s: %d lines, %d aligned, %d overflow (%s)",
				runner.path, st.Lines, st.Aligned, st.Overflowed, elapsed.Round(time.Microsecond))
		}
	}

	report()
	err := watcher.Watch(ctx, runner.path, debounce, report)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func watchTUI(ctx context.Context, debounce time.Duration, runner *watchRunner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runs := make(chan watchview.RunMsg, 8)
	watchErr := make(chan error, 1)

	emit := func() {
		st, elapsed, skipped, err := runner.run()
		if skipped {
			return
		}
		select {
		case runs <- watchview.RunMsg{Stats: st, Err: err, Elapsed: elapsed, Time: time.Now()}:
		case <-ctx.Done():
		}
	}

	go func() {
		emit()
		watchErr <- watcher.Watch(ctx, runner.path, debounce, emit)
		close(runs)
	}()

	program := tea.NewProgram(watchview.New(runner.path, runs))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	cancel()

	if err := <-watchErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
