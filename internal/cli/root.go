// Package cli wires the alignr commands: the root filter run, watch mode,
// and version reporting.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/alignr/internal/align"
	"github.com/Dicklesworthstone/alignr/internal/config"
	"github.com/Dicklesworthstone/alignr/internal/output"
	"github.com/Dicklesworthstone/alignr/internal/util"
)

// Build information - set by goreleaser via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions holds the flag state shared by the root run and subcommands.
type rootOptions struct {
	cfgFile string
	noColor bool
	quiet   bool

	targetChar   string
	targetColumn int
	fillChar     string
	tabWidth     int

	input   string
	outPath string
	inPlace bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "alignr",
		Short: "Align a trailing character to a fixed column",
		Long: `alignr reads a file line by line and, for each line ending in the target
character (default '\'), pads the line with the fill character so the
target character lands on the target column (default 80, first column
is 1). Other lines, lines longer than the line buffer, and lines whose
target character already sits at or past the column pass through
unchanged.

Usage examples:
  alignr -i input.h -o output.h
  alignr -i macros.h --in-place -p 100
  cat macros.h | alignr -i - > aligned.h`,
		Version:       fmt.Sprintf("%s (%s, built %s)", Version, Commit, Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default ~/.config/alignr/config.toml)")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored terminal output")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the run summary")
	pf.StringVarP(&opts.targetChar, "char", "c", "", "character to align (default from config, '\\')")
	pf.IntVarP(&opts.targetColumn, "position", "p", 0, "column to align the character to (default from config, 80)")
	pf.StringVarP(&opts.fillChar, "fill", "f", "", "fill character (default from config, space)")
	pf.IntVarP(&opts.tabWidth, "tab-width", "t", -1, "tab width used when measuring lines (default from config, 4)")

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "input file, or - for stdin (required)")
	f.StringVarP(&opts.outPath, "output", "o", "", "output file, or - for stdout (mutually exclusive with --in-place)")
	f.BoolVar(&opts.inPlace, "in-place", false, "modify the input file (mutually exclusive with --output)")

	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the CLI and terminates the process with a non-zero status
// on any error.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		output.NewFormatter(os.Stderr, "auto").Errorf("%v", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: file and environment
// first, then any flags the user actually set.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("char") {
		cfg.TargetChar = opts.targetChar
	}
	if flags.Changed("position") {
		cfg.TargetColumn = opts.targetColumn
	}
	if flags.Changed("fill") {
		cfg.FillChar = opts.fillChar
	}
	if flags.Changed("tab-width") {
		cfg.TabWidth = opts.tabWidth
	}
	if opts.noColor {
		cfg.Color = "never"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAlign(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if opts.input == "" {
		return fmt.Errorf("an input file is required (-i or --input); use - for stdin")
	}
	if opts.inPlace && opts.outPath != "" {
		return fmt.Errorf("--output and --in-place are mutually exclusive; specify exactly one")
	}

	stdinInput := opts.input == "-"
	if stdinInput && opts.inPlace {
		return fmt.Errorf("--in-place cannot be used with stdin input")
	}
	if !stdinInput && !opts.inPlace && opts.outPath == "" {
		return fmt.Errorf("specify an output file (-o or --output) or --in-place")
	}
	if !stdinInput && opts.outPath != "" && opts.outPath != "-" &&
		filepath.Clean(opts.outPath) == filepath.Clean(opts.input) {
		return fmt.Errorf("output path equals input path; use --in-place instead")
	}

	aopts := cfg.Resolve()
	start := time.Now()
	var st align.Stats

	switch {
	case opts.inPlace:
		err = util.EditInPlace(opts.input, cfg.BackupSuffix, func(w io.Writer, r io.Reader) error {
			var perr error
			st, perr = align.Process(w, r, aopts)
			return perr
		})
		if err != nil {
			return err
		}

	default:
		in := cmd.InOrStdin()
		if !stdinInput {
			f, err := os.Open(opts.input)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()
			in = f
		}

		out := cmd.OutOrStdout()
		var outFile *os.File
		if opts.outPath != "" && opts.outPath != "-" {
			outFile, err = os.Create(opts.outPath)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			out = outFile
		}

		st, err = align.Process(out, in, aopts)
		if err != nil {
			if outFile != nil {
				outFile.Close()
			}
			return err
		}
		if outFile != nil {
			if err := outFile.Close(); err != nil {
				return fmt.Errorf("closing output: %w", err)
			}
		}
	}

	if !opts.quiet {
		name := opts.input
		if stdinInput {
			name = "stdin"
		}
		output.NewFormatter(cmd.ErrOrStderr(), cfg.Color).Summary(name, st, time.Since(start))
	}
	return nil
}
