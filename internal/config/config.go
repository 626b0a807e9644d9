// Package config loads and validates alignr configuration. Values are
// resolved in order: built-in defaults, then the config file (TOML or
// YAML by extension), then ALIGNR_* environment variables; command-line
// flags override all of these at the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/alignr/internal/align"
)

// Config is the on-disk configuration.
type Config struct {
	TargetChar   string      `toml:"target_char" yaml:"target_char"`     // single byte, the character to align
	TargetColumn int         `toml:"target_column" yaml:"target_column"` // 1-indexed column to align it to
	FillChar     string      `toml:"fill_char" yaml:"fill_char"`         // single byte used for padding
	TabWidth     int         `toml:"tab_width" yaml:"tab_width"`         // columns per tab when measuring width
	BackupSuffix string      `toml:"backup_suffix" yaml:"backup_suffix"` // appended to the input path during in-place edits
	Color        string      `toml:"color" yaml:"color"`                 // auto, always, or never
	Watch        WatchConfig `toml:"watch" yaml:"watch"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"` // quiet period after a change burst before re-running
}

// Default returns the built-in defaults: align '\' to column 80 with
// spaces, tabs four columns wide.
func Default() *Config {
	return &Config{
		TargetChar:   `\`,
		TargetColumn: 80,
		FillChar:     " ",
		TabWidth:     4,
		BackupSuffix: ".alignr.bak",
		Color:        "auto",
		Watch: WatchConfig{
			DebounceMS: 250,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "alignr", "config.toml")
}

// Load reads configuration from path, falling back to DefaultPath when
// path is empty. A missing file at the default location is not an error;
// a missing file at an explicitly requested path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := unmarshal(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// No config file, defaults apply.
		default:
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return toml.Unmarshal(data, cfg)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALIGNR_TARGET_CHAR"); v != "" {
		cfg.TargetChar = v
	}
	if v := os.Getenv("ALIGNR_TARGET_COLUMN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TargetColumn = n
		}
	}
	if v, ok := os.LookupEnv("ALIGNR_FILL_CHAR"); ok && v != "" {
		cfg.FillChar = v
	}
	if v := os.Getenv("ALIGNR_TAB_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TabWidth = n
		}
	}
	if v := os.Getenv("ALIGNR_COLOR"); v != "" {
		cfg.Color = v
	}
}

// Validate checks that the configuration satisfies the core's
// preconditions before any processing starts.
func (c *Config) Validate() error {
	if len(c.TargetChar) != 1 {
		return fmt.Errorf("target_char must be exactly one character, got %q", c.TargetChar)
	}
	if len(c.FillChar) != 1 {
		return fmt.Errorf("fill_char must be exactly one character, got %q", c.FillChar)
	}
	if c.TargetColumn < 1 || c.TargetColumn > align.DefaultBufferSize-2 {
		return fmt.Errorf("target_column %d out of range [1, %d]", c.TargetColumn, align.DefaultBufferSize-2)
	}
	if c.TabWidth < 0 {
		return fmt.Errorf("tab_width %d must not be negative", c.TabWidth)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always, or never, got %q", c.Color)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms %d must not be negative", c.Watch.DebounceMS)
	}
	return nil
}

// Resolve converts the validated configuration into core options.
func (c *Config) Resolve() align.Options {
	opts := align.DefaultOptions()
	opts.TargetChar = c.TargetChar[0]
	opts.TargetColumn = c.TargetColumn
	opts.FillChar = c.FillChar[0]
	opts.TabWidth = c.TabWidth
	return opts
}

// Debounce returns the watch-mode debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
