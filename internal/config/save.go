package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Dicklesworthstone/alignr/internal/util"
)

// Save writes the configuration to path as TOML, creating parent
// directories as needed. The write is atomic so a crash never leaves a
// half-written config behind.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
