// Package config provides the configuration surface for deltasync, bound onto
// cobra flags the same way the project's registry-replication ancestor did.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// Config represents the full application configuration.
type Config struct {
	// LogLevel selects the minimum severity emitted by the logger.
	LogLevel string

	// Chunker holds the content-defined chunking tunables.
	Chunker ChunkerConfig

	// ConfigFile, when non-empty, names a YAML overlay applied on top of
	// these defaults before flag parsing takes effect.
	ConfigFile string
}

// ChunkerConfig contains the rolling-hash and boundary-detection tunables
// exposed on the CLI (the "tunable parameters" table in the specification).
type ChunkerConfig struct {
	AlphabetSize uint64
	WindowSize   int
	Modulus      uint64
	BoundaryMask uint64
	WeakHash     string // "rabin" (default) or "xxhash"
}

// NewDefaultConfig creates a configuration populated with the reference
// defaults: alphabet 256, window 48, modulus 2^31-1, boundary mask 0x1FFF.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Chunker: ChunkerConfig{
			AlphabetSize: 256,
			WindowSize:   48,
			Modulus:      (1 << 31) - 1,
			BoundaryMask: 0x1FFF,
			WeakHash:     "rabin",
		},
	}
}

// AddFlagsToCommand adds configuration flags to a cobra command.
func (c *Config) AddFlagsToCommand(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to a YAML config file overlaying these defaults")

	cmd.PersistentFlags().Uint64Var(&c.Chunker.AlphabetSize, "alphabet-size", c.Chunker.AlphabetSize, "Rolling-hash alphabet size")
	cmd.PersistentFlags().IntVar(&c.Chunker.WindowSize, "window-size", c.Chunker.WindowSize, "Rolling-hash window size in bytes")
	cmd.PersistentFlags().Uint64Var(&c.Chunker.Modulus, "modulus", c.Chunker.Modulus, "Rolling-hash modulus")
	cmd.PersistentFlags().Uint64Var(&c.Chunker.BoundaryMask, "boundary-mask", c.Chunker.BoundaryMask, "Bit mask tested against the trailing two-byte window to detect a chunk boundary")
	cmd.PersistentFlags().StringVar(&c.Chunker.WeakHash, "weak-hash", c.Chunker.WeakHash, "Rolling hash implementation: rabin or xxhash")
}

// ExpandHomeDir expands a leading "~" or "${HOME}" in path to the user's home directory.
func ExpandHomeDir(path string) string {
	if path == "" {
		return path
	}

	if strings.Contains(path, "${HOME}") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "${HOME}", homeDir)
		}
	}

	if strings.HasPrefix(path, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return path
}
