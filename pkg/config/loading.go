package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"deltasync/pkg/helper/errors"
)

// fileOverlay mirrors the subset of Config a YAML file may override. Only
// fields actually present in the file are applied; zero-value fields in the
// decoded overlay are left untouched on the target Config.
type fileOverlay struct {
	LogLevel string         `yaml:"log_level"`
	Chunker  chunkerOverlay `yaml:"chunker"`
}

type chunkerOverlay struct {
	AlphabetSize *uint64 `yaml:"alphabet_size"`
	WindowSize   *int    `yaml:"window_size"`
	Modulus      *uint64 `yaml:"modulus"`
	BoundaryMask *uint64 `yaml:"boundary_mask"`
	WeakHash     string  `yaml:"weak_hash"`
}

// LoadFile reads a YAML overlay from path and applies it on top of c. Only
// keys present in the file take effect, so a partial file is valid.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(ExpandHomeDir(path))
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}

	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Chunker.AlphabetSize != nil {
		c.Chunker.AlphabetSize = *overlay.Chunker.AlphabetSize
	}
	if overlay.Chunker.WindowSize != nil {
		c.Chunker.WindowSize = *overlay.Chunker.WindowSize
	}
	if overlay.Chunker.Modulus != nil {
		c.Chunker.Modulus = *overlay.Chunker.Modulus
	}
	if overlay.Chunker.BoundaryMask != nil {
		c.Chunker.BoundaryMask = *overlay.Chunker.BoundaryMask
	}
	if overlay.Chunker.WeakHash != "" {
		c.Chunker.WeakHash = overlay.Chunker.WeakHash
	}

	return nil
}
