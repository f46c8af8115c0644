package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the optional TOML config file looked up in the working
// directory. Precedence: built-in defaults < file < environment < flags.
const DefaultFile = "olx2lia.toml"

type Config struct {
	// OutputDir receives one subdirectory per converted course.
	OutputDir string `toml:"output_dir"`

	// Workers bounds how many courses convert in parallel. Each course
	// is still converted on a single goroutine end to end.
	Workers int `toml:"workers"`

	// Preview additionally renders an index.html next to each course.md.
	Preview bool `toml:"preview"`

	// Addr is the listen address of the serve command.
	Addr string `toml:"addr"`

	// Verbose switches logging to debug level.
	Verbose bool `toml:"verbose"`
}

// Load builds the configuration from defaults, the optional config file
// and OLX2LIA_* environment variables. Flag overrides are applied by the
// CLI afterwards.
func Load() (Config, error) {
	cfg := Config{
		OutputDir: "output",
		Workers:   4,
		Addr:      ":8090",
	}

	data, err := os.ReadFile(DefaultFile)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", DefaultFile, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", DefaultFile, err)
	}

	cfg.OutputDir = envOr("OLX2LIA_OUTPUT_DIR", cfg.OutputDir)
	cfg.Workers = envInt("OLX2LIA_WORKERS", cfg.Workers)
	cfg.Preview = envBool("OLX2LIA_PREVIEW", cfg.Preview)
	cfg.Addr = envOr("OLX2LIA_ADDR", cfg.Addr)
	cfg.Verbose = envBool("OLX2LIA_VERBOSE", cfg.Verbose)

	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
