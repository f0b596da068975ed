package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/broadphase/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the index and runner settings shared by the CLI.
type Config struct {
	CellSize int    `json:"cell_size" yaml:"cell_size"`
	Radius   int    `json:"radius" yaml:"radius"`
	LogLevel string `json:"log_level" yaml:"log_level"`
	Workers  int    `json:"workers" yaml:"workers"`
}

func Default() Config {
	return Config{
		CellSize: 1,
		Radius:   1,
		LogLevel: "info",
		Workers:  4,
	}
}

// Validate checks the settings that the index constructors would otherwise reject later.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive, got %d", ErrInvalidConfig, c.CellSize)
	}
	if c.Radius < 0 {
		return fmt.Errorf("%w: radius must not be negative, got %d", ErrInvalidConfig, c.Radius)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}

// Load reads a config file, choosing the decoder by extension. Keys missing
// from the file keep their Default values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
}

// LoadJSON loads config from JSON reader.
func LoadJSON(r io.Reader) (Config, error) {
	c := Default()
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode json config: %w", err)
	}
	return c, c.Validate()
}

// LoadYAML loads config from YAML reader.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml config: %w", err)
	}
	return c, c.Validate()
}
