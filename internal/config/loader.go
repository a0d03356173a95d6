package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigMalformed is returned when the config file cannot be parsed
	// or holds values of the wrong type or range.
	ErrConfigMalformed = errors.New("config file malformed")
)

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path. When path is missing and is not DefaultPath, a
// warning is logged and DefaultPath is tried instead. It returns the path
// that was actually loaded.
func LoadOrDefault(ctx context.Context, path string) (*Config, string, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err == nil || !errors.Is(err, ErrConfigNotFound) {
		return cfg, path, err
	}
	if filepath.Clean(path) == filepath.Clean(DefaultPath) {
		return nil, path, err
	}

	zerolog.Ctx(ctx).Warn().Str("path", path).Msgf("config not found, loading %s", DefaultPath)
	cfg, err = Load(DefaultPath)
	return cfg, DefaultPath, err
}

// Parse decodes a YAML config document. An empty document yields an empty
// Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", ErrConfigMalformed, cfg.Workers)
	}
	if cfg.MaxRetries != nil && *cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: max_retries must not be negative, got %d", ErrConfigMalformed, *cfg.MaxRetries)
	}

	return &cfg, nil
}
