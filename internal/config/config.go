package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/awnimo/compETAG/internal/progress"
	"github.com/awnimo/compETAG/pkg/etag"
)

// Config defines configuration for the competag CLI.
type Config struct {
	Mode      string   `yaml:"mode"`
	ChunkSize int64    `yaml:"chunk_size"`
	Workers   int      `yaml:"workers"`
	Buckets   []string `yaml:"buckets"`
	Keys      []string `yaml:"keys"`
	Patterns  []string `yaml:"patterns"`
	CheckFile string   `yaml:"check_file"`
	OutFile   string   `yaml:"out_file"`
	Progress  bool     `yaml:"progress"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Mode:      string(etag.ModeETag),
		ChunkSize: etag.DefaultChunkSize,
		Workers:   1,
	}
}

// yamlConfig is used for YAML unmarshaling with a string chunk size.
type yamlConfig struct {
	Mode      string   `yaml:"mode"`
	ChunkSize string   `yaml:"chunk_size"`
	Workers   int      `yaml:"workers"`
	Buckets   []string `yaml:"buckets"`
	Keys      []string `yaml:"keys"`
	Patterns  []string `yaml:"patterns"`
	CheckFile string   `yaml:"check_file"`
	OutFile   string   `yaml:"out_file"`
	Progress  bool     `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Mode != "" {
		cfg.Mode = yc.Mode
	}
	if yc.ChunkSize != "" {
		size, err := progress.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	cfg.Buckets = yc.Buckets
	cfg.Keys = yc.Keys
	cfg.Patterns = yc.Patterns
	cfg.CheckFile = yc.CheckFile
	cfg.OutFile = yc.OutFile
	cfg.Progress = yc.Progress

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables with the
// COMPETAG_ prefix. List-valued settings are comma-separated.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("COMPETAG_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("COMPETAG_CHUNK_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse COMPETAG_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("COMPETAG_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse COMPETAG_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("COMPETAG_BUCKET"); v != "" {
		c.Buckets = splitList(v)
	}
	if v := os.Getenv("COMPETAG_KEY"); v != "" {
		c.Keys = splitList(v)
	}
	if v := os.Getenv("COMPETAG_PATTERN"); v != "" {
		c.Patterns = splitList(v)
	}
	if v := os.Getenv("COMPETAG_CHECK_FILE"); v != "" {
		c.CheckFile = v
	}
	if v := os.Getenv("COMPETAG_OUT_FILE"); v != "" {
		c.OutFile = v
	}
	if v := os.Getenv("COMPETAG_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	return nil
}

// Validate validates the configuration. An unrecognized mode string is not
// rejected here: the reconciliation engine reports it as a diagnostic line
// instead of a hard failure.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if mode, ok := etag.ParseMode(c.Mode); ok && mode == etag.ModeRemote {
		if len(c.Buckets) == 0 {
			return errors.New("config: bucket is required in s3uri mode")
		}
		if len(c.Keys) == 0 {
			return errors.New("config: key is required in s3uri mode")
		}
	}
	return nil
}

// Merge merges override values into c, returning a new Config. Zero values
// in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Mode != "" {
		c.Mode = override.Mode
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if len(override.Buckets) != 0 {
		c.Buckets = override.Buckets
	}
	if len(override.Keys) != 0 {
		c.Keys = override.Keys
	}
	if len(override.Patterns) != 0 {
		c.Patterns = override.Patterns
	}
	if override.CheckFile != "" {
		c.CheckFile = override.CheckFile
	}
	if override.OutFile != "" {
		c.OutFile = override.OutFile
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
