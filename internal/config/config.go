package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration loaded from file/env.
type Config struct {
	DataDir  string `json:"dataDir" yaml:"dataDir"`
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr"`

	MemoryLimitBytes     uint64 `json:"memoryLimitBytes" yaml:"memoryLimitBytes"`
	RecentActivityLimit  int    `json:"recentActivityLimit" yaml:"recentActivityLimit"`
	SubscriberBufferSize int    `json:"subscriberBufferSize" yaml:"subscriberBufferSize"`

	Fsync         FsyncMode `json:"fsync" yaml:"fsync"`
	FsyncInterval int       `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`

	LogLevel  string `json:"logLevel" yaml:"logLevel"`
	LogFormat string `json:"logFormat" yaml:"logFormat"`
}

// FsyncMode controls how aggressively the backing store flushes writes to
// disk, mirroring the tradeoff every embedded KV store exposes.
type FsyncMode string

const (
	// FsyncAlways syncs after every batch commit.
	FsyncAlways FsyncMode = "always"
	// FsyncInterval syncs on a periodic timer.
	FsyncInterval FsyncMode = "interval"
	// FsyncNever never syncs explicitly, relying on OS buffering.
	FsyncNever FsyncMode = "never"
)

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:              DefaultDataDir(),
		HTTPAddr:             "127.0.0.1:8181",
		MemoryLimitBytes:     1_000_000_000,
		RecentActivityLimit:  10_000,
		SubscriberBufferSize: 64,
		Fsync:                FsyncInterval,
		FsyncInterval:        1000,
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// Load reads configuration from a JSON or YAML file, chosen by extension.
// If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse json: %w", err)
		}
	}
	return cfg, nil
}
