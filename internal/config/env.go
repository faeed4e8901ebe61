package config

import (
	"os"
	"strconv"
)

// FromEnv overlays EDEN_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("EDEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("EDEN_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("EDEN_MEMORY_LIMIT_BYTES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MemoryLimitBytes = n
		}
	}
	if v := os.Getenv("EDEN_RECENT_ACTIVITY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RecentActivityLimit = n
		}
	}
	if v := os.Getenv("EDEN_SUB_BUF"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SubscriberBufferSize = n
		}
	}
	if v := os.Getenv("EDEN_FSYNC"); v != "" {
		cfg.Fsync = FsyncMode(v)
	}
	if v := os.Getenv("EDEN_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncInterval = n
		}
	}
	if v := os.Getenv("EDEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EDEN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
