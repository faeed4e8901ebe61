package log

import (
	"fmt"
	"strings"
)

// Config declaratively describes how to build a Logger, the way a daemon's
// startup path wants to hand it a single struct decoded from flags or a
// config file rather than a chain of options.
type Config struct {
	Level     string `json:"level" yaml:"level"`
	Format    string `json:"format" yaml:"format"`
	FilePath  string `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	Component string `json:"component,omitempty" yaml:"component,omitempty"`
}

// ParseLevel converts a level name to a Level, defaulting to InfoLevel for
// an empty or unrecognized string.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// ApplyConfig builds a Logger from a Config.
func ApplyConfig(cfg Config) (Logger, error) {
	var formatter Formatter
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "text", "console", "":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	opts := []LoggerOption{
		WithLevel(ParseLevel(cfg.Level)),
		WithFormatter(formatter),
	}

	if cfg.FilePath != "" {
		fileOut, err := NewFileOutput(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("log: open log file: %w", err)
		}
		opts = append(opts, WithOutput(fileOut))
	} else {
		opts = append(opts, WithOutput(NewConsoleOutput()))
	}

	logger := NewLogger(opts...)
	if cfg.Component != "" {
		logger = logger.WithComponent(cfg.Component)
	}
	return logger, nil
}
