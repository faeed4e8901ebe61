package log

import (
	"log"
	"strings"
)

// log2 is an unexported escape hatch letting stdlib-log adapters emit at an
// arbitrary level without widening the Logger interface.
func (l *BaseLogger) log2(level Level, msg string) { l.log(level, msg) }

func toLog2(logger Logger, level Level, msg string) {
	if bl, ok := logger.(*BaseLogger); ok {
		bl.log2(level, msg)
		return
	}
	switch level {
	case DebugLevel:
		logger.Debug(msg)
	case WarnLevel:
		logger.Warn(msg)
	case ErrorLevel, FatalLevel:
		logger.Error(msg)
	default:
		logger.Info(msg)
	}
}

// ToStdLogger returns a standard library *log.Logger that writes through the
// given Logger at the given level.
func ToStdLogger(logger Logger, level Level) *log.Logger {
	return log.New(stdWriterFunc(func(p []byte) (int, error) {
		msg := strings.TrimRight(string(p), "\n")
		if msg != "" {
			toLog2(logger, level, msg)
		}
		return len(p), nil
	}), "", 0)
}

type stdWriterFunc func(p []byte) (int, error)

func (f stdWriterFunc) Write(p []byte) (int, error) { return f(p) }

// RedirectStdLog points the standard library's default logger at the given
// Logger so third-party code using log.Print* is captured by our pipeline.
func RedirectStdLog(logger Logger) {
	log.SetFlags(0)
	log.SetOutput(stdWriterFunc(func(p []byte) (int, error) {
		msg := strings.TrimRight(string(p), "\n")
		if msg != "" {
			toLog2(logger, InfoLevel, msg)
		}
		return len(p), nil
	}))
}
