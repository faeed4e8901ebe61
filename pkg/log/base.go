package log

import (
	"context"
	"fmt"
	"os"
	"time"
)

func (l *BaseLogger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}
	entry := l.buildEntry(level, msg, fieldsToMap(fields))
	l.emit(entry)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *BaseLogger) logf(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	entry := l.buildEntry(level, fmt.Sprintf(format, args...), nil)
	l.emit(entry)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *BaseLogger) buildEntry(level Level, msg string, extra Fields) *Entry {
	all := mergeFields(l.fields, extra)
	var errVal error
	if e, ok := all["error"].(error); ok {
		errVal = e
	}
	return &Entry{
		Level:     level,
		Message:   msg,
		Fields:    all,
		Timestamp: time.Now(),
		Error:     errVal,
	}
}

func (l *BaseLogger) emit(entry *Entry) {
	formatted, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: format error: %v\n", err)
		return
	}
	for _, out := range l.outputs {
		if werr := out.Write(entry, formatted); werr != nil {
			fmt.Fprintf(os.Stderr, "log: output error: %v\n", werr)
		}
	}
}

func (l *BaseLogger) clone() *BaseLogger {
	nl := &BaseLogger{
		level:     l.level,
		fields:    mergeFields(l.fields, nil),
		formatter: l.formatter,
		outputs:   l.outputs,
	}
	nl.slogLogger = l.slogLogger
	return nl
}

// Debug logs at DebugLevel.
func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }

// Info logs at InfoLevel.
func (l *BaseLogger) Info(msg string, fields ...Field) { l.log(InfoLevel, msg, fields...) }

// Warn logs at WarnLevel.
func (l *BaseLogger) Warn(msg string, fields ...Field) { l.log(WarnLevel, msg, fields...) }

// Error logs at ErrorLevel.
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

// Fatal logs at FatalLevel then exits the process.
func (l *BaseLogger) Fatal(msg string, fields ...Field) { l.log(FatalLevel, msg, fields...) }

// Debugf logs a formatted message at DebugLevel.
func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.logf(DebugLevel, msg, args...) }

// Infof logs a formatted message at InfoLevel.
func (l *BaseLogger) Infof(msg string, args ...interface{}) { l.logf(InfoLevel, msg, args...) }

// Warnf logs a formatted message at WarnLevel.
func (l *BaseLogger) Warnf(msg string, args ...interface{}) { l.logf(WarnLevel, msg, args...) }

// Errorf logs a formatted message at ErrorLevel.
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.logf(ErrorLevel, msg, args...) }

// Fatalf logs a formatted message at FatalLevel then exits the process.
func (l *BaseLogger) Fatalf(msg string, args ...interface{}) { l.logf(FatalLevel, msg, args...) }

// WithField returns a copy of the logger with an additional field.
func (l *BaseLogger) WithField(key string, value interface{}) Logger {
	nl := l.clone()
	nl.fields = mergeFields(l.fields, Fields{key: value})
	return nl
}

// WithFields returns a copy of the logger with additional fields.
func (l *BaseLogger) WithFields(fields Fields) Logger {
	nl := l.clone()
	nl.fields = mergeFields(l.fields, fields)
	return nl
}

// WithError returns a copy of the logger carrying the given error under "error".
func (l *BaseLogger) WithError(err error) Logger {
	return l.WithField("error", err)
}

// With returns a copy of the logger with the given Fields added.
func (l *BaseLogger) With(fields ...Field) Logger {
	nl := l.clone()
	nl.fields = mergeFields(l.fields, fieldsToMap(fields))
	return nl
}

// WithContext returns a copy of the logger enriched with fields extracted from ctx.
func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	return l.WithFields(ContextExtractor(ctx))
}

// WithComponent tags the logger with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.WithField(ComponentKey, component)
}

// SetLevel sets the minimum log level.
func (l *BaseLogger) SetLevel(level Level) { l.level = level }

// GetLevel returns the current minimum log level.
func (l *BaseLogger) GetLevel() Level { return l.level }
