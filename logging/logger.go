// ABOUTME: Structured debug logging backed by zap
// ABOUTME: Key/value API, file output for the TUI, no-op by default

// Package logging wraps zap with the small key/value API the viewer uses.
package logging

import (
	"os"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity
type Level = zapcore.Level

// Log levels
const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger writes structured records; a nil *Logger logs to the default logger
type Logger struct {
	zap    *zap.Logger
	sugar  *zap.SugaredLogger
	file   *os.File
	closed atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

// FromZap wraps an existing zap logger
func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}

	return &Logger{
		zap:   z,
		sugar: z.Sugar(),
	}
}

// NewFile creates a console-encoded logger writing to path, truncating it.
// The terminal belongs to the TUI, so debug output must go to a file.
func NewFile(path string, level Level) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create debug log file")
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(f),
		level,
	)

	l := FromZap(zap.New(core))
	l.file = f

	return l, nil
}

// Default returns the process-wide logger
func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}

	return NewNop()
}

// SetDefault replaces the process-wide logger; nil restores the no-op logger
func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}

	defaultLogger.Store(logger)
}

// Named returns a child logger with a name segment
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return Default().Named(name)
	}

	z := l.zap.Named(name)

	return &Logger{zap: z, sugar: z.Sugar()}
}

// With returns a child logger carrying the given key/value pairs
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return Default().With(args...)
	}

	z := l.zap.With(zapFields(args)...)

	return &Logger{zap: z, sugar: z.Sugar()}
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, args ...any) {
	l.log(zapcore.DebugLevel, msg, args...)
}

// Info logs at info level
func (l *Logger) Info(msg string, args ...any) {
	l.log(zapcore.InfoLevel, msg, args...)
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, args ...any) {
	l.log(zapcore.WarnLevel, msg, args...)
}

// Error logs at error level
func (l *Logger) Error(msg string, args ...any) {
	l.log(zapcore.ErrorLevel, msg, args...)
}

// Debugf logs a printf-style debug message
func (l *Logger) Debugf(format string, args ...any) {
	logger := l
	if logger == nil {
		logger = Default()
	}

	logger.sugar.Debugf(format, args...)
}

// Sync flushes buffered records and closes the log file, once
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}

	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}

	// Sync on a regular file may return EINVAL on some platforms
	_ = l.zap.Sync()

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return errors.Wrap(err, "failed to close debug log file")
		}
	}

	return nil
}

func (l *Logger) log(level zapcore.Level, msg string, args ...any) {
	logger := l
	if logger == nil {
		logger = Default()
	}

	if ce := logger.zap.Check(level, msg); ce != nil {
		ce.Write(zapFields(args)...)
	}
}

// zapFields converts alternating key/value arguments into zap fields
func zapFields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}

		if i+1 >= len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}

		value := args[i+1]
		if err, ok := value.(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}

		out = append(out, zap.Any(key, value))
	}

	return out
}
