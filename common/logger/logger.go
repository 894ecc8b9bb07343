package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a unified logging interface for the legal advisor.
// Every package logs through the package-level helpers; the zap backend can
// be swapped at startup (Init) or in tests (SetBackend).

// LogLevel represents log severity levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu      sync.RWMutex
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	backend = mustBuild("console")
)

func mustBuild(encoding string) *zap.SugaredLogger {
	l, err := build(encoding)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l
}

func build(encoding string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = encoding
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Init rebuilds the backend with the given level name and encoding
// ("console" or "json").
func Init(levelName, encoding string) error {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	if encoding == "" {
		encoding = "console"
	}
	l, err := build(encoding)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	SetLevel(lvl)
	SetBackend(l)
	return nil
}

// SetBackend replaces the underlying logger. Tests use it with zaptest/observer.
func SetBackend(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	mu.Lock()
	backend = l
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// ParseLevel maps a level name to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// SetLevel sets the minimum log level
func SetLevel(l LogLevel) {
	level.SetLevel(toZap(l))
}

// CurrentLevel returns the active minimum level.
func CurrentLevel() LogLevel {
	switch level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

func toZap(l LogLevel) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// ContextLogger carries request-scoped fields such as the request ID.
type ContextLogger struct {
	fields []interface{}
}

// With creates a logger that attaches the given key/value pairs to every entry.
func With(keysAndValues ...interface{}) *ContextLogger {
	return &ContextLogger{fields: keysAndValues}
}

func (c *ContextLogger) sugar() *zap.SugaredLogger {
	if c == nil || len(c.fields) == 0 {
		return current()
	}
	return current().With(c.fields...)
}

// Debugf logs with context
func (c *ContextLogger) Debugf(format string, args ...interface{}) {
	c.sugar().Debugf(format, args...)
}

// Infof logs with context
func (c *ContextLogger) Infof(format string, args ...interface{}) {
	c.sugar().Infof(format, args...)
}

// Warnf logs with context
func (c *ContextLogger) Warnf(format string, args ...interface{}) {
	c.sugar().Warnf(format, args...)
}

// Errorf logs with context
func (c *ContextLogger) Errorf(format string, args ...interface{}) {
	c.sugar().Errorf(format, args...)
}
