// Package logger provides leveled, printf-style logging backed by zap.
//
// Console output goes to stderr (or nowhere while the TUI owns the terminal).
// Once Init is called every message is also written, at debug level, as JSON
// lines to a per-session file under the log directory.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogDir is where session logs go, relative to the working directory
const DefaultLogDir = ".floatai/logs"

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
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

// Options configures the global logger
type Options struct {
	Dir     string    // Session log directory; empty disables the file
	Console io.Writer // Console destination; nil disables console output
	Level   Level     // Minimum console level
}

// Logger provides structured logging
type Logger struct {
	prefix string
	own    *zap.SugaredLogger // set for loggers built with New
}

var (
	mu       sync.RWMutex
	fileCore zapcore.Core
	logFile  *os.File
	logPath  string
)

var (
	consoleLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	consoleCore  = newConsoleCore(os.Stderr, consoleLevel)
	base         = zap.New(consoleCore)
	sessionID    = uuid.NewString()
)

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "prefix",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       func(name string, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString("[" + name + "]") },
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

func newConsoleCore(w io.Writer, level zapcore.LevelEnabler) zapcore.Core {
	if w == nil {
		return zapcore.NewNopCore()
	}
	return zapcore.NewCore(consoleEncoder(), zapcore.Lock(zapcore.AddSync(w)), level)
}

// rebuild must be called with mu held
func rebuild() {
	cores := []zapcore.Core{consoleCore}
	if fileCore != nil {
		cores = append(cores, fileCore)
	}
	base = zap.New(zapcore.NewTee(cores...))
}

// Init starts a new logging session. It opens session_<timestamp>.log in
// opts.Dir, points latest.log at it and replaces the console destination.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	consoleLevel.SetLevel(opts.Level.zapLevel())
	consoleCore = newConsoleCore(opts.Console, consoleLevel)
	sessionID = uuid.NewString()

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		path := filepath.Join(opts.Dir, fmt.Sprintf("session_%s.log", timestamp))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open session log: %w", err)
		}
		if logFile != nil {
			_ = logFile.Close()
		}
		logFile = f
		logPath = path

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.NameKey = "prefix"
		fileCore = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel).
			With([]zapcore.Field{zap.String("session", sessionID)})

		// Symlink is optional
		latestPath := filepath.Join(opts.Dir, "latest.log")
		_ = os.Remove(latestPath)
		_ = os.Symlink(filepath.Base(path), latestPath)
	}

	rebuild()
	return nil
}

// CloseLogFile flushes and closes the session log (call on shutdown)
func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()

	_ = base.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	fileCore = nil
	rebuild()
}

// SessionID returns the id attached to every file log line
func SessionID() string {
	mu.RLock()
	defer mu.RUnlock()
	return sessionID
}

// LogPath returns the current session log file, or "" if none is open
func LogPath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// New creates a standalone logger that writes only to w
func New(output io.Writer, minLevel Level, prefix string) *Logger {
	core := newConsoleCore(output, zap.NewAtomicLevelAt(minLevel.zapLevel()))
	l := zap.New(core)
	if prefix != "" {
		l = l.Named(prefix)
	}
	return &Logger{prefix: prefix, own: l.Sugar()}
}

// SetOutput sets the console destination; nil silences the console
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	consoleCore = newConsoleCore(w, consoleLevel)
	rebuild()
}

// SetLevel sets the minimum console level
func SetLevel(level Level) {
	consoleLevel.SetLevel(level.zapLevel())
}

// SetLevelFromString sets level from string (debug, info, warn, error)
func SetLevelFromString(level string) {
	switch level {
	case "debug":
		SetLevel(LevelDebug)
	case "info":
		SetLevel(LevelInfo)
	case "warn":
		SetLevel(LevelWarn)
	case "error":
		SetLevel(LevelError)
	}
}

// WithPrefix returns a logger bound to the global destinations with a prefix
func WithPrefix(prefix string) *Logger {
	return &Logger{prefix: prefix}
}

func (l *Logger) sugar() *zap.SugaredLogger {
	if l.own != nil {
		return l.own
	}
	mu.RLock()
	b := base
	mu.RUnlock()
	if l.prefix != "" {
		b = b.Named(l.prefix)
	}
	return b.Sugar()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.sugar().Debugf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.sugar().Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.sugar().Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.sugar().Errorf(format, args...)
}

// Package-level functions using the global logger

var defaultLogger = &Logger{}

// Debug logs a debug message
func Debug(format string, args ...any) {
	defaultLogger.Debug(format, args...)
}

// Info logs an info message
func Info(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Error logs an error message
func Error(format string, args ...any) {
	defaultLogger.Error(format, args...)
}

// Enabled returns true if the given level would reach the console
func Enabled(level Level) bool {
	return consoleLevel.Enabled(level.zapLevel())
}

// DebugEnabled returns true if debug logging is enabled on the console
func DebugEnabled() bool {
	return Enabled(LevelDebug)
}
