// Package logger provides leveled logging for ast-keyaudit.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Logger is the application logger interface.
// args are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (console, json).
	Format string
	// Output is the output writer (defaults to os.Stdout).
	Output io.Writer
	// NoColor disables ANSI colors in console output.
	NoColor bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stdout,
	}
}

type zerologLogger struct {
	zl zerolog.Logger
}

// New creates a new logger with the given configuration.
func New(cfg Config) Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    cfg.NoColor,
			TimeFormat: "15:04:05",
		}
	}

	zl := zerolog.New(output).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

func (l *zerologLogger) Debug(msg string, args ...any) {
	l.write(l.zl.Debug(), msg, args)
}

func (l *zerologLogger) Info(msg string, args ...any) {
	l.write(l.zl.Info(), msg, args)
}

func (l *zerologLogger) Warn(msg string, args ...any) {
	l.write(l.zl.Warn(), msg, args)
}

func (l *zerologLogger) Error(msg string, args ...any) {
	l.write(l.zl.Error(), msg, args)
}

func (l *zerologLogger) With(args ...any) Logger {
	return &zerologLogger{
		zl: l.zl.With().Fields(fields(args)).Logger(),
	}
}

func (l *zerologLogger) write(e *zerolog.Event, msg string, args []any) {
	// e is nil when the level is disabled.
	if e == nil {
		return
	}
	if len(args) > 0 {
		e = e.Fields(fields(args))
	}
	e.Msg(msg)
}

// fields turns key/value pairs into a redacted zerolog field map.
// A trailing key without value is logged under "!BADKEY", like log/slog does.
func fields(args []any) map[string]any {
	m := make(map[string]any, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			m["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		m[key] = redactValue(key, args[i+1])
	}
	return m
}

// parseLevel converts a string level to a zerolog level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	SetDefault(New(DefaultConfig()))
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(&l)
}

// Default returns the default global logger.
func Default() Logger {
	return *defaultLogger.Load()
}
