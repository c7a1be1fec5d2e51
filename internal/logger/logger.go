package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the logging interface used throughout the application
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level zerolog.Level)
	GetLevel() zerolog.Level
	EnableHTTPLogging()
	DisableHTTPLogging()
	IsHTTPLoggingEnabled() bool
}

// ZeroLogger wraps zerolog.Logger to implement our Logger interface
type ZeroLogger struct {
	logger      zerolog.Logger
	level       atomic.Int32
	httpLogging atomic.Bool
}

// New creates a new ZeroLogger writing to stdout at info level
func New() *ZeroLogger {
	return NewWithLevel(zerolog.InfoLevel)
}

// NewWithLevel creates a console logger on stdout with a specific level
func NewWithLevel(level zerolog.Level) *ZeroLogger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("| %-6s|", i)
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("| %s", i)
		},
	}
	return NewWithWriter(output, level)
}

// NewWithWriter creates a logger that writes JSON lines to w
func NewWithWriter(w io.Writer, level zerolog.Level) *ZeroLogger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zl := &ZeroLogger{
		logger: zerolog.New(w).With().Timestamp().Str("service", "awards").Logger(),
	}
	zl.level.Store(int32(level))
	return zl
}

// ParseLevel converts a string log level to zerolog.Level.
// Accepts: debug, info, warn, error (case-insensitive).
// Returns zerolog.InfoLevel if the level is not recognized.
func ParseLevel(level string) zerolog.Level {
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

// event returns nil when the level is filtered; zerolog treats a nil event as a no-op.
func (l *ZeroLogger) event(level zerolog.Level) *zerolog.Event {
	if level < l.GetLevel() {
		return nil
	}
	return l.logger.WithLevel(level)
}

func (l *ZeroLogger) log(level zerolog.Level, msg string, args []any) {
	e := l.event(level)
	if e == nil {
		return
	}
	if len(args) > 0 {
		e = e.Fields(normalize(args))
	}
	e.Msg(msg)
}

// normalize turns error values into strings so they render in both writers,
// and pads a dangling key so zerolog does not drop it.
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+1)
	for i, a := range args {
		if err, ok := a.(error); ok && i%2 == 1 {
			out = append(out, err.Error())
			continue
		}
		out = append(out, a)
	}
	if len(out)%2 == 1 {
		out = append(out, "")
	}
	return out
}

func (l *ZeroLogger) Debug(msg string, args ...any) {
	l.log(zerolog.DebugLevel, msg, args)
}

func (l *ZeroLogger) Info(msg string, args ...any) {
	l.log(zerolog.InfoLevel, msg, args)
}

func (l *ZeroLogger) Warn(msg string, args ...any) {
	l.log(zerolog.WarnLevel, msg, args)
}

func (l *ZeroLogger) Error(msg string, args ...any) {
	l.log(zerolog.ErrorLevel, msg, args)
}

// SetLevel changes the logging level dynamically
func (l *ZeroLogger) SetLevel(level zerolog.Level) {
	l.level.Store(int32(level))
}

// GetLevel returns the current logging level
func (l *ZeroLogger) GetLevel() zerolog.Level {
	return zerolog.Level(l.level.Load())
}

// EnableHTTPLogging enables HTTP request logging
func (l *ZeroLogger) EnableHTTPLogging() {
	l.httpLogging.Store(true)
}

// DisableHTTPLogging disables HTTP request logging
func (l *ZeroLogger) DisableHTTPLogging() {
	l.httpLogging.Store(false)
}

// IsHTTPLoggingEnabled returns whether HTTP logging is enabled
func (l *ZeroLogger) IsHTTPLoggingEnabled() bool {
	return l.httpLogging.Load()
}

// Nop returns a logger that discards everything
func Nop() *ZeroLogger {
	return NewWithWriter(io.Discard, zerolog.Disabled)
}
