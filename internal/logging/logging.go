// Package logging provides the orrery's leveled logger and rate-limited
// diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Level represents log severity.
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

// ParseLevel parses a log level name. Unknown names fall back to info and
// report ok=false.
func ParseLevel(s string) (level Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Logger writes timestamped lines at or above its level. Loggers derived
// with With share the parent's output and level.
type Logger struct {
	core   *core
	prefix string
}

type core struct {
	mu     sync.Mutex
	level  Level
	output io.Writer
	now    func() time.Time
}

// New creates a logger writing to stderr.
func New(level Level) *Logger {
	return &Logger{core: &core{level: level, output: os.Stderr, now: time.Now}}
}

// With returns a logger that tags every line with component.
func (l *Logger) With(component string) *Logger {
	prefix := component
	if l.prefix != "" {
		prefix = l.prefix + "." + component
	}
	return &Logger{core: l.core, prefix: prefix}
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.output = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.level = level
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return level >= l.core.level
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()

	if level < c.level {
		return
	}

	var b strings.Builder
	b.WriteString(c.now().Format("15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if l.prefix != "" {
		b.WriteString(l.prefix)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')

	_, _ = io.WriteString(c.output, b.String())
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Every returns a Throttle that lets at most one message through per
// interval. The frame loop uses it for the FPS line.
func (l *Logger) Every(interval time.Duration) *Throttle {
	return &Throttle{log: l, s: rate.Sometimes{Interval: interval}}
}

// Throttle is a rate-limited view of a Logger.
type Throttle struct {
	log *Logger
	s   rate.Sometimes
}

// Debug logs a debug message if the interval has elapsed.
func (t *Throttle) Debug(format string, args ...interface{}) {
	if !t.log.Enabled(LevelDebug) {
		return
	}
	t.s.Do(func() { t.log.Debug(format, args...) })
}

// Info logs an info message if the interval has elapsed.
func (t *Throttle) Info(format string, args ...interface{}) {
	t.s.Do(func() { t.log.Info(format, args...) })
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return &Logger{core: &core{
		level:  LevelError + 1, // Higher than any level
		output: io.Discard,
		now:    time.Now,
	}}
}
