// Package logger is the operator-facing console logger used by the CLI and
// the simulation runner.
package logger

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

var (
	timeColor   = color.New(color.FgHiBlack)
	prefixColor = color.New(color.FgCyan)
	fieldColor  = color.New(color.FgHiBlack)
	levelColors = map[Level]*color.Color{
		DebugLevel: color.New(color.FgHiBlack),
		InfoLevel:  color.New(color.FgGreen),
		WarnLevel:  color.New(color.FgYellow),
		ErrorLevel: color.New(color.FgRed),
		FatalLevel: color.New(color.FgRed, color.Bold),
	}
)

// Logger is the main logger interface
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithPrefix(prefix string) Logger
}

// sink is shared by a logger and every child derived from it, so SetLevel
// and SetNoColor reach loggers handed out earlier.
type sink struct {
	mu       sync.Mutex
	level    Level
	writer   io.Writer
	noColor  bool
	showTime bool
}

type logger struct {
	out    *sink
	fields map[string]interface{}
	prefix string
}

// exit is replaced in tests.
var exit = os.Exit

var defaultLogger = New()

// Config holds logger configuration
type Config struct {
	Level    Level
	Writer   io.Writer
	NoColor  bool
	ShowTime bool
}

// New creates a logger writing to stdout. Colors are off when stdout is not
// a terminal.
func New() Logger {
	return NewWithConfig(Config{
		Level:    InfoLevel,
		Writer:   os.Stdout,
		NoColor:  !IsTerminal(os.Stdout),
		ShowTime: true,
	})
}

// NewWithConfig creates a new logger with custom configuration
func NewWithConfig(cfg Config) Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	return &logger{
		out: &sink{
			level:    cfg.Level,
			writer:   cfg.Writer,
			noColor:  cfg.NoColor,
			showTime: cfg.ShowTime,
		},
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Default returns the package-level logger.
func Default() Logger { return defaultLogger }

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) { defaultLogger = l }

func defaultSink() *sink {
	if l, ok := defaultLogger.(*logger); ok {
		return l.out
	}
	return nil
}

// SetLevel sets the global log level
func SetLevel(level Level) {
	if s := defaultSink(); s != nil {
		s.mu.Lock()
		s.level = level
		s.mu.Unlock()
	}
}

// SetNoColor disables color output
func SetNoColor(noColor bool) {
	if s := defaultSink(); s != nil {
		s.mu.Lock()
		s.noColor = noColor
		s.mu.Unlock()
	}
}

// Writer returns the writer of the default logger.
func Writer() io.Writer {
	if s := defaultSink(); s != nil {
		return s.writer
	}
	return os.Stdout
}

// ColorsEnabled reports whether the default logger paints its output.
func ColorsEnabled() bool {
	s := defaultSink()
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.noColor
}

func Debug(args ...interface{})                       { defaultLogger.Debug(args...) }
func Debugf(format string, args ...interface{})       { defaultLogger.Debugf(format, args...) }
func Info(args ...interface{})                        { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})        { defaultLogger.Infof(format, args...) }
func Warn(args ...interface{})                        { defaultLogger.Warn(args...) }
func Warnf(format string, args ...interface{})        { defaultLogger.Warnf(format, args...) }
func Error(args ...interface{})                       { defaultLogger.Error(args...) }
func Errorf(format string, args ...interface{})       { defaultLogger.Errorf(format, args...) }
func Fatal(args ...interface{})                       { defaultLogger.Fatal(args...) }
func Fatalf(format string, args ...interface{})       { defaultLogger.Fatalf(format, args...) }
func WithField(key string, value interface{}) Logger  { return defaultLogger.WithField(key, value) }
func WithFields(fields map[string]interface{}) Logger { return defaultLogger.WithFields(fields) }
func WithPrefix(prefix string) Logger                 { return defaultLogger.WithPrefix(prefix) }

func paint(c *color.Color, noColor bool, s string) string {
	if noColor {
		return s
	}
	return c.Sprint(s)
}

func (l *logger) log(level Level, args ...interface{}) {
	s := l.out
	s.mu.Lock()
	if level < s.level {
		s.mu.Unlock()
		return
	}

	var parts []string
	if s.showTime {
		parts = append(parts, paint(timeColor, s.noColor, time.Now().Format("15:04:05")))
	}
	parts = append(parts, paint(levelColors[level], s.noColor, fmt.Sprintf("%-5s", level)))
	if l.prefix != "" {
		parts = append(parts, paint(prefixColor, s.noColor, "["+l.prefix+"]"))
	}
	if len(l.fields) > 0 {
		fieldParts := make([]string, 0, len(l.fields))
		for _, k := range slices.Sorted(maps.Keys(l.fields)) {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		parts = append(parts, paint(fieldColor, s.noColor, strings.Join(fieldParts, " ")))
	}
	parts = append(parts, fmt.Sprint(args...))

	_, _ = fmt.Fprintln(s.writer, strings.Join(parts, " "))
	s.mu.Unlock()

	if level == FatalLevel {
		exit(1)
	}
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	l.log(level, fmt.Sprintf(format, args...))
}

func (l *logger) Debug(args ...interface{})                 { l.log(DebugLevel, args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.logf(DebugLevel, format, args...) }
func (l *logger) Info(args ...interface{})                  { l.log(InfoLevel, args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.logf(InfoLevel, format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.log(WarnLevel, args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.logf(WarnLevel, format, args...) }
func (l *logger) Error(args ...interface{})                 { l.log(ErrorLevel, args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.logf(ErrorLevel, format, args...) }
func (l *logger) Fatal(args ...interface{})                 { l.log(FatalLevel, args...) }
func (l *logger) Fatalf(format string, args ...interface{}) { l.logf(FatalLevel, format, args...) }

func (l *logger) child() *logger {
	return &logger{out: l.out, fields: maps.Clone(l.fields), prefix: l.prefix}
}

func (l *logger) WithField(key string, value interface{}) Logger {
	c := l.child()
	if c.fields == nil {
		c.fields = make(map[string]interface{})
	}
	c.fields[key] = value
	return c
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	c := l.child()
	if c.fields == nil {
		c.fields = make(map[string]interface{}, len(fields))
	}
	maps.Copy(c.fields, fields)
	return c
}

func (l *logger) WithPrefix(prefix string) Logger {
	c := l.child()
	c.prefix = prefix
	return c
}

// ParseLevel parses a string log level. Unknown names map to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
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
