package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

//nolint:gochecknoglobals // Static level name table
var levelNames = map[LogLevel]string{
	LogLevelOff:   "off",
	LogLevelError: "error",
	LogLevelInfo:  "info",
	LogLevelDebug: "debug",
}

// ParseLogLevel parses a log level string. Unknown names mean error.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return LogLevelOff
	}
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return LogLevelError
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return levelNames[LogLevelError]
}

// sink is the file and threshold shared by a logger and its named children.
type sink struct {
	mu    sync.Mutex
	level LogLevel
	file  *os.File
	path  string
}

// Logger writes leveled, timestamped lines to a file. Named children tag
// their lines with a component so one negotiation can be followed across
// the provider, wallet and ui layers.
type Logger struct {
	sink      *sink
	component string
}

// NewLogger opens filePath for appending. With level off or no path the
// logger discards everything.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	s := &sink{level: level, path: filePath}
	if level == LogLevelOff || filePath == "" {
		return &Logger{sink: s}, nil
	}

	if rest, ok := strings.CutPrefix(filePath, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		filePath = filepath.Join(home, rest)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	s.file = f
	s.path = filePath
	return &Logger{sink: s}, nil
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{sink: &sink{level: LogLevelOff}}
}

// Named returns a child logger that tags its lines with component. It
// shares the parent's file and level.
func (l *Logger) Named(component string) *Logger {
	if l == nil {
		return NullLogger()
	}
	if l.component != "" {
		component = l.component + "." + component
	}
	return &Logger{sink: l.sink, component: component}
}

// Close closes the log file. Children share it, so close the root only.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}

// SetLevel changes the threshold for the logger and all its children.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the current threshold.
func (l *Logger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file == nil || level > l.sink.level {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(strings.ToUpper(level.String()))
	sb.WriteString("] ")
	if l.component != "" {
		sb.WriteString(l.component)
		sb.WriteString(": ")
	}
	sb.WriteString(fmt.Sprintf(format, args...))
	sb.WriteByte('\n')

	_, _ = l.sink.file.WriteString(sb.String())
}
