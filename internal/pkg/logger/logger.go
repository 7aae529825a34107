package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/logutils"
)

// Levels understood by the level filter, lowest first.
var Levels = []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"}

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type simpleLogger struct {
	logger *log.Logger
}

var (
	loggerInstance *simpleLogger
	once           sync.Once
)

// New creates a new singleton instance of the simple logger writing to stdout.
// Lines below minLevel are dropped.
func New(minLevel string) Logger {
	once.Do(func() {
		loggerInstance = newSimpleLogger(os.Stdout, minLevel)
	})
	return loggerInstance
}

// NewWithWriter creates a standalone logger writing to w. Used by tests and tools
// that must not share the process-wide logger.
func NewWithWriter(w io.Writer, minLevel string) Logger {
	return newSimpleLogger(w, minLevel)
}

// ValidLevel reports whether level is one of Levels (case-insensitive).
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if string(l) == strings.ToUpper(level) {
			return true
		}
	}
	return false
}

func newSimpleLogger(w io.Writer, minLevel string) *simpleLogger {
	level := logutils.LogLevel(strings.ToUpper(minLevel))
	if !ValidLevel(string(level)) {
		level = "INFO"
	}
	filter := &logutils.LevelFilter{
		Levels:   Levels,
		MinLevel: level,
		Writer:   w,
	}
	return &simpleLogger{
		logger: log.New(filter, "", log.LstdFlags|log.Lshortfile),
	}
}

// Error logs an error message with the 🔴 emoji.
func (l *simpleLogger) Error(msg string, err error) {
	l.logger.Output(2, fmt.Sprintf("[ERROR] 🔴 %s - %v", msg, err))
}

// Warn logs a warning message with the ⚠️ emoji.
func (l *simpleLogger) Warn(msg string) {
	l.logger.Output(2, fmt.Sprintf("[WARN] ⚠️ %s", msg))
}

// Info logs an informational message.
func (l *simpleLogger) Info(msg string) {
	l.logger.Output(2, fmt.Sprintf("[INFO] %s", msg))
}

// Debug logs a debug message.
func (l *simpleLogger) Debug(msg string) {
	l.logger.Output(2, fmt.Sprintf("[DEBUG] %s", msg))
}
