package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is the minimum severity a message needs to be written.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel maps names such as "debug" or "warning" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

const (
	timeFormat = "2006-01-02 15:04:05,000"
	loggerName = "fire_api"
)

var (
	mu       sync.Mutex
	logLevel = INFO
	out      = log.New(os.Stdout, "", 0)
	errOut   = log.New(os.Stderr, "", 0)
)

// SetLevel sets the minimum level that is written.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	logLevel = level
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return logLevel
}

// SetOutput sends every level to w. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", 0)
	errOut = out
}

// Writer returns the writer used for INFO lines, for libraries that want an io.Writer.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out.Writer()
}

func logMessage(level Level, format string, args ...any) {
	mu.Lock()
	if level < logLevel {
		mu.Unlock()
		return
	}
	target := out
	if level >= ERROR {
		target = errOut
	}
	mu.Unlock()

	source := ""
	if _, file, line, ok := runtime.Caller(2); ok {
		source = fmt.Sprintf(" [%s:%d]", filepath.Base(file), line)
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	target.Printf("%s - %s - %s%s - %s", time.Now().Format(timeFormat), loggerName, level, source, msg)

	if level == FATAL {
		os.Exit(1)
	}
}

func Debugf(format string, args ...any) { logMessage(DEBUG, format, args...) }

func Infof(format string, args ...any) { logMessage(INFO, format, args...) }

func Warnf(format string, args ...any) { logMessage(WARN, format, args...) }

func Errorf(format string, args ...any) { logMessage(ERROR, format, args...) }

// Fatalf logs at FATAL and exits the process.
func Fatalf(format string, args ...any) { logMessage(FATAL, format, args...) }

// Warn logs msg unformatted.
func Warn(msg string) { logMessage(WARN, "%s", msg) }

// Error logs msg with an optional error suffix.
func Error(msg string, err error) {
	if err != nil {
		logMessage(ERROR, "%s: %v", msg, err)
		return
	}
	logMessage(ERROR, "%s", msg)
}
