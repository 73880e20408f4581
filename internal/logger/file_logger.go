package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// Logger writes one optimization session to a dated log file
type Logger struct {
	runID   string
	logFile io.WriteCloser
	logger  *log.Logger
	mu      sync.Mutex
	logPath string
	now     func() time.Time
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo       LogLevel = "INFO"
	LogLevelWarning    LogLevel = "WARN"
	LogLevelError      LogLevel = "ERROR"
	LogLevelGeneration LogLevel = "GEN"
	LogLevelStatus     LogLevel = "STATUS"
)

const timestampLayout = "2006-01-02 15:04:05"

// NewLogger creates a new file logger for the given run inside logDir
func NewLogger(logDir, runID string) (*Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("optimizer_%s_%s.log", time.Now().Format("2006-01-02"), shortID(runID))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := newLogger(file, runID, logPath, time.Now)
	l.writeSessionHeader()
	return l, nil
}

// NewWriterLogger logs to an arbitrary writer; used by tests and stdout sessions
func NewWriterLogger(w io.Writer, runID string) *Logger {
	l := newLogger(nopCloser{w}, runID, "", time.Now)
	l.writeSessionHeader()
	return l
}

func newLogger(w io.WriteCloser, runID, logPath string, now func() time.Time) *Logger {
	return &Logger{
		runID:   runID,
		logFile: w,
		logger:  log.New(w, "", 0),
		logPath: logPath,
		now:     now,
	}
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🌱 CROP ALLOCATION RUN STARTED
================================================================================
Run: %s
Started: %s
================================================================================
`, l.runID, l.now().Format(timestampLayout))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", l.now().Format(timestampLayout), level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogGeneration logs one generation's statistics
func (l *Logger) LogGeneration(stats types.GenerationStats) {
	l.Log(LogLevelGeneration, "generation=%d best=%.2f average=%.2f",
		stats.Generation, stats.BestFitness, stats.AverageFitness)
}

// Observer returns an observer that logs every generation. It never fails.
func (l *Logger) Observer() func(types.GenerationStats) error {
	return func(stats types.GenerationStats) error {
		l.LogGeneration(stats)
		return nil
	}
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🏁 CROP ALLOCATION RUN ENDED
================================================================================
Ended: %s
================================================================================
`, l.now().Format(timestampLayout))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the log file path, empty for writer-backed loggers
func (l *Logger) GetLogPath() string {
	return l.logPath
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	if runID == "" {
		return "run"
	}
	return runID
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
