package mock

import (
	"fmt"
	"sync"
)

// RecordingLogger keeps every formatted line. Debugf lines are prefixed with
// "DEBUG ".
type RecordingLogger struct {
	mu    sync.Mutex
	lines []string
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// Printf implements Logger.
func (l *RecordingLogger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
	l.mu.Unlock()
}

// Debugf implements Logger.
func (l *RecordingLogger) Debugf(format string, v ...interface{}) {
	l.mu.Lock()
	l.lines = append(l.lines, "DEBUG "+fmt.Sprintf(format, v...))
	l.mu.Unlock()
}

// Lines returns a copy of what has been logged so far.
func (l *RecordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}
