// Package logging provides the process-wide log sink for pilot
// components.
//
// stdout carries the protocol stream, so log lines always go to stderr;
// a file mirror can be enabled per logger for post-mortem inspection.
// Every line is tagged with a uuid-derived session ID shared by all
// components of one process.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	sessionID     string
	sessionIDOnce sync.Once
)

// SessionID returns the identifier shared by every logger in this
// process, created on first use.
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// Logger writes formatted lines for one component. All levels write
// unconditionally; there is no level filtering.
type Logger struct {
	component string

	mu        sync.Mutex
	out       io.Writer
	mirror    *os.File
	closeOnce sync.Once
}

// NewLogger creates a logger for a component, writing to stderr.
func NewLogger(component string) *Logger {
	return &Logger{
		component: component,
		out:       os.Stderr,
	}
}

// MirrorToFile additionally appends every line to the file at path,
// creating parent directories as needed.
func (l *Logger) MirrorToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	l.mu.Lock()
	if l.mirror != nil {
		_ = l.mirror.Close()
	}
	l.mirror = f
	l.mu.Unlock()
	return nil
}

func (l *Logger) logf(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] [%s] [%s] [%s] %s",
		time.Now().Format("2006-01-02 15:04:05.000"),
		SessionID()[:8],
		l.component,
		level,
		fmt.Sprintf(format, v...),
	)
	fmt.Fprintln(l.out, line)
	if l.mirror != nil {
		fmt.Fprintln(l.mirror, line)
	}
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.logf("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf("ERROR", format, v...) }

// Close closes the file mirror, if any. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.mirror != nil {
			err = l.mirror.Close()
			l.mirror = nil
		}
	})
	return err
}
