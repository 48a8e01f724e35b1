// Package logfile owns the append-only keystroke log: one token per line,
// bracketed by session start/end marker lines.
package logfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Marker line layout. Timestamps are RFC3339.
const (
	startMarkerPrefix = "=== SESSION START mode="
	endMarkerPrefix   = "=== SESSION END at="
	markerSuffix      = " ==="
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("keystroke log is closed")

// Writer appends to the keystroke log. The file handle is owned exclusively
// by the Writer and is only ever appended to, never truncated or rewritten.
// Every line is synced to disk before the write returns, so a crash loses
// at most the line being written.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// Open creates the log file (and its parent directory) if absent and opens
// it for appending.
func Open(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &Writer{f: f, path: path}, nil
}

// Path returns the log file path.
func (w *Writer) Path() string { return w.path }

// WriteSessionStart appends the session-start delimiter.
func (w *Writer) WriteSessionStart(mode string, at time.Time) error {
	return w.writeLine(startMarkerPrefix + mode + " at=" + at.Format(time.RFC3339) + markerSuffix)
}

// WriteToken appends one normalized token line.
func (w *Writer) WriteToken(token string) error {
	return w.writeLine(token)
}

// WriteSessionEnd appends the session-end delimiter.
func (w *Writer) WriteSessionEnd(at time.Time) error {
	return w.writeLine(endMarkerPrefix + at.Format(time.RFC3339) + markerSuffix)
}

func (w *Writer) writeLine(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return ErrClosed
	}
	if _, err := w.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("appending to log file: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("syncing log file: %w", err)
	}
	return nil
}

// Close releases the file handle. Safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}
