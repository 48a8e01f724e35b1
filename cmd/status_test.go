package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/astny1/PRODIGY-CS-04/internal/session"
)

// TestStatusNoSession verifies status output when nothing is recording and
// the log is empty.
func TestStatusNoSession(t *testing.T) {
	isolate(t)
	logPath := filepath.Join(t.TempDir(), "keystrokes.txt")

	out, err := executeCommand(rootCmd, "status", "--log", logPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "no active session") {
		t.Errorf("expected %q in output, got: %q", "no active session", out)
	}
	if !strings.Contains(out, "empty") {
		t.Errorf("expected empty-log note in output, got: %q", out)
	}
}

// TestStatusActiveSession verifies status reflects a saved session marker.
func TestStatusActiveSession(t *testing.T) {
	isolate(t)
	logPath := filepath.Join(t.TempDir(), "keystrokes.txt")

	store, err := session.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	started := time.Now().Add(-time.Minute)
	if err := store.Save(&session.Session{
		ID:        "abc-123",
		Mode:      session.ModeGlobal,
		PID:       os.Getpid(),
		StartedAt: started,
	}); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "status", "--log", logPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Active session: abc-123") {
		t.Errorf("expected session ID in output, got: %q", out)
	}
	if !strings.Contains(out, "GLOBAL") {
		t.Errorf("expected mode in output, got: %q", out)
	}
}

// TestStatusStaleMarker verifies a marker whose recorder is gone is
// reported as stale rather than active.
func TestStatusStaleMarker(t *testing.T) {
	isolate(t)
	logPath := filepath.Join(t.TempDir(), "keystrokes.txt")

	store, err := session.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(&session.Session{
		ID:        "ghost-1",
		PID:       deadPID(t),
		StartedAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "status", "--log", logPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Stale session marker: ghost-1") {
		t.Errorf("expected stale-marker line, got: %q", out)
	}
}

// TestStatusLogSummary verifies per-session aggregation from the log file.
func TestStatusLogSummary(t *testing.T) {
	isolate(t)
	logPath := filepath.Join(t.TempDir(), "logs", "keystrokes.txt")

	// Record one real headless session so the log has a closed session.
	if _, err := executeCommand(rootCmd,
		"record", "--headless", "--consent", "--for", "30ms", "--log", logPath); err != nil {
		t.Fatalf("record: %v", err)
	}

	out, err := executeCommand(rootCmd, "status", "--log", logPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "1 sessions") {
		t.Errorf("expected session count in output, got: %q", out)
	}
	if !strings.Contains(out, "Last session: IN_APP") {
		t.Errorf("expected last session line, got: %q", out)
	}
}
