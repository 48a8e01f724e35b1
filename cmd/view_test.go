package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestViewPlain verifies --plain prints the raw log lines.
func TestViewPlain(t *testing.T) {
	isolate(t)
	logPath := filepath.Join(t.TempDir(), "keystrokes.txt")
	content := "=== SESSION START mode=IN_APP at=2024-05-01T09:00:00Z ===\n" +
		"A\n[BACKSPACE]\n[ENTER]\n" +
		"=== SESSION END at=2024-05-01T09:01:00Z ===\n"
	if err := os.WriteFile(logPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "view", "--plain", "--log", logPath)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	for _, want := range []string{"mode=IN_APP", "A", "[BACKSPACE]", "[ENTER]", "SESSION END"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %q", want, out)
		}
	}
}

// TestViewPlainEmptyLog verifies a missing log file reads as empty.
func TestViewPlainEmptyLog(t *testing.T) {
	isolate(t)
	logPath := filepath.Join(t.TempDir(), "keystrokes.txt")

	out, err := executeCommand(rootCmd, "view", "--plain", "--log", logPath)
	if err != nil {
		t.Fatalf("view on missing log: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected no output for a missing log, got: %q", out)
	}
}
