package logfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/astny1/PRODIGY-CS-04/internal/logfile"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keystrokes.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSessionsMissingFile(t *testing.T) {
	sessions, err := logfile.ReadSessions(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions, want 0", len(sessions))
	}
}

func TestReadSessionsMultiple(t *testing.T) {
	path := writeFixture(t,
		"=== SESSION START mode=IN_APP at=2024-05-01T09:00:00Z ===\n"+
			"h\ni\n"+
			"=== SESSION END at=2024-05-01T09:01:00Z ===\n"+
			"=== SESSION START mode=GLOBAL at=2024-05-01T10:00:00Z ===\n"+
			"[ENTER]\n"+
			"=== SESSION END at=2024-05-01T10:05:00Z ===\n")

	sessions, err := logfile.ReadSessions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	first := sessions[0]
	if first.Mode != "IN_APP" || first.Tokens != 2 || first.Open {
		t.Errorf("first session = %+v", first)
	}
	wantStart := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if !first.StartedAt.Equal(wantStart) {
		t.Errorf("first StartedAt = %v, want %v", first.StartedAt, wantStart)
	}
	if !first.StartedAt.Before(first.EndedAt) {
		t.Errorf("start %v not before end %v", first.StartedAt, first.EndedAt)
	}

	second := sessions[1]
	if second.Mode != "GLOBAL" || second.Tokens != 1 {
		t.Errorf("second session = %+v", second)
	}
}

func TestReadSessionsUnterminated(t *testing.T) {
	path := writeFixture(t,
		"=== SESSION START mode=IN_APP at=2024-05-01T09:00:00Z ===\n"+
			"a\nb\nc\n")

	sessions, err := logfile.ReadSessions(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if !sessions[0].Open {
		t.Error("session without end marker should be reported open")
	}
	if sessions[0].Tokens != 3 {
		t.Errorf("tokens = %d, want 3", sessions[0].Tokens)
	}
}

func TestMarkerPredicates(t *testing.T) {
	if !logfile.IsStartMarker("=== SESSION START mode=IN_APP at=2024-05-01T09:00:00Z ===") {
		t.Error("IsStartMarker should match a start line")
	}
	if !logfile.IsEndMarker("=== SESSION END at=2024-05-01T09:00:00Z ===") {
		t.Error("IsEndMarker should match an end line")
	}
	if logfile.IsStartMarker("a") || logfile.IsEndMarker("[ENTER]") {
		t.Error("token lines must not match the marker predicates")
	}
}
