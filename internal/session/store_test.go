package session_test

import (
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/astny1/PRODIGY-CS-04/internal/session"
)

// generateTime produces an arbitrary time.Time value.
// We truncate to second precision to match JSON round-trip fidelity
// (time.Time marshals to RFC3339 which has second precision by default).
func generateTime(t *rapid.T) time.Time {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, "unix_sec")
	return time.Unix(sec, 0).UTC()
}

// generateSession produces an arbitrary Session value.
func generateSession(t *rapid.T) *session.Session {
	s := &session.Session{
		ID:        rapid.StringN(1, 36, -1).Draw(t, "id"),
		Mode:      session.Mode(rapid.IntRange(0, 1).Draw(t, "mode")),
		PID:       rapid.IntRange(0, 1<<22).Draw(t, "pid"),
		StartedAt: generateTime(t),
	}
	if rapid.Bool().Draw(t, "has_ended_at") {
		end := generateTime(t)
		s.EndedAt = &end
	}
	return s
}

// Property: session marker persistence round-trip.
func TestMarkerPersistenceRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	rapid.Check(t, func(rt *rapid.T) {
		want := generateSession(rt)
		if err := store.Save(want); err != nil {
			rt.Fatalf("Save: %v", err)
		}
		got, err := store.Load()
		if err != nil {
			rt.Fatalf("Load: %v", err)
		}
		if got.ID != want.ID || got.Mode != want.Mode || got.PID != want.PID || !got.StartedAt.Equal(want.StartedAt) {
			rt.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
		}
		switch {
		case (got.EndedAt == nil) != (want.EndedAt == nil):
			rt.Errorf("EndedAt presence mismatch: got %v, want %v", got.EndedAt, want.EndedAt)
		case got.EndedAt != nil && !got.EndedAt.Equal(*want.EndedAt):
			rt.Errorf("EndedAt mismatch: got %v, want %v", got.EndedAt, want.EndedAt)
		}
	})
}

func TestLoadWithoutMarker(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Load on empty store = %v, want ErrNoSession", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(&session.Session{ID: "x", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear should be a no-op, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Load after Clear = %v, want ErrNoSession", err)
	}
}

func TestSessionAlive(t *testing.T) {
	live := &session.Session{ID: "live", PID: os.Getpid(), StartedAt: time.Now()}
	if !live.Alive() {
		t.Error("a marker pointing at this process should be alive")
	}

	noPID := &session.Session{ID: "old", StartedAt: time.Now()}
	if noPID.Alive() {
		t.Error("a marker without a PID should be stale")
	}

	helper := exec.Command("true")
	if err := helper.Run(); err != nil {
		t.Skipf("cannot spawn helper process: %v", err)
	}
	dead := &session.Session{ID: "dead", PID: helper.Process.Pid, StartedAt: time.Now()}
	if dead.Alive() {
		t.Error("a marker pointing at a reaped process should be stale")
	}
}
