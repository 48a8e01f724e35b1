// Package session holds the recording session state machine and the
// on-disk marker that lets other keylog processes see an active recorder.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// State is the lifecycle position of one session.
type State int

const (
	Idle State = iota
	Active
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Mode selects the capture backend. It is fixed when the session starts.
type Mode int

const (
	// ModeInApp records only keys pressed while the keylog window has focus.
	ModeInApp Mode = iota
	// ModeGlobal records keys regardless of which application has focus.
	ModeGlobal
)

// String returns the form used in log file markers.
func (m Mode) String() string {
	if m == ModeGlobal {
		return "GLOBAL"
	}
	return "IN_APP"
}

// ParseMode accepts the marker form and the friendlier CLI spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "-")) {
	case "in-app", "inapp", "":
		return ModeInApp, nil
	case "global":
		return ModeGlobal, nil
	}
	return ModeInApp, fmt.Errorf("unknown mode %q (expected in-app or global)", s)
}

// Session is one bounded start-to-stop recording run.
type Session struct {
	ID        string     `json:"id"`
	Mode      Mode       `json:"mode"`
	PID       int        `json:"pid"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Alive reports whether the recorder process that wrote this marker is
// still running. A marker whose process is gone is stale: the leftover of
// a recorder that crashed before it could clear it. Markers without a PID
// are treated as stale.
func (s *Session) Alive() bool {
	if s.PID <= 0 {
		return false
	}
	p, err := os.FindProcess(s.PID)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// ErrConsentRequired is returned when a start is attempted without the
// user's explicit consent flag. Capture never begins without it.
var ErrConsentRequired = errors.New("consent required before logging can start")

// ErrAlreadyActive is returned when a start is attempted while a session
// is already recording.
var ErrAlreadyActive = errors.New("session already in progress")

// IOError wraps a log file failure. A mid-session IOError force-stops the
// session; it is fatal to the session, not to the process.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return "keystroke log " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
