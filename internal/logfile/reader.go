package logfile

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// SessionInfo summarizes one delimited session found in the log.
type SessionInfo struct {
	Mode      string
	StartedAt time.Time
	EndedAt   time.Time // zero when the session has no end marker yet
	Tokens    int
	Open      bool // true when the end marker is missing
}

// ReadLines returns the raw log lines. A missing file is not an error; it
// reads as an empty log.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// ReadSessions parses the log into per-session summaries. Lines outside any
// session (e.g. left over from a crashed writer) are ignored. A start marker
// without a matching end marker yields an Open session.
func ReadSessions(path string) ([]SessionInfo, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}

	var sessions []SessionInfo
	var cur *SessionInfo
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, startMarkerPrefix):
			if cur != nil {
				cur.Open = true
				sessions = append(sessions, *cur)
			}
			mode, at := parseStartMarker(line)
			cur = &SessionInfo{Mode: mode, StartedAt: at}
		case strings.HasPrefix(line, endMarkerPrefix):
			if cur == nil {
				continue
			}
			cur.EndedAt = parseEndMarker(line)
			sessions = append(sessions, *cur)
			cur = nil
		default:
			if cur != nil && line != "" {
				cur.Tokens++
			}
		}
	}
	if cur != nil {
		cur.Open = true
		sessions = append(sessions, *cur)
	}
	return sessions, nil
}

func parseStartMarker(line string) (mode string, at time.Time) {
	body := strings.TrimSuffix(strings.TrimPrefix(line, startMarkerPrefix), markerSuffix)
	mode, rest, ok := strings.Cut(body, " at=")
	if !ok {
		return body, time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, rest)
	if err != nil {
		return mode, time.Time{}
	}
	return mode, ts
}

func parseEndMarker(line string) time.Time {
	body := strings.TrimSuffix(strings.TrimPrefix(line, endMarkerPrefix), markerSuffix)
	ts, err := time.Parse(time.RFC3339, body)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// IsStartMarker reports whether a raw log line is a session-start delimiter.
func IsStartMarker(line string) bool { return strings.HasPrefix(line, startMarkerPrefix) }

// IsEndMarker reports whether a raw log line is a session-end delimiter.
func IsEndMarker(line string) bool { return strings.HasPrefix(line, endMarkerPrefix) }
