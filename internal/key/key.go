// Package key defines raw key events and their normalization into the
// tokens stored in the keystroke log.
package key

import "time"

// Source identifies which capture backend observed an event.
type Source int

const (
	// SourceFocusScoped events are delivered by the presentation layer's
	// own event loop, only while its window holds input focus.
	SourceFocusScoped Source = iota
	// SourceGlobal events come from the system-wide input listener.
	SourceGlobal
)

func (s Source) String() string {
	switch s {
	case SourceFocusScoped:
		return "focus-scoped"
	case SourceGlobal:
		return "global"
	}
	return "unknown"
}

// Event is one observed key-down.
//
// Identifier is backend-specific: either the literal printable character
// ("a", "A", "%") or a lower-case semantic key name ("backspace", "left",
// "f5"). Events are consumed once by the session controller; only their
// normalized projection is persisted.
type Event struct {
	Identifier string
	Source     Source
	Time       time.Time
}
