// Package capture provides the two key-event sources: a focus-scoped
// backend fed by the presentation layer's event loop, and a global hook
// backed by a system-wide input listener.
package capture

import (
	"errors"

	"github.com/astny1/PRODIGY-CS-04/internal/key"
)

// ErrUnavailable indicates the OS integration a backend needs is missing
// (no readable input device, unsupported platform, denied permission).
// It is detected at Activate time so the focus-scoped backend stays usable
// without it.
var ErrUnavailable = errors.New("capture backend unavailable")

// Backend produces a live sequence of key-down events while active.
//
// Activate registers the event sink and begins delivery; it returns an
// error wrapping ErrUnavailable when the required OS integration cannot be
// installed. Deactivate unregisters the sink and guarantees that no sink
// invocation happens after it returns.
type Backend interface {
	Activate(sink func(key.Event)) error
	Deactivate() error
}
