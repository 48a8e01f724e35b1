package capture

import (
	"errors"
	"sync"

	"github.com/astny1/PRODIGY-CS-04/internal/key"
)

// FocusScoped delivers only the key events the presentation layer observes
// while its window holds input focus. It has no thread of its own: the
// owning event loop calls Feed and each event is handed to the sink
// synchronously, so the loop is never blocked longer than one log write.
type FocusScoped struct {
	mu   sync.Mutex
	sink func(key.Event)
}

// NewFocusScoped returns an inactive focus-scoped backend.
func NewFocusScoped() *FocusScoped {
	return &FocusScoped{}
}

// Activate registers the sink. It cannot fail: the presentation layer's
// event loop is always available to the process.
func (b *FocusScoped) Activate(sink func(key.Event)) error {
	if sink == nil {
		return errors.New("focus-scoped backend needs a non-nil sink")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
	return nil
}

// Deactivate unregisters the sink. The delivery lock is held across each
// Feed, so once Deactivate returns no further sink invocation can happen.
func (b *FocusScoped) Deactivate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = nil
	return nil
}

// Feed hands one observed key-down to the active sink. Events fed while
// inactive are dropped.
func (b *FocusScoped) Feed(ev key.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sink == nil {
		return
	}
	ev.Source = key.SourceFocusScoped
	b.sink(ev)
}
