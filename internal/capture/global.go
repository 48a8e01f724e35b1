package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/astny1/PRODIGY-CS-04/internal/key"
)

// deactivateTimeout bounds how long Deactivate waits for the listener and
// pump goroutines to acknowledge shutdown.
const deactivateTimeout = 5 * time.Second

// Listener is the OS-facing half of the global hook. Listen blocks its
// calling goroutine, emitting key-down events until stop is closed; Close
// releases the underlying device and unblocks a pending read.
type Listener interface {
	Listen(stop <-chan struct{}, emit func(key.Event)) error
	Close() error
}

// GlobalOptions configures a GlobalHook.
type GlobalOptions struct {
	// Listener overrides the platform listener. Used by tests to inject
	// synthetic event streams.
	Listener Listener
	// Device overrides keyboard device discovery on platforms that scan
	// for one (the evdev path on Linux).
	Device string
}

// GlobalHook observes key-down events regardless of which application has
// focus, for as long as the process runs. The OS listener blocks on its own
// goroutine and hands events through an ordered buffered channel to a pump
// goroutine that invokes the sink, so event order is preserved and the
// control side is never blocked by the OS wait.
type GlobalHook struct {
	opts GlobalOptions

	mu       sync.Mutex
	listener Listener
	stop     chan struct{}
	done     chan struct{}

	// errMu is separate from mu: the listener goroutine records a failure
	// while Deactivate may hold mu waiting for the pump to drain.
	errMu   sync.Mutex
	lastErr error
}

// NewGlobalHook returns an inactive global hook.
func NewGlobalHook(opts GlobalOptions) *GlobalHook {
	return &GlobalHook{opts: opts}
}

// Activate installs the system-wide listener and begins delivery. The
// returned error wraps ErrUnavailable when the listener cannot be installed;
// in that case the hook stays inactive and the process is unaffected.
func (g *GlobalHook) Activate(sink func(key.Event)) error {
	if sink == nil {
		return errors.New("global hook needs a non-nil sink")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listener != nil {
		return errors.New("global hook already active")
	}

	l := g.opts.Listener
	if l == nil {
		var err error
		l, err = newPlatformListener(g.opts.Device)
		if err != nil {
			return err
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	queue := make(chan key.Event, 128)

	// Listener goroutine: owns the blocking OS wait. Events go through the
	// ordered queue, never directly to the sink. A listener failure outside
	// shutdown (device unplugged, permission revoked) is kept for Err.
	go func() {
		defer close(queue)
		err := l.Listen(stop, func(ev key.Event) {
			ev.Source = key.SourceGlobal
			select {
			case queue <- ev:
			case <-stop:
			}
		})
		if err != nil {
			select {
			case <-stop:
				// Read errors caused by Deactivate closing the device.
			default:
				g.errMu.Lock()
				g.lastErr = err
				g.errMu.Unlock()
			}
		}
	}()

	// Pump goroutine: the consumer side of the hand-off. Checks stop before
	// every delivery so queued events are dropped once Deactivate begins.
	go func() {
		defer close(done)
		for ev := range queue {
			select {
			case <-stop:
				return
			default:
			}
			sink(ev)
		}
	}()

	g.listener = l
	g.stop = stop
	g.done = done
	g.errMu.Lock()
	g.lastErr = nil
	g.errMu.Unlock()
	return nil
}

// Err reports a listener failure observed while the hook was active, such
// as the input device disappearing. The hook does not stop itself; callers
// surface the error and decide whether to end the session.
func (g *GlobalHook) Err() error {
	g.errMu.Lock()
	defer g.errMu.Unlock()
	return g.lastErr
}

// Deactivate stops delivery and waits, with a bounded timeout, until the
// pump goroutine has acknowledged shutdown. After it returns no further
// sink invocation occurs.
func (g *GlobalHook) Deactivate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listener == nil {
		return nil
	}

	close(g.stop)
	cerr := g.listener.Close()

	select {
	case <-g.done:
	case <-time.After(deactivateTimeout):
		g.listener, g.stop, g.done = nil, nil, nil
		return errors.New("global listener did not acknowledge shutdown in time")
	}

	g.listener, g.stop, g.done = nil, nil, nil
	if cerr != nil {
		return fmt.Errorf("closing global listener: %w", cerr)
	}
	return nil
}

// Probe reports whether the platform's global-input capability is usable
// right now, without capturing anything.
func Probe() error {
	l, err := newPlatformListener("")
	if err != nil {
		return err
	}
	return l.Close()
}
