package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/astny1/PRODIGY-CS-04/internal/capture"
	"github.com/astny1/PRODIGY-CS-04/internal/key"
	"github.com/astny1/PRODIGY-CS-04/internal/logfile"
)

// LogWriter is the sink a session writes through. *logfile.Writer is the
// production implementation.
type LogWriter interface {
	WriteSessionStart(mode string, at time.Time) error
	WriteToken(token string) error
	WriteSessionEnd(at time.Time) error
	Close() error
}

// Options configures a Controller.
type Options struct {
	// LogPath is where tokens are appended.
	LogPath string
	// Backends maps each mode to its capture backend.
	Backends map[Mode]capture.Backend
	// Store, when non-nil, receives a best-effort marker of the active
	// session so other processes can see it. The log file stays the source
	// of truth.
	Store Store
	// Clock overrides time.Now in tests.
	Clock func() time.Time
	// OpenLog overrides logfile.Open in tests.
	OpenLog func(path string) (LogWriter, error)
}

// Controller gates consent, selects the capture backend, and routes
// normalized events into the log. All state mutation and log writes happen
// under one mutex, so events arriving from the global hook's pump goroutine
// never interleave with control operations.
type Controller struct {
	logPath  string
	backends map[Mode]capture.Backend
	store    Store
	clock    func() time.Time
	openLog  func(path string) (LogWriter, error)

	// opMu serializes start/stop so a new session cannot open the log
	// while a previous stop is still writing its end delimiter.
	opMu sync.Mutex

	// deactivating tracks a backend release started by a force-stop, so
	// the next start cannot race its sink teardown.
	deactivating sync.WaitGroup

	mu      sync.Mutex
	state   State
	sess    *Session
	backend capture.Backend
	logw    LogWriter
	tokens  int
	lastErr error
}

// NewController returns a controller in the Idle state.
func NewController(opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	openLog := opts.OpenLog
	if openLog == nil {
		openLog = func(path string) (LogWriter, error) {
			return logfile.Open(path)
		}
	}
	return &Controller{
		logPath:  opts.LogPath,
		backends: opts.Backends,
		store:    opts.Store,
		clock:    clock,
		openLog:  openLog,
	}
}

// RequestStart begins a session: consent gate, backend activation, log open,
// start delimiter, Idle→Active. The backend is activated before the log is
// touched, so a failed global activation creates no file and leaves the
// controller Idle — it never silently falls back to in-app mode.
func (c *Controller) RequestStart(consent bool, mode Mode) error {
	if !consent {
		return ErrConsentRequired
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	// A force-stop may still be releasing its backend in the background.
	c.deactivating.Wait()

	if c.State() == Active {
		return ErrAlreadyActive
	}

	backend, ok := c.backends[mode]
	if !ok {
		return fmt.Errorf("%w: no backend configured for mode %s", capture.ErrUnavailable, mode)
	}

	// The state mutex is not held here: an eagerly-delivering backend may
	// already be calling handleEvent, which drops events until the session
	// is committed below.
	if err := backend.Activate(c.handleEvent); err != nil {
		return err
	}

	w, err := c.openLog(c.logPath)
	if err != nil {
		backend.Deactivate()
		return &IOError{Op: "open", Err: err}
	}

	now := c.clock()
	if err := w.WriteSessionStart(mode.String(), now); err != nil {
		backend.Deactivate()
		w.Close()
		return &IOError{Op: "start delimiter", Err: err}
	}

	c.mu.Lock()
	c.sess = &Session{ID: uuid.New().String(), Mode: mode, PID: os.Getpid(), StartedAt: now}
	c.backend = backend
	c.logw = w
	c.tokens = 0
	c.lastErr = nil
	c.state = Active
	c.mu.Unlock()

	if c.store != nil {
		// Marker only; a failed save must not abort a session that is
		// already recording correctly.
		_ = c.store.Save(c.sess)
	}
	return nil
}

// RequestStop ends the session: backend deactivation, end delimiter, log
// close, Active→Stopped. Stopping a non-active controller is a no-op so
// duplicate shutdown signals are tolerated.
func (c *Controller) RequestStop() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.deactivating.Wait()

	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		return nil
	}
	c.state = Stopped
	backend := c.backend
	w := c.logw
	sess := c.sess
	c.backend = nil
	c.logw = nil
	c.mu.Unlock()

	// Outside the lock: Deactivate waits for any in-flight event delivery,
	// and that delivery needs the lock.
	firstErr := backend.Deactivate()

	now := c.clock()
	if err := w.WriteSessionEnd(now); err != nil && firstErr == nil {
		firstErr = &IOError{Op: "end delimiter", Err: err}
	}
	if err := w.Close(); err != nil && firstErr == nil {
		firstErr = &IOError{Op: "close", Err: err}
	}

	c.mu.Lock()
	sess.EndedAt = &now
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Clear()
	}
	return firstErr
}

// handleEvent is the sink registered with the active backend. It runs on
// the delivering goroutine (the presentation loop for in-app, the pump for
// global); the mutex confines all log writes to one writer at a time.
func (c *Controller) handleEvent(ev key.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Active {
		return
	}
	token := key.Normalize(ev)
	if err := c.logw.WriteToken(token); err != nil {
		c.failLocked(&IOError{Op: "write", Err: err})
		return
	}
	c.tokens++
}

// failLocked force-stops the session after a write failure: best-effort end
// delimiter and close, backend deactivated asynchronously (Deactivate must
// not be awaited from inside an event delivery), error kept for the caller.
func (c *Controller) failLocked(ioErr *IOError) {
	c.state = Stopped
	c.lastErr = ioErr
	backend := c.backend
	w := c.logw
	c.backend = nil
	c.logw = nil

	now := c.clock()
	_ = w.WriteSessionEnd(now)
	_ = w.Close()
	if c.sess != nil {
		c.sess.EndedAt = &now
	}

	if c.store != nil {
		_ = c.store.Clear()
	}
	c.deactivating.Add(1)
	go func() {
		defer c.deactivating.Done()
		_ = backend.Deactivate()
	}()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TokenCount returns how many tokens the current or last session logged.
func (c *Controller) TokenCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// Current returns a copy of the current or last session, or nil before the
// first start.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil
	}
	s := *c.sess
	return &s
}

// Err reports the failure that force-stopped the session, if any. The
// presentation layer polls it to surface mid-session write failures.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
