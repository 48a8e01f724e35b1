package capture_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/astny1/PRODIGY-CS-04/internal/capture"
	"github.com/astny1/PRODIGY-CS-04/internal/key"
)

func TestFocusScopedDropsWhenInactive(t *testing.T) {
	b := capture.NewFocusScoped()

	var got []key.Event
	sink := func(ev key.Event) { got = append(got, ev) }

	// Fed before activation: dropped.
	b.Feed(key.Event{Identifier: "x"})

	if err := b.Activate(sink); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	b.Feed(key.Event{Identifier: "a"})
	b.Feed(key.Event{Identifier: "b"})

	if err := b.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	// Fed after deactivation: dropped.
	b.Feed(key.Event{Identifier: "y"})

	if len(got) != 2 || got[0].Identifier != "a" || got[1].Identifier != "b" {
		t.Errorf("delivered events = %v, want a then b", got)
	}
	for _, ev := range got {
		if ev.Source != key.SourceFocusScoped {
			t.Errorf("event source = %v, want focus-scoped", ev.Source)
		}
	}
}

func TestFocusScopedNilSink(t *testing.T) {
	b := capture.NewFocusScoped()
	if err := b.Activate(nil); err == nil {
		t.Error("expected an error activating with a nil sink")
	}
}

// fakeListener emits a scripted event sequence, then blocks until stopped.
type fakeListener struct {
	events  []key.Event
	started chan struct{}
	emitted chan struct{}
	closed  chan struct{}
}

func newFakeListener(events []key.Event) *fakeListener {
	return &fakeListener{
		events:  events,
		started: make(chan struct{}),
		emitted: make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

func (l *fakeListener) Listen(stop <-chan struct{}, emit func(key.Event)) error {
	close(l.started)
	for _, ev := range l.events {
		emit(ev)
	}
	close(l.emitted)
	<-stop
	return nil
}

func (l *fakeListener) Close() error {
	select {
	case <-l.closed:
	default:
		close(l.closed)
	}
	return nil
}

func TestGlobalHookDeliversInOrder(t *testing.T) {
	events := make([]key.Event, 20)
	for i := range events {
		events[i] = key.Event{Identifier: fmt.Sprintf("k%d", i), Time: time.Now()}
	}
	l := newFakeListener(events)
	hook := capture.NewGlobalHook(capture.GlobalOptions{Listener: l})

	received := make(chan key.Event, len(events))
	if err := hook.Activate(func(ev key.Event) { received <- ev }); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	for i := range events {
		select {
		case ev := <-received:
			if ev.Identifier != events[i].Identifier {
				t.Fatalf("event %d = %q, want %q (order not preserved)", i, ev.Identifier, events[i].Identifier)
			}
			if ev.Source != key.SourceGlobal {
				t.Fatalf("event source = %v, want global", ev.Source)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}

	if err := hook.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	select {
	case <-l.closed:
	default:
		t.Error("Deactivate should close the listener")
	}
	if err := hook.Err(); err != nil {
		t.Errorf("clean shutdown should not record a listener error, got %v", err)
	}
}

// dyingListener emits one event and then fails, like an unplugged device.
type dyingListener struct {
	failure error
}

func (l *dyingListener) Listen(stop <-chan struct{}, emit func(key.Event)) error {
	emit(key.Event{Identifier: "a"})
	return l.failure
}

func (l *dyingListener) Close() error { return nil }

func TestGlobalHookSurfacesListenerFailure(t *testing.T) {
	failure := errors.New("input device vanished")
	hook := capture.NewGlobalHook(capture.GlobalOptions{Listener: &dyingListener{failure: failure}})

	if err := hook.Activate(func(key.Event) {}); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hook.Err() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := hook.Err(); !errors.Is(err, failure) {
		t.Fatalf("Err() = %v, want the listener failure", err)
	}

	if err := hook.Deactivate(); err != nil {
		t.Fatalf("Deactivate after listener death: %v", err)
	}
}

func TestGlobalHookNoDeliveryAfterDeactivate(t *testing.T) {
	l := newFakeListener([]key.Event{{Identifier: "a"}})
	hook := capture.NewGlobalHook(capture.GlobalOptions{Listener: l})

	received := make(chan key.Event, 8)
	if err := hook.Activate(func(ev key.Event) { received <- ev }); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	// Wait for the scripted event to flow through.
	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first event")
	}
	<-l.emitted

	if err := hook.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	select {
	case ev := <-received:
		t.Errorf("received %q after Deactivate returned", ev.Identifier)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestGlobalHookDoubleActivate(t *testing.T) {
	l := newFakeListener(nil)
	hook := capture.NewGlobalHook(capture.GlobalOptions{Listener: l})

	if err := hook.Activate(func(key.Event) {}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := hook.Activate(func(key.Event) {}); err == nil {
		t.Error("expected an error on second Activate")
	}
	if err := hook.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	// Idempotent.
	if err := hook.Deactivate(); err != nil {
		t.Errorf("second Deactivate should be a no-op, got %v", err)
	}
}
