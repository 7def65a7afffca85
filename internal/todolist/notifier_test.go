package todolist

import (
	"sync/atomic"
	"testing"
	"time"
)

func newTestNotifier() (*Notifier, *fakeClock) {
	clock := &fakeClock{}
	return NewNotifier(3 * time.Second).WithAfterFunc(clock.AfterFunc), clock
}

func TestNotifierShowStartsTimer(t *testing.T) {
	n, clock := newTestNotifier()

	n.Show("first")
	if n.Message() != "first" {
		t.Fatalf("Message() = %q", n.Message())
	}
	if clock.count() != 1 || clock.timer(0).d != 3*time.Second {
		t.Fatalf("expected one 3s timer, got %d", clock.count())
	}

	clock.fire(0)
	if n.Message() != "" {
		t.Errorf("message survived expiry: %q", n.Message())
	}
}

func TestNotifierShowReplacesAndRestarts(t *testing.T) {
	n, clock := newTestNotifier()

	n.Show("first")
	n.Show("second")

	if n.Message() != "second" {
		t.Fatalf("Message() = %q", n.Message())
	}
	if !clock.timer(0).isStopped() {
		t.Error("previous timer still live")
	}
	if clock.live() != 1 {
		t.Errorf("live timers = %d, want 1", clock.live())
	}

	// A stale expiry racing the restart must not hide the new message.
	clock.fire(0)
	if n.Message() != "second" {
		t.Errorf("stale expiry hid the newer message")
	}

	clock.fire(1)
	if n.Message() != "" {
		t.Errorf("Message() = %q after expiry", n.Message())
	}
}

func TestNotifierHideCancelsTimer(t *testing.T) {
	n, clock := newTestNotifier()
	var changes atomic.Int32
	n.setOnChange(func() { changes.Add(1) })

	n.Show("oops")
	n.Hide()

	if n.Message() != "" {
		t.Errorf("Message() = %q after Hide", n.Message())
	}
	if clock.live() != 0 {
		t.Errorf("live timers = %d after Hide", clock.live())
	}

	n.Hide()
	if changes.Load() != 2 {
		t.Errorf("onChange called %d times, want 2 (show + first hide)", changes.Load())
	}

	clock.fire(0)
	if changes.Load() != 2 {
		t.Errorf("stale expiry after Hide triggered onChange")
	}
}

func TestNotifierRealTimer(t *testing.T) {
	n := NewNotifier(10 * time.Millisecond)
	n.Show("short lived")

	deadline := time.Now().Add(2 * time.Second)
	for n.Message() != "" {
		if time.Now().After(deadline) {
			t.Fatal("message never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
