package todolist

import (
	"sync"
	"time"
)

// DefaultErrorTimeout is how long a notification stays up without interaction
const DefaultErrorTimeout = 3 * time.Second

// Timer is the part of *time.Timer the notifier needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc
type AfterFunc func(d time.Duration, f func()) Timer

func timeAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier holds at most one message and one live auto-hide timer
type Notifier struct {
	mu         sync.Mutex
	ttl        time.Duration
	afterFunc  AfterFunc
	message    string
	timer      Timer
	generation uint64
	onChange   func()
}

// NewNotifier creates a notifier whose messages expire after ttl
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultErrorTimeout
	}
	return &Notifier{
		ttl:       ttl,
		afterFunc: timeAfterFunc,
	}
}

// WithAfterFunc replaces the timer source, tests use it to fire expiries by hand
func (n *Notifier) WithAfterFunc(fn AfterFunc) *Notifier {
	n.mu.Lock()
	n.afterFunc = fn
	n.mu.Unlock()
	return n
}

func (n *Notifier) setOnChange(fn func()) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Show replaces the current message and restarts the auto-hide timer
func (n *Notifier) Show(message string) {
	n.mu.Lock()
	n.stopTimer()
	n.message = message
	n.generation++
	generation := n.generation
	n.timer = n.afterFunc(n.ttl, func() {
		n.expire(generation)
	})
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Hide clears the message and cancels the timer
func (n *Notifier) Hide() {
	n.mu.Lock()
	n.stopTimer()
	n.generation++
	changed := n.message != ""
	n.message = ""
	onChange := n.onChange
	n.mu.Unlock()

	if changed && onChange != nil {
		onChange()
	}
}

// Message returns the visible message, empty when hidden
func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// expire hides the message only if no Show or Hide happened since the timer started
func (n *Notifier) expire(generation uint64) {
	n.mu.Lock()
	if generation != n.generation {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.message = ""
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
