package todolist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kelsos/todos/internal/models"
)

var errRemote = errors.New("remote failure")

// fakeStore is an in-memory Store with error injection and per-id gates
type fakeStore struct {
	mu     sync.Mutex
	todos  []models.Todo
	nextID int

	ListErr    error
	CreateErr  error
	// CreateNoID makes Create answer with a record whose id is 0
	CreateNoID bool
	UpdateErrs map[int]error
	DeleteErrs map[int]error
	PanicOn    map[int]bool

	// UpdateTitle, when set, is what the server writes into the title of every updated record
	UpdateTitle string

	gates   map[int]chan struct{}
	started map[int]chan struct{}

	listCalls   int
	createCalls int
	updateCalls []int
	deleteCalls []int
}

func newFakeStore(todos ...models.Todo) *fakeStore {
	next := 1
	for _, t := range todos {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return &fakeStore{
		todos:      append([]models.Todo(nil), todos...),
		nextID:     next,
		UpdateErrs: map[int]error{},
		DeleteErrs: map[int]error{},
		PanicOn:    map[int]bool{},
		gates:      map[int]chan struct{}{},
		started:    map[int]chan struct{}{},
	}
}

// block makes the next call touching id wait until release is called.
// id 0 gates Create. The returned channel closes once the call has started.
func (f *fakeStore) block(id int) (started <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	s := make(chan struct{})
	f.gates[id] = gate
	f.started[id] = s
	var once sync.Once
	return s, func() { once.Do(func() { close(gate) }) }
}

func (f *fakeStore) wait(id int) {
	f.mu.Lock()
	gate, ok := f.gates[id]
	s := f.started[id]
	delete(f.gates, id)
	delete(f.started, id)
	f.mu.Unlock()
	if ok {
		close(s)
		<-gate
	}
}

func (f *fakeStore) List(ctx context.Context) ([]models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Todo(nil), f.todos...), nil
}

func (f *fakeStore) Create(ctx context.Context, title string) (models.Todo, error) {
	f.wait(0)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.CreateErr != nil {
		return models.Todo{}, f.CreateErr
	}
	t := models.Todo{ID: f.nextID, UserID: 7, Title: title}
	if f.CreateNoID {
		t.ID = 0
	} else {
		f.nextID++
	}
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *fakeStore) Update(ctx context.Context, id int, patch models.TodoPatch) (models.Todo, error) {
	f.wait(id)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, id)
	if err := f.UpdateErrs[id]; err != nil {
		return models.Todo{}, err
	}
	for i, t := range f.todos {
		if t.ID == id {
			t = patch.Apply(t)
			if f.UpdateTitle != "" {
				t.Title = f.UpdateTitle
			}
			f.todos[i] = t
			return t, nil
		}
	}
	return models.Todo{}, errors.New("not found")
}

func (f *fakeStore) Delete(ctx context.Context, id int) error {
	f.wait(id)
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, id)
	if f.PanicOn[id] {
		f.mu.Unlock()
		panic("delete exploded")
	}
	defer f.mu.Unlock()
	if err := f.DeleteErrs[id]; err != nil {
		return err
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) calls() (list, create int, update, del []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, append([]int(nil), f.updateCalls...), append([]int(nil), f.deleteCalls...)
}

// fakeClock hands out timers that only fire when the test says so
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	mu      sync.Mutex
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *fakeClock) timer(i int) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}

// fire runs a timer callback even if it was stopped, like a timer that raced its Stop
func (c *fakeClock) fire(i int) {
	c.timer(i).f()
}

func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}
