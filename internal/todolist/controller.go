// Package todolist keeps the in-memory todo list in step with the remote store.
package todolist

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/kelsos/todos/internal/async"
	"github.com/kelsos/todos/internal/logger"
	"github.com/kelsos/todos/internal/models"
)

// Store is the remote collection the controller synchronizes with
type Store interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, title string) (models.Todo, error)
	Update(ctx context.Context, id int, patch models.TodoPatch) (models.Todo, error)
	Delete(ctx context.Context, id int) error
}

// Option configures a Controller
type Option func(*Controller)

// WithNotifier sets the error notifier, by default messages expire after DefaultErrorTimeout
func WithNotifier(n *Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithMaxInFlight bounds concurrent requests of bulk operations; 0 means unbounded
func WithMaxInFlight(n int) Option {
	return func(c *Controller) {
		c.maxInFlight = n
	}
}

// WithOnChange registers a hook called after every state change, outside the lock
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller owns the list state and the transient UI state around it.
// Intents block until their remote calls settle and are safe to run concurrently.
type Controller struct {
	store       Store
	userID      int
	notifier    *Notifier
	maxInFlight int
	onChange    func()

	mu          sync.Mutex
	todos       []models.Todo
	loading     bool
	pending     map[int]struct{}
	placeholder *models.Todo
	filter      models.Filter
}

// New creates a controller for the todos of userID
func New(store Store, userID int, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		userID:  userID,
		pending: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NewNotifier(DefaultErrorTimeout)
	}
	c.notifier.setOnChange(c.changed)
	return c
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) mutate(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) setLoading(loading bool) {
	c.mutate(func() {
		c.loading = loading
	})
}

// acquire marks ids as pending and returns the function that releases exactly those ids
func (c *Controller) acquire(ids ...int) (release func()) {
	c.mutate(func() {
		for _, id := range ids {
			c.pending[id] = struct{}{}
		}
	})
	return func() {
		c.mutate(func() {
			for _, id := range ids {
				delete(c.pending, id)
			}
		})
	}
}

func (c *Controller) fail(op Operation, err error) error {
	opErr := &OperationError{Op: op, Err: err}
	logger.Error("Todo %s failed: %v", op, err)
	c.notifier.Show(opErr.Message())
	return opErr
}

func (c *Controller) find(id int) (models.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.todos {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}

// Load replaces the list with the store contents. On failure the list is left untouched.
func (c *Controller) Load(ctx context.Context) error {
	c.setLoading(true)
	c.notifier.Hide()
	defer c.setLoading(false)

	todos, err := c.store.List(ctx)
	if err != nil {
		return c.fail(OpLoad, err)
	}

	c.mutate(func() {
		c.todos = uniqueByID(todos)
	})
	logger.Info("Loaded %d todos", len(todos))
	return nil
}

// Add creates a todo. A placeholder with id 0 is visible while the request is in flight.
func (c *Controller) Add(ctx context.Context, title string) (models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		c.notifier.Show(models.MessageEmptyTitle)
		return models.Todo{}, ErrEmptyTitle
	}

	placeholder := models.Todo{ID: 0, UserID: c.userID, Title: title, Completed: false}
	c.mutate(func() {
		c.placeholder = &placeholder
		c.loading = true
	})
	c.notifier.Hide()
	defer c.mutate(func() {
		c.placeholder = nil
		c.loading = false
	})

	created, err := c.store.Create(ctx, title)
	if err != nil {
		return models.Todo{}, c.fail(OpAdd, err)
	}
	if created.IsPlaceholder() {
		return models.Todo{}, c.fail(OpAdd, ErrMissingID)
	}

	c.mutate(func() {
		c.todos = upsert(c.todos, created)
	})
	return created, nil
}

// Delete removes a todo locally once the store confirms it
func (c *Controller) Delete(ctx context.Context, id int) error {
	release := c.acquire(id)
	defer release()

	if err := c.store.Delete(ctx, id); err != nil {
		return c.fail(OpDelete, err)
	}

	c.mutate(func() {
		c.todos = removeIDs(c.todos, map[int]struct{}{id: {}})
	})
	return nil
}

// ClearCompleted deletes every completed todo. Only confirmed deletes leave the list
// and any number of failures produce a single notification.
func (c *Controller) ClearCompleted(ctx context.Context) error {
	c.mu.Lock()
	completed := models.FilterCompleted.Apply(c.todos)
	c.mu.Unlock()

	if len(completed) == 0 {
		return nil
	}

	c.setLoading(true)
	c.notifier.Hide()
	defer c.setLoading(false)

	results := async.Settle(ctx, c.maxInFlight, completed, func(ctx context.Context, t models.Todo) (struct{}, error) {
		return struct{}{}, c.store.Delete(ctx, t.ID)
	})
	succeeded, failed := async.Split(results)

	deleted := make(map[int]struct{}, len(succeeded))
	for _, r := range succeeded {
		deleted[r.Input.ID] = struct{}{}
	}
	c.mutate(func() {
		c.todos = removeIDs(c.todos, deleted)
	})

	if len(failed) > 0 {
		return c.fail(OpDelete, errors.Join(failed...))
	}
	return nil
}

// Toggle sets the completed flag and takes the whole record the store returns
func (c *Controller) Toggle(ctx context.Context, id int, completed bool) error {
	release := c.acquire(id)
	defer release()
	c.notifier.Hide()

	updated, err := c.store.Update(ctx, id, models.CompletedPatch(completed))
	if err != nil {
		return c.fail(OpUpdate, err)
	}

	c.mutate(func() {
		c.todos = replace(c.todos, updated)
	})
	return nil
}

// ToggleAll completes every todo, or reactivates them all when all are already completed.
// Successful updates only change the local flag, the returned records are not merged.
func (c *Controller) ToggleAll(ctx context.Context) error {
	c.mu.Lock()
	if len(c.todos) == 0 {
		c.mu.Unlock()
		return nil
	}
	target := !allCompleted(c.todos)
	var selected []models.Todo
	for _, t := range c.todos {
		if t.Completed != target {
			selected = append(selected, t)
		}
	}
	c.mu.Unlock()

	if len(selected) == 0 {
		return nil
	}

	ids := make([]int, len(selected))
	for i, t := range selected {
		ids[i] = t.ID
	}
	release := c.acquire(ids...)
	defer release()
	c.notifier.Hide()

	results := async.Settle(ctx, c.maxInFlight, selected, func(ctx context.Context, t models.Todo) (models.Todo, error) {
		return c.store.Update(ctx, t.ID, models.CompletedPatch(target))
	})
	succeeded, failed := async.Split(results)

	updated := make(map[int]struct{}, len(succeeded))
	for _, r := range succeeded {
		updated[r.Input.ID] = struct{}{}
	}
	c.mutate(func() {
		for i := range c.todos {
			if _, ok := updated[c.todos[i].ID]; ok {
				c.todos[i].Completed = target
			}
		}
	})

	if len(failed) > 0 {
		return c.fail(OpUpdate, errors.Join(failed...))
	}
	return nil
}

// Rename changes a title. Unknown ids and unchanged titles are no-ops, anything
// else, an empty title included, is sent to the store.
// The error is returned so an edit session can stay open after a failure.
func (c *Controller) Rename(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)

	current, found := c.find(id)
	if !found || current.Title == title {
		return nil
	}

	c.notifier.Hide()
	release := c.acquire(id)
	defer release()

	updated, err := c.store.Update(ctx, id, models.TitlePatch(title))
	if err != nil {
		return c.fail(OpUpdate, err)
	}

	c.mutate(func() {
		c.todos = replace(c.todos, updated)
	})
	return nil
}

// SetFilter changes which todos are visible
func (c *Controller) SetFilter(f models.Filter) {
	c.mutate(func() {
		c.filter = f
	})
}

// HideError dismisses the notification
func (c *Controller) HideError() {
	c.notifier.Hide()
}

// Snapshot returns a copy of the state with every derived projection computed
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	todos := make([]models.Todo, len(c.todos))
	copy(todos, c.todos)
	pending := make(map[int]bool, len(c.pending))
	for id := range c.pending {
		pending[id] = true
	}
	var placeholder *models.Todo
	if c.placeholder != nil {
		p := *c.placeholder
		placeholder = &p
	}
	s := Snapshot{
		Todos:       todos,
		Placeholder: placeholder,
		Loading:     c.loading,
		Pending:     pending,
		Filter:      c.filter,
	}
	c.mu.Unlock()

	s.Error = c.notifier.Message()
	s.Visible = s.Filter.Apply(todos)
	for _, t := range todos {
		if t.Completed {
			s.CompletedCount++
		} else {
			s.ActiveCount++
		}
	}
	s.AllCompleted = len(todos) > 0 && s.ActiveCount == 0
	return s
}

func allCompleted(todos []models.Todo) bool {
	for _, t := range todos {
		if !t.Completed {
			return false
		}
	}
	return len(todos) > 0
}

func uniqueByID(todos []models.Todo) []models.Todo {
	seen := make(map[int]struct{}, len(todos))
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if _, dup := seen[t.ID]; dup || t.IsPlaceholder() {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func upsert(todos []models.Todo, todo models.Todo) []models.Todo {
	for i := range todos {
		if todos[i].ID == todo.ID {
			todos[i] = todo
			return todos
		}
	}
	return append(todos, todo)
}

func replace(todos []models.Todo, todo models.Todo) []models.Todo {
	for i := range todos {
		if todos[i].ID == todo.ID {
			todos[i] = todo
			break
		}
	}
	return todos
}

func removeIDs(todos []models.Todo, ids map[int]struct{}) []models.Todo {
	if len(ids) == 0 {
		return todos
	}
	kept := todos[:0:0]
	for _, t := range todos {
		if _, drop := ids[t.ID]; !drop {
			kept = append(kept, t)
		}
	}
	return kept
}
