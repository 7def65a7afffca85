package todolist

import "github.com/kelsos/todos/internal/models"

// Snapshot is a point-in-time copy of the controller state and its projections
type Snapshot struct {
	Todos       []models.Todo
	Visible     []models.Todo
	Placeholder *models.Todo
	Loading     bool
	Pending     map[int]bool
	Filter      models.Filter
	Error       string

	ActiveCount    int
	CompletedCount int
	AllCompleted   bool
}

// IsPending reports whether a remote mutation for id is in flight
func (s Snapshot) IsPending(id int) bool {
	return s.Pending[id]
}

// Rows returns the visible todos followed by the placeholder, if any
func (s Snapshot) Rows() []models.Todo {
	rows := make([]models.Todo, 0, len(s.Visible)+1)
	rows = append(rows, s.Visible...)
	if s.Placeholder != nil {
		rows = append(rows, *s.Placeholder)
	}
	return rows
}

// Find looks a todo up by id in the full list
func (s Snapshot) Find(id int) (models.Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}
