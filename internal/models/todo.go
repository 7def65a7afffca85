package models

// Todo is a single list item as stored by the remote API.
// ID 0 is reserved for the unsaved placeholder shown while a create is in flight.
type Todo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// IsPlaceholder reports whether the todo has not been persisted yet
func (t Todo) IsPlaceholder() bool {
	return t.ID == 0
}

// TodoPatch carries the fields of a partial update; nil fields are left untouched
type TodoPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TitlePatch builds a patch that only renames
func TitlePatch(title string) TodoPatch {
	return TodoPatch{Title: &title}
}

// CompletedPatch builds a patch that only changes the status
func CompletedPatch(completed bool) TodoPatch {
	return TodoPatch{Completed: &completed}
}

// Apply returns a copy of t with the patch fields written over it
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// NewTodoRequest is the body of a create call
type NewTodoRequest struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
