package models

import (
	"fmt"
	"strings"
)

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles All -> Active -> Completed -> All
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// Matches reports whether a todo belongs to the filtered subset
func (f Filter) Matches(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the todos matching f, keeping their order
func (f Filter) Apply(todos []Todo) []Todo {
	visible := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Matches(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// ParseFilter accepts all, active or completed in any case
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
	}
}
