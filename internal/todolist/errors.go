package todolist

import (
	"errors"
	"fmt"

	"github.com/kelsos/todos/internal/models"
)

// ErrEmptyTitle is returned when a title is blank after trimming; no request is made
var ErrEmptyTitle = errors.New("title should not be empty")

// ErrMissingID is returned when the store answers a create with a record that has no id
var ErrMissingID = errors.New("created todo has no id")

// Operation names the kind of remote call that failed
type Operation string

const (
	OpLoad   Operation = "load"
	OpAdd    Operation = "add"
	OpDelete Operation = "delete"
	OpUpdate Operation = "update"
)

// OperationError wraps a store failure. Bulk operations join every failure into Err.
type OperationError struct {
	Op  Operation
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user for this failure
func (e *OperationError) Message() string {
	switch e.Op {
	case OpLoad:
		return models.MessageUnableToLoad
	case OpAdd:
		return models.MessageUnableToAdd
	case OpDelete:
		return models.MessageUnableToDelete
	default:
		return models.MessageUnableToUpdate
	}
}

// UserMessage maps an error returned by the controller to its notification text
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyTitle) {
		return models.MessageEmptyTitle
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message()
	}
	return err.Error()
}
