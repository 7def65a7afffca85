package models

// User-facing notification texts
const (
	MessageUnableToLoad   = "Unable to load todos"
	MessageEmptyTitle     = "Title should not be empty"
	MessageUnableToAdd    = "Unable to add a todo"
	MessageUnableToDelete = "Unable to delete a todo"
	MessageUnableToUpdate = "Unable to update a todo"
)
