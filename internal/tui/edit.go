package tui

import "strings"

type editAction int

const (
	editClose editAction = iota
	editDelete
	editRename
)

// decideEdit maps a submitted inline edit to what should happen to the todo
func decideEdit(original, submitted string) (editAction, string) {
	title := strings.TrimSpace(submitted)
	switch {
	case title == original:
		return editClose, title
	case title == "":
		return editDelete, ""
	default:
		return editRename, title
	}
}
