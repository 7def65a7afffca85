package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/todos/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedBorder  = lipgloss.Color("205")
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedFilter = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	errorStyle     = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("196")).
			Padding(0, 1)
)

func (m Model) View() string {
	if m.quit {
		return ""
	}

	var s strings.Builder

	s.WriteString(headerStyle.Render("📝 todos"))
	s.WriteString("\n")

	s.WriteString(m.renderInput())
	s.WriteString("\n")

	if len(m.state.Todos) > 0 || m.state.Placeholder != nil {
		s.WriteString(m.renderList())
		s.WriteString("\n")
		s.WriteString(m.renderFooter())
		s.WriteString("\n")
	} else if m.state.Loading {
		s.WriteString(m.spinner.View() + " Loading todos...\n")
	}

	if m.state.Error != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("⚠ " + m.state.Error))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render(m.helpLine()))

	return s.String()
}

func (m Model) renderInput() string {
	style := inputStyle
	if m.focus == focusInput && !m.editing {
		style = style.BorderForeground(focusedBorder)
	}

	toggleAll := "   "
	if len(m.state.Todos) > 0 {
		toggleAll = dimStyle.Render("[ ]")
		if m.state.AllCompleted {
			toggleAll = cursorStyle.Render("[✓]")
		}
	}

	return style.Render(toggleAll + " " + m.input.View())
}

func (m Model) renderList() string {
	rows := m.state.Rows()
	var b strings.Builder

	for i, todo := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderRow(i, todo))
	}
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("No %s todos", strings.ToLower(m.state.Filter.String()))))
	}

	style := listStyle
	if m.focus == focusList || m.editing {
		style = style.BorderForeground(focusedBorder)
	}
	return style.Render(b.String())
}

func (m Model) renderRow(i int, todo models.Todo) string {
	marker := "  "
	if m.focus == focusList && i == m.cursor {
		marker = cursorStyle.Render("❯ ")
	}

	if todo.IsPlaceholder() {
		return marker + m.spinner.View() + " " + pendingStyle.Render(todo.Title)
	}

	if m.editing && todo.ID == m.editID {
		return marker + "✎ " + m.edit.View()
	}

	check := "[ ]"
	title := todo.Title
	if todo.Completed {
		check = "[x]"
		title = completedStyle.Render(title)
	}

	line := marker + check + " " + title
	if m.state.IsPending(todo.ID) {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) renderFooter() string {
	count := fmt.Sprintf("%d %s left", m.state.ActiveCount, pluralize(m.state.ActiveCount, "item"))

	filters := make([]string, 0, len(models.Filters))
	for i, f := range models.Filters {
		label := fmt.Sprintf("%d:%s", i+1, f)
		if f == m.state.Filter {
			label = selectedFilter.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		filters = append(filters, label)
	}

	parts := []string{count, strings.Join(filters, " ")}
	if m.state.CompletedCount > 0 {
		parts = append(parts, dimStyle.Render("c: Clear completed"))
	}
	return strings.Join(parts, "   ")
}

func (m Model) helpLine() string {
	switch {
	case m.editing:
		return "enter: save • esc: cancel"
	case m.focus == focusInput:
		return "enter: add • tab: list • ctrl+c: quit"
	default:
		return "space: toggle • a: toggle all • enter: edit • d: delete • f: filter • esc: dismiss • tab: new • q: quit"
	}
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
