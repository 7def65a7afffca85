package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelsos/todos/internal/logger"
	"github.com/kelsos/todos/internal/models"
	"github.com/kelsos/todos/internal/todolist"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// StateChanged asks the model to re-read the controller snapshot
type StateChanged struct{}

type addDone struct {
	err error
}

type editDone struct {
	id  int
	err error
}

type Model struct {
	ctx  context.Context
	ctrl *todolist.Controller

	state   todolist.Snapshot
	input   textinput.Model
	edit    textinput.Model
	editID  int
	editing bool
	adding  bool
	focus   focusArea
	cursor  int
	spinner spinner.Model
	width   int
	height  int
	quit    bool
}

func NewModel(ctx context.Context, ctrl *todolist.Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.Prompt = "❯ "
	input.Focus()

	edit := textinput.New()
	edit.Placeholder = "Empty todo will be deleted"
	edit.Prompt = ""

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		state:   ctrl.Snapshot(),
		input:   input,
		edit:    edit,
		focus:   focusInput,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textinput.Blink,
		m.run(m.ctrl.Load),
	)
}

// run executes a blocking controller intent off the event loop
func (m Model) run(intent func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := intent(ctx); err != nil {
			logger.Debug("Intent finished with error: %v", err)
		}
		return StateChanged{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		m.edit.Width = msg.Width - 12

	case StateChanged:
		m = m.refresh()

	case addDone:
		m = m.refresh()
		m.adding = false
		if msg.err == nil {
			m.input.Reset()
		}

	case editDone:
		m = m.refresh()
		if msg.err == nil && m.editing && m.editID == msg.id {
			m = m.closeEdit()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		if m.editing {
			m.edit, cmd = m.edit.Update(msg)
		} else {
			m.input, cmd = m.input.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) refresh() Model {
	m.state = m.ctrl.Snapshot()
	if m.editing {
		if _, ok := m.state.Find(m.editID); !ok {
			m = m.closeEdit()
		}
	}
	rows := len(m.state.Rows())
	if m.cursor >= rows {
		m.cursor = rows - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quit = true
		return m, tea.Quit
	}

	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// state.Loading only updates once the add reports back
		if m.state.Loading || m.adding {
			return m, nil
		}
		m.adding = true
		title := m.input.Value()
		ctx := m.ctx
		ctrl := m.ctrl
		return m, func() tea.Msg {
			_, err := ctrl.Add(ctx, title)
			return addDone{err: err}
		}
	case "tab", "down", "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	if m.state.Loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.state.Rows()
	var selected *models.Todo
	if m.cursor >= 0 && m.cursor < len(rows) && !rows[m.cursor].IsPlaceholder() {
		selected = &rows[m.cursor]
	}

	switch msg.String() {
	case "q":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "tab", "n", "i":
		m.focus = focusInput
		return m, m.input.Focus()
	case " ", "x":
		if selected != nil && !m.state.Loading && !m.state.IsPending(selected.ID) {
			id, completed := selected.ID, !selected.Completed
			return m, m.run(func(ctx context.Context) error {
				return m.ctrl.Toggle(ctx, id, completed)
			})
		}
	case "a":
		if len(m.state.Todos) > 0 {
			return m, m.run(m.ctrl.ToggleAll)
		}
	case "enter", "e":
		if selected != nil && !m.state.Loading {
			m.editing = true
			m.editID = selected.ID
			m.edit.SetValue(selected.Title)
			m.edit.CursorEnd()
			return m, m.edit.Focus()
		}
	case "d", "delete":
		if selected != nil && !m.state.Loading {
			id := selected.ID
			return m, m.run(func(ctx context.Context) error {
				return m.ctrl.Delete(ctx, id)
			})
		}
	case "c":
		if m.state.CompletedCount > 0 {
			return m, m.run(m.ctrl.ClearCompleted)
		}
	case "1":
		m.ctrl.SetFilter(models.FilterAll)
		m = m.refresh()
	case "2":
		m.ctrl.SetFilter(models.FilterActive)
		m = m.refresh()
	case "3":
		m.ctrl.SetFilter(models.FilterCompleted)
		m = m.refresh()
	case "f":
		m.ctrl.SetFilter(m.state.Filter.Next())
		m = m.refresh()
	case "esc":
		m.ctrl.HideError()
		m = m.refresh()
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeEdit(), nil
	case "enter":
		return m.submitEdit()
	}

	if m.state.Loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	current, ok := m.state.Find(m.editID)
	if !ok {
		return m.closeEdit(), nil
	}

	action, title := decideEdit(current.Title, m.edit.Value())
	id := current.ID
	ctx := m.ctx
	ctrl := m.ctrl

	switch action {
	case editDelete:
		return m, func() tea.Msg {
			return editDone{id: id, err: ctrl.Delete(ctx, id)}
		}
	case editRename:
		return m, func() tea.Msg {
			return editDone{id: id, err: ctrl.Rename(ctx, id, title)}
		}
	default:
		return m.closeEdit(), nil
	}
}

func (m Model) closeEdit() Model {
	m.editing = false
	m.editID = 0
	m.edit.Blur()
	m.edit.Reset()
	return m
}
