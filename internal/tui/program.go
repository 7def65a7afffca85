package tui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/todos/internal/todolist"
)

// App hosts the todo list program and forwards controller changes to it
type App struct {
	program atomic.Pointer[tea.Program]
}

func NewApp() *App {
	return &App{}
}

// Notify is meant to be passed to todolist.WithOnChange. It never blocks so
// it is safe to call from inside the program's own update loop.
func (a *App) Notify() {
	p := a.program.Load()
	if p == nil {
		return
	}
	go p.Send(StateChanged{})
}

func (a *App) Stop() {
	if p := a.program.Load(); p != nil {
		p.Quit()
	}
}

// Run blocks until the user quits or ctx is canceled
func (a *App) Run(ctx context.Context, ctrl *todolist.Controller) error {
	p := tea.NewProgram(NewModel(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	a.program.Store(p)
	defer a.program.Store(nil)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
