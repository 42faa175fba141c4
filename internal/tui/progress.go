// Package tui provides a small bubbletea progress display shared by the
// ldcomb and ldefm command-line drivers, an alternative to plain log
// lines for long-running captures run interactively.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Update carries one progress snapshot into the running program.
type Update struct {
	Label     string
	Processed int
	Emitted   int
	Errors    int
}

// Done signals that processing has finished; the program quits after
// rendering the final Update.
type Done struct{}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model driving the progress line.
type Model struct {
	updates <-chan Update
	last    Update
	quit    bool
}

// NewModel builds a Model that reads progress snapshots from updates
// until the channel is closed or a Done value arrives.
func NewModel(updates <-chan Update) Model {
	return Model{updates: updates}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return Done{}
		}
		return u
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case Update:
		m.last = v
		return m, m.wait()
	case Done:
		m.quit = true
		return m, tea.Quit
	case tea.KeyMsg:
		if v.String() == "ctrl+c" || v.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	line := fmt.Sprintf("%s  processed=%s emitted=%s",
		labelStyle.Render(m.last.Label),
		countStyle.Render(fmt.Sprintf("%d", m.last.Processed)),
		countStyle.Render(fmt.Sprintf("%d", m.last.Emitted)))
	if m.last.Errors > 0 {
		line += "  " + errStyle.Render(fmt.Sprintf("errors=%d", m.last.Errors))
	}
	return line + "\n"
}

// RunProgram starts the bubbletea program in the current goroutine,
// blocking until the updates channel closes or the user quits it.
func RunProgram(updates <-chan Update) error {
	_, err := tea.NewProgram(NewModel(updates)).Run()
	return err
}
