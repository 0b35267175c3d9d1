// Package tui is the clipboard list window: a terminal view of the whole
// history where a row can be copied back to the clipboard or deleted.
//
// The window does not hold history itself. It re-reads the daemon's history
// on a fixed interval and after every action. Copy and delete send the text of
// the selected row along with its index; if a newer copy has shifted the list
// in the meantime the daemon refuses, and the window reloads and keeps the
// cursor on the row the user picked.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/menu"
)

// RefreshInterval is how often the window re-reads the history.
const RefreshInterval = time.Second

const (
	defaultWidth   = 80
	requestTimeout = 5 * time.Second
)

// Source is the part of the HistoryService client the window needs.
type Source interface {
	List(context.Context, *api.ListRequest) (*api.ListResponse, error)
	Copy(context.Context, *api.CopyRequest) (*api.CopyResponse, error)
	Remove(context.Context, *api.RemoveRequest) (*api.RemoveResponse, error)
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Copy   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Copy:   key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "copy")),
	Delete: key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type (
	historyMsg struct{ resp *api.ListResponse }
	copiedMsg  struct{ entry api.Entry }
	removedMsg struct{ entry api.Entry }
	errMsg     struct{ err error }
	staleMsg   struct{ text string }
	tickMsg    struct{}
)

// Model is the bubbletea model of the list window.
type Model struct {
	src      Source
	entries  []api.Entry
	total    int
	capacity int
	cursor   int
	width    int
	status   string
	err      error
	// follow is the text the cursor should land on after the next reload.
	follow string
}

// New returns a window reading from src.
func New(src Source) Model {
	return Model{src: src, width: defaultWidth}
}

// Run shows the window until the user quits.
func Run(src Source) error {
	_, err := tea.NewProgram(New(src), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), tick())

	case historyMsg:
		m.entries = msg.resp.Entries
		m.total = msg.resp.Total
		m.capacity = msg.resp.Capacity
		m.err = nil
		m.cursor = min(m.cursor, max(len(m.entries)-1, 0))
		if m.follow != "" {
			for i, e := range m.entries {
				if e.Text == m.follow {
					m.cursor = i
					break
				}
			}
			m.follow = ""
		}
		return m, nil

	case copiedMsg:
		m.status = "copied: " + menu.Label(msg.entry.Text)
		return m, nil

	case removedMsg:
		m.status = "deleted: " + menu.Label(msg.entry.Text)
		return m, m.fetch()

	case staleMsg:
		m.status = "history changed, reloaded: try again"
		m.follow = msg.text
		return m, m.fetch()

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Copy):
			if len(m.entries) > 0 {
				return m, m.copy(m.entries[m.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(m.entries) > 0 {
				return m, m.remove(m.entries[m.cursor])
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Clipboard history (%d/%d)", m.total, m.capacity)))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  nothing copied yet"))
		b.WriteString("\n")
	}
	labelWidth := max(m.width-8, 10)
	for i, e := range m.entries {
		line := fmt.Sprintf("%2d  %s", e.Index, menu.Truncate(strings.Join(strings.Fields(e.Text), " "), labelWidth))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(dimStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(helpLine(keys.Up, keys.Down, keys.Copy, keys.Delete, keys.Quit)))
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) fetch() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := src.List(ctx, &api.ListRequest{})
		if err != nil {
			return errMsg{err}
		}
		return historyMsg{resp}
	}
}

func (m Model) copy(e api.Entry) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := src.Copy(ctx, &api.CopyRequest{Index: e.Index, Text: e.Text})
		if err != nil {
			return failed(err, e)
		}
		return copiedMsg{resp.Entry}
	}
}

func (m Model) remove(e api.Entry) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := src.Remove(ctx, &api.RemoveRequest{Index: e.Index, Text: e.Text})
		if err != nil {
			return failed(err, e)
		}
		return removedMsg{resp.Entry}
	}
}

func failed(err error, e api.Entry) tea.Msg {
	if status.Code(err) == codes.FailedPrecondition {
		return staleMsg{e.Text}
	}
	return errMsg{err}
}
