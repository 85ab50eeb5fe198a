// Package tui - терминальный интерфейс списка задач.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoList/internal/logger"
	"todoList/internal/service"
	"todoList/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	refreshInterval = time.Minute
	cmdTimeout      = 3 * time.Second
)

type Service interface {
	GetView(ctx context.Context, now time.Time) (view.View, error)
	CompleteTask(ctx context.Context, id int) (service.CompleteResult, error)
	DeleteTask(ctx context.Context, id int) error
	GetNotes(ctx context.Context, id int) (string, error)
}

type viewLoadedMsg struct {
	view view.View
}

type actionDoneMsg struct {
	status string
}

type notesMsg struct {
	id    int
	notes string
}

type errMsg struct {
	err error
}

type tickMsg time.Time

type Model struct {
	svc  Service
	now  func() time.Time
	keys keyMap
	help help.Model

	view          view.View
	cursor        int
	pendingDelete int // id задачи, ждущей второго нажатия x
	status        string
	notes         string
	err           error
}

func New(svc Service, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		svc:  svc,
		now:  now,
		keys: defaultKeys(),
		help: help.New(),
	}
}

// Run запускает интерфейс и блокируется до выхода
func Run(ctx context.Context, svc Service) error {
	p := tea.NewProgram(New(svc, time.Now), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load, tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewLoadedMsg:
		m.view = msg.view
		m.err = nil
		m.cursor = clamp(m.cursor, len(m.view.Rows))
		return m, nil

	case tickMsg:
		// просрочка пересчитывается без записи в хранилище
		return m, tea.Batch(m.load, tick())

	case actionDoneMsg:
		m.status = msg.status
		m.err = nil
		return m, m.load

	case notesMsg:
		m.notes = msg.notes
		if strings.TrimSpace(msg.notes) == "" {
			m.notes = fmt.Sprintf("Task %d has no notes", msg.id)
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		logger.Warn("TUI: Ошибка операции", zap.Error(msg.err))
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmDelete := m.pendingDelete
	m.pendingDelete = 0

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.notes = ""

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
		m.notes = ""

	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.load

	case key.Matches(msg, m.keys.Complete):
		if id, ok := m.selectedID(); ok {
			return m, m.complete(id)
		}

	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selectedID()
		if !ok {
			break
		}
		if confirmDelete == id {
			m.notes = ""
			return m, m.remove(id)
		}
		m.pendingDelete = id
		m.status = fmt.Sprintf("Press x again to delete task %d", id)

	case key.Matches(msg, m.keys.Notes):
		if id, ok := m.selectedID(); ok {
			return m, m.loadNotes(id)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	if len(m.view.Rows) == 0 {
		b.WriteString(statusStyle.Render("No tasks yet. Add one with `todo add`."))
		b.WriteString("\n")
	} else {
		b.WriteString(RenderTable(m.view.Rows, m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(RenderSummary(m.view.Summary))
	b.WriteString("\n")

	if m.notes != "" {
		b.WriteString(notesStyle.Render(m.notes))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(errorText(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) selectedID() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return 0, false
	}
	return m.view.Rows[m.cursor].ID, true
}

func (m Model) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	v, err := m.svc.GetView(ctx, m.now())
	if err != nil {
		return errMsg{err: err}
	}
	return viewLoadedMsg{view: v}
}

func (m Model) complete(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
		defer cancel()

		res, err := m.svc.CompleteTask(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		if res == service.AlreadyComplete {
			return actionDoneMsg{status: fmt.Sprintf("Task %d is already complete", id)}
		}
		return actionDoneMsg{status: fmt.Sprintf("Task %d completed", id)}
	}
}

func (m Model) remove(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
		defer cancel()

		if err := m.svc.DeleteTask(ctx, id); err != nil {
			return errMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Task %d deleted, ids renumbered", id)}
	}
}

func (m Model) loadNotes(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
		defer cancel()

		notes, err := m.svc.GetNotes(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return notesMsg{id: id, notes: notes}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clamp(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func errorText(err error) string {
	var busErr *service.BusinessError
	if errors.As(err, &busErr) {
		return busErr.Message
	}
	return err.Error()
}
