package tui

import (
	"strconv"

	"todoList/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorMuted   = lipgloss.Color("8")
	colorOverdue = lipgloss.Color("9")
	colorPending = lipgloss.Color("252")
	colorNotes   = lipgloss.Color("12")
	colorAccent  = lipgloss.Color("11")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	summaryStyle = lipgloss.NewStyle().Foreground(colorAccent).MarginTop(1)
	statusStyle  = lipgloss.NewStyle().Foreground(colorNotes)
	errorStyle   = lipgloss.NewStyle().Foreground(colorOverdue).Bold(true)
	notesStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorNotes).
			Padding(0, 1)
)

var columns = []string{"ID", "Task", "Priority", "Status", "Deadline", "Created"}

// RowStyle выбирает стиль строки по её тегам
func RowStyle(tags view.TagSet) lipgloss.Style {
	s := cellStyle
	switch tags.State {
	case view.TagCompleted:
		s = s.Foreground(colorMuted).Strikethrough(true)
	case view.TagOverdue:
		s = s.Foreground(colorOverdue).Bold(true)
	default:
		s = s.Foreground(colorPending)
	}
	if tags.HasNotes {
		s = s.Italic(true)
	}
	return s
}

// RenderTable рисует строки проекции; selected < 0 - без выделения
func RenderTable(rows []view.DisplayRow, selected int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			s := RowStyle(rows[row].Tags)
			if row == selected {
				s = s.Reverse(true)
			}
			return s
		})

	for _, r := range rows {
		t.Row(cells(r)...)
	}
	return t.Render()
}

func RenderSummary(s view.Summary) string {
	return summaryStyle.Render(s.String())
}

func cells(r view.DisplayRow) []string {
	description := r.Description
	if r.Tags.HasNotes {
		description += " ✎"
	}

	created := r.Created
	if r.CreatedAgo != "" {
		created += " (" + r.CreatedAgo + ")"
	}

	return []string{
		strconv.Itoa(r.ID),
		description,
		r.Priority.Label(),
		r.Status.Label(),
		r.Deadline,
		created,
	}
}
