// Package view превращает сохранённые задачи в строки для показа и сводку.
package view

import (
	"fmt"
	"sort"
	"time"

	"todoList/internal/models/task"

	"github.com/dustin/go-humanize"
)

const (
	DisplayLayout = "02/01/2006 15:04"
	NoDeadline    = "No deadline"
)

type Tag string

const (
	TagCompleted Tag = "completed"
	TagOverdue   Tag = "overdue"
	TagPending   Tag = "pending"
	TagHasNotes  Tag = "has_notes"
)

// TagSet - ровно один тег состояния и необязательный has_notes
type TagSet struct {
	State    Tag  `json:"state"`
	HasNotes bool `json:"has_notes"`
}

func (t TagSet) Tags() []Tag {
	if t.HasNotes {
		return []Tag{t.State, TagHasNotes}
	}
	return []Tag{t.State}
}

func (t TagSet) Has(tag Tag) bool {
	if tag == TagHasNotes {
		return t.HasNotes
	}
	return t.State == tag
}

type DisplayRow struct {
	ID          int           `json:"id"`
	Description string        `json:"description"`
	Priority    task.Priority `json:"priority"`
	Status      task.Status   `json:"status"`
	Deadline    string        `json:"deadline"`
	Created     string        `json:"created"`
	CreatedAgo  string        `json:"created_ago,omitempty"`
	Tags        TagSet        `json:"tags"`
}

type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Total: %d | Done: %d | Pending: %d | Overdue: %d",
		s.Total, s.Completed, s.Pending, s.Overdue)
}

type View struct {
	Rows    []DisplayRow `json:"rows"`
	Summary Summary      `json:"summary"`
}

// Project сортирует задачи по дедлайну, проставляет теги и считает сводку.
// Просрочка вычисляется относительно now при каждом вызове.
func Project(tasks []*task.Task, now time.Time) View {
	ordered := make([]*task.Task, len(tasks))
	copy(ordered, tasks)

	// даты хранятся как YYYY-MM-DD и HH:MM, строковое сравнение совпадает с хронологическим
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DeadlineDate != ordered[j].DeadlineDate {
			return ordered[i].DeadlineDate < ordered[j].DeadlineDate
		}
		return ordered[i].DeadlineTime < ordered[j].DeadlineTime
	})

	v := View{Rows: make([]DisplayRow, 0, len(ordered))}
	for _, t := range ordered {
		tags := TagSet{State: TagPending, HasNotes: t.HasNotes()}
		switch {
		case t.IsDone():
			tags.State = TagCompleted
			v.Summary.Completed++
		case t.IsOverdue(now):
			tags.State = TagOverdue
			v.Summary.Overdue++
		}

		v.Rows = append(v.Rows, DisplayRow{
			ID:          t.ID,
			Description: t.Description,
			Priority:    t.Priority,
			Status:      t.Status,
			Deadline:    formatDeadline(t, now.Location()),
			Created:     formatCreated(t, now.Location()),
			CreatedAgo:  createdAgo(t, now),
			Tags:        tags,
		})
	}

	v.Summary.Total = len(ordered)
	v.Summary.Pending = v.Summary.Total - v.Summary.Completed
	return v
}

func formatDeadline(t *task.Task, loc *time.Location) string {
	deadline, err := t.Deadline(loc)
	if err != nil {
		return NoDeadline
	}
	return deadline.Format(DisplayLayout)
}

// нечитаемую дату создания показываем как есть
func formatCreated(t *task.Task, loc *time.Location) string {
	created, err := t.Created(loc)
	if err != nil {
		return t.CreatedDate
	}
	return created.Format(DisplayLayout)
}

func createdAgo(t *task.Task, now time.Time) string {
	created, err := t.Created(now.Location())
	if err != nil {
		return ""
	}
	return humanize.RelTime(created, now, "ago", "from now")
}
