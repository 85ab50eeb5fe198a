package task

import (
	"strings"
	"time"
)

// форматы хранения дат в таблице tasks
const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	StampLayout = "2006-01-02 15:04"
)

// Task хранит даты в том же текстовом виде, что и таблица,
// чтобы перенумерация копировала строки без изменений
type Task struct {
	ID            int      `json:"id" db:"id"`
	Description   string   `json:"task" db:"task"`
	Priority      Priority `json:"priority" db:"priority"`
	Status        Status   `json:"status" db:"status"`
	CreatedDate   string   `json:"created_date" db:"created_date"`
	CompletedDate *string  `json:"completed_date,omitempty" db:"completed_date"`
	DeadlineDate  string   `json:"deadline_date" db:"deadline_date"`
	DeadlineTime  string   `json:"deadline_time" db:"deadline_time"`
	Notes         string   `json:"notes" db:"notes"`
}

type Status string
type Priority string

const StatusPending Status = "pending"
const StatusDone Status = "done"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	default:
		return string(p)
	}
}

func (s Status) Label() string {
	switch s {
	case StatusDone:
		return "Done"
	case StatusPending:
		return "Pending"
	default:
		return string(s)
	}
}

// ParsePriority понимает английские значения и подписи из старой версии приложения.
// Пустая строка даёт приоритет по умолчанию.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "low", "rendah":
		return PriorityLow, nil
	case "medium", "sedang":
		return PriorityMedium, nil
	case "high", "tinggi":
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

func (t *Task) HasNotes() bool {
	return strings.TrimSpace(t.Notes) != ""
}

// Deadline собирает дату и время дедлайна в локальной зоне loc
func (t *Task) Deadline(loc *time.Location) (time.Time, error) {
	return ParseDeadline(t.DeadlineDate, t.DeadlineTime, loc)
}

func (t *Task) Created(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(StampLayout, t.CreatedDate, loc)
}

func (t *Task) Completed(loc *time.Location) (*time.Time, error) {
	if t.CompletedDate == nil {
		return nil, nil
	}
	completed, err := time.ParseInLocation(StampLayout, *t.CompletedDate, loc)
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

func ParseDeadline(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(StampLayout, date+" "+clock, loc)
}

func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}
