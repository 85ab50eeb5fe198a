package task

import "strings"

// TaskOption изменяет задачу перед записью в хранилище
type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = strings.TrimSpace(description)
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		priority = PriorityMedium
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithDeadline(date, clock string) TaskOption {
	return func(task *Task) {
		task.DeadlineDate = date
		task.DeadlineTime = clock
	}
}

// WithInput переносит в задачу описание и дедлайн после проверки
func WithInput(in ValidatedInput) TaskOption {
	return func(task *Task) {
		task.Description = in.Description
		task.DeadlineDate = in.Date()
		task.DeadlineTime = in.Time()
	}
}

func WithNotes(notes string) TaskOption {
	return func(task *Task) {
		task.Notes = strings.TrimSpace(notes)
	}
}

// WithCompleted переводит задачу в Done; completed_date заполняется только здесь
func WithCompleted(stamp string) TaskOption {
	return func(task *Task) {
		task.Status = StatusDone
		task.CompletedDate = &stamp
	}
}

func New(options ...TaskOption) *Task {
	t := &Task{
		Priority: PriorityMedium,
		Status:   StatusPending,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}
