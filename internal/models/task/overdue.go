package task

import "time"

// IsOverdue считается при каждом показе списка и никогда не сохраняется.
// Нечитаемый дедлайн задачу просроченной не делает.
func IsOverdue(deadlineDate, deadlineTime string, status Status, now time.Time) bool {
	if status == StatusDone {
		return false
	}

	deadline, err := ParseDeadline(deadlineDate, deadlineTime, now.Location())
	if err != nil {
		return false
	}

	return now.After(deadline)
}

func (t *Task) IsOverdue(now time.Time) bool {
	return IsOverdue(t.DeadlineDate, t.DeadlineTime, t.Status, now)
}
