package main

import (
	"fmt"
	"strconv"
	"strings"

	"todoList/internal/models/task"

	"github.com/charmbracelet/huh"
)

type taskForm struct {
	Description string
	Priority    string
	Date        string
	Time        string
}

func runTaskForm(f *taskForm, withPriority bool) error {
	fields := []huh.Field{
		huh.NewInput().
			Title("Task").
			Value(&f.Description).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return task.ErrEmptyDescription
				}
				return nil
			}),
	}

	if withPriority {
		if f.Priority == "" {
			f.Priority = string(task.PriorityMedium)
		}
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption(task.PriorityLow.Label(), string(task.PriorityLow)),
					huh.NewOption(task.PriorityMedium.Label(), string(task.PriorityMedium)),
					huh.NewOption(task.PriorityHigh.Label(), string(task.PriorityHigh)),
				).
				Value(&f.Priority),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Deadline date").
			Placeholder("YYYY-MM-DD").
			Value(&f.Date).
			Validate(validateDate),
		huh.NewInput().
			Title("Deadline time").
			Placeholder("HH:MM").
			Value(&f.Time).
			Validate(validateClock),
	)

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runNotesForm(id int, notes *string) error {
	return huh.NewText().
		Title(fmt.Sprintf("Notes for task %d", id)).
		Description("Leave empty to remove the notes").
		Value(notes).
		Run()
}

// parseDate разбирает YYYY-MM-DD; нечитаемая строка даёт нули,
// чтобы ошибку вернула общая проверка ввода
func parseDate(s string) (year, month, day int) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return 0, 0, 0
	}
	nums, ok := atoiAll(parts)
	if !ok {
		return 0, 0, 0
	}
	return nums[0], nums[1], nums[2]
}

// parseClock разбирает HH:MM; нечитаемая строка даёт -1
func parseClock(s string) (hour, minute int) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return -1, -1
	}
	nums, ok := atoiAll(parts)
	if !ok {
		return -1, -1
	}
	return nums[0], nums[1]
}

func atoiAll(parts []string) ([]int, bool) {
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

func validateDate(s string) error {
	year, month, day := parseDate(s)
	_, err := task.ValidateInput("-", year, month, day, 0, 0)
	return err
}

func validateClock(s string) error {
	hour, minute := parseClock(s)
	_, err := task.ValidateInput("-", 2000, 1, 1, hour, minute)
	return err
}
