package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyDescription = errors.New("описание задачи пустое")
	ErrInvalidDate      = errors.New("некорректная дата")
	ErrInvalidTime      = errors.New("некорректное время")
	ErrInvalidPriority  = errors.New("некорректный приоритет")
)

// ValidatedInput - нормализованный ввод пользователя, готовый к записи
type ValidatedInput struct {
	Description string
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
}

// Date возвращает дату в формате хранения YYYY-MM-DD
func (v ValidatedInput) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, v.Day)
}

// Time возвращает время в формате хранения HH:MM
func (v ValidatedInput) Time() string {
	return fmt.Sprintf("%02d:%02d", v.Hour, v.Minute)
}

// ValidateInput проверяет описание, дату и время дедлайна.
// Проверки идут в порядке описание -> дата -> время, возвращается первая ошибка.
func ValidateInput(description string, year, month, day, hour, minute int) (ValidatedInput, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return ValidatedInput{}, ErrEmptyDescription
	}

	if !isCalendarDate(year, month, day) {
		return ValidatedInput{}, ErrInvalidDate
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ValidatedInput{}, ErrInvalidTime
	}

	return ValidatedInput{
		Description: description,
		Year:        year,
		Month:       month,
		Day:         day,
		Hour:        hour,
		Minute:      minute,
	}, nil
}

// time.Date нормализует 30 февраля в 2 марта, поэтому сравниваем обратно
func isCalendarDate(year, month, day int) bool {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}
