package service

import (
	"errors"
	"fmt"

	"todoList/internal/models/task"
	repo "todoList/internal/repository"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeEmptyDescription = "EMPTY_DESCRIPTION"
	CodeInvalidDate      = "INVALID_DATE"
	CodeInvalidTime      = "INVALID_TIME"
	CodeInvalidPriority  = "INVALID_PRIORITY"
	CodeValidation       = "VALIDATION_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

// Unwrap даёт errors.Is добраться до ошибок task и repository
func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(id int) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("задача %d не найдена", id),
		Details: map[string]any{
			"resource": "task",
			"id":       id,
		},
		Err: repo.ErrNotFound,
	}
}

// NewValidationError оборачивает ошибку проверки ввода в бизнес-ошибку с её кодом
func NewValidationError(err error) *BusinessError {
	code, field := validationCode(err)
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf("неверное значение поля '%s'", field),
		Details: map[string]any{
			"field":  field,
			"reason": err.Error(),
		},
		Err: err,
	}
}

func validationCode(err error) (code, field string) {
	switch {
	case errors.Is(err, task.ErrEmptyDescription):
		return CodeEmptyDescription, "description"
	case errors.Is(err, task.ErrInvalidDate):
		return CodeInvalidDate, "deadline_date"
	case errors.Is(err, task.ErrInvalidTime):
		return CodeInvalidTime, "deadline_time"
	case errors.Is(err, task.ErrInvalidPriority):
		return CodeInvalidPriority, "priority"
	default:
		return CodeValidation, "unknown"
	}
}

// IsValidation сообщает, что ошибку может исправить сам пользователь
func IsValidation(err error) bool {
	var busErr *BusinessError
	if !errors.As(err, &busErr) {
		return false
	}
	return busErr.Code != CodeNotFound
}

func IsNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
