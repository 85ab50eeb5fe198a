package task_test

import (
	"errors"
	"testing"
	"time"

	"todoList/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateInput тестирует проверку ввода
func TestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		description string
		year        int
		month       int
		day         int
		hour        int
		minute      int
		expectedErr error
	}{
		{name: "success - обычная дата", description: "Buy milk", year: 2025, month: 1, day: 1, hour: 10, minute: 0},
		{name: "success - 29 февраля високосного года", description: "x", year: 2024, month: 2, day: 29, hour: 0, minute: 0},
		{name: "success - граница времени", description: "x", year: 2025, month: 12, day: 31, hour: 23, minute: 59},
		{name: "error - пустое описание", description: "   \t", year: 2025, month: 1, day: 1, expectedErr: task.ErrEmptyDescription},
		{name: "error - 30 февраля", description: "x", year: 2025, month: 2, day: 30, expectedErr: task.ErrInvalidDate},
		{name: "error - 29 февраля невисокосного года", description: "x", year: 2023, month: 2, day: 29, expectedErr: task.ErrInvalidDate},
		{name: "error - 1900 не високосный", description: "x", year: 1900, month: 2, day: 29, expectedErr: task.ErrInvalidDate},
		{name: "error - месяц 13", description: "x", year: 2025, month: 13, day: 1, expectedErr: task.ErrInvalidDate},
		{name: "error - месяц 0", description: "x", year: 2025, month: 0, day: 1, expectedErr: task.ErrInvalidDate},
		{name: "error - день 0", description: "x", year: 2025, month: 1, day: 0, expectedErr: task.ErrInvalidDate},
		{name: "error - 31 апреля", description: "x", year: 2025, month: 4, day: 31, expectedErr: task.ErrInvalidDate},
		{name: "error - год 0", description: "x", year: 0, month: 1, day: 1, expectedErr: task.ErrInvalidDate},
		{name: "error - час 24", description: "x", year: 2025, month: 1, day: 1, hour: 24, expectedErr: task.ErrInvalidTime},
		{name: "error - отрицательный час", description: "x", year: 2025, month: 1, day: 1, hour: -1, expectedErr: task.ErrInvalidTime},
		{name: "error - минута 60", description: "x", year: 2025, month: 1, day: 1, minute: 60, expectedErr: task.ErrInvalidTime},
		{name: "error - описание проверяется первым", description: "", year: 2025, month: 2, day: 30, hour: 99, expectedErr: task.ErrEmptyDescription},
		{name: "error - дата проверяется раньше времени", description: "x", year: 2025, month: 2, day: 30, hour: 99, expectedErr: task.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := task.ValidateInput(tt.description, tt.year, tt.month, tt.day, tt.hour, tt.minute)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, in.Year)
		})
	}
}

// TestValidateInput_Normalization тестирует нормализацию полей
func TestValidateInput_Normalization(t *testing.T) {
	in, err := task.ValidateInput("  Buy milk  ", 2025, 3, 7, 9, 5)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", in.Description)
	assert.Equal(t, "2025-03-07", in.Date())
	assert.Equal(t, "09:05", in.Time())
}

// TestValidateInput_CalendarRoundTrip сверяет каждый день с календарём time
func TestValidateInput_CalendarRoundTrip(t *testing.T) {
	for _, year := range []int{1900, 2000, 2023, 2024, 2100} {
		for month := 1; month <= 12; month++ {
			daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
			for day := 1; day <= 32; day++ {
				_, err := task.ValidateInput("x", year, month, day, 12, 0)
				if day <= daysInMonth {
					assert.NoError(t, err, "%04d-%02d-%02d", year, month, day)
				} else {
					assert.ErrorIs(t, err, task.ErrInvalidDate, "%04d-%02d-%02d", year, month, day)
				}
			}
		}
	}
}

// TestParsePriority тестирует разбор приоритета
func TestParsePriority(t *testing.T) {
	tests := []struct {
		input    string
		expected task.Priority
		wantErr  bool
	}{
		{input: "", expected: task.PriorityMedium},
		{input: "low", expected: task.PriorityLow},
		{input: "HIGH", expected: task.PriorityHigh},
		{input: " Medium ", expected: task.PriorityMedium},
		{input: "Tinggi", expected: task.PriorityHigh},
		{input: "rendah", expected: task.PriorityLow},
		{input: "Sedang", expected: task.PriorityMedium},
		{input: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := task.ParsePriority(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, task.ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}
