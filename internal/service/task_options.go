package service

import "time"

type Option func(*TaskService)

// WithClock подменяет источник текущего времени для created_date и completed_date
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}
