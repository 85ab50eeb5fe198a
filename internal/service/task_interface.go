package service

import (
	"context"

	"todoList/internal/models/task"
)

// TaskRepository - хранилище задач. Delete и Clear атомарны
// и оставляют id плотной последовательностью 1..N.
type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	GetByID(context.Context, int) (*task.Task, error)
	Update(context.Context, *task.Task) error
	Delete(context.Context, int) error
	Clear(context.Context) error
	List(context.Context) ([]*task.Task, error)
}
