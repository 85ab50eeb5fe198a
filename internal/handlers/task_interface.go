package handlers

import (
	"context"
	"time"

	"todoList/internal/service"
	"todoList/internal/view"
)

type Service interface {
	HealthCheck(ctx context.Context) error
	AddTask(ctx context.Context, description, priority string, year, month, day, hour, minute int) (int, error)
	EditTask(ctx context.Context, id int, description string, year, month, day, hour, minute int) error
	CompleteTask(ctx context.Context, id int) (service.CompleteResult, error)
	SetNotes(ctx context.Context, id int, notes string) error
	GetNotes(ctx context.Context, id int) (string, error)
	DeleteTask(ctx context.Context, id int) error
	ClearAll(ctx context.Context) error
	GetView(ctx context.Context, now time.Time) (view.View, error)
}

var _ Service = (*service.TaskService)(nil)
