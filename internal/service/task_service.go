package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	rep "todoList/internal/repository"
	"todoList/internal/view"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type CompleteResult string

const (
	Completed       CompleteResult = "completed"
	AlreadyComplete CompleteResult = "already_complete"
)

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository, options ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) AddTask(ctx context.Context, description, priority string, year, month, day, hour, minute int) (int, error) {
	in, err := task.ValidateInput(description, year, month, day, hour, minute)
	if err != nil {
		logger.Info("Service: Ошибка проверки ввода", zap.Error(err))
		return 0, NewValidationError(err)
	}

	p, err := task.ParsePriority(priority)
	if err != nil {
		logger.Info("Service: Ошибка проверки ввода", zap.Error(err), zap.String("priority", priority))
		return 0, NewValidationError(err)
	}

	newTask := task.New(task.WithInput(in), task.WithPriority(p))
	newTask.CreatedDate = task.FormatStamp(s.now())

	if err := s.repo.Create(ctx, newTask); err != nil {
		return 0, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int("task_id", newTask.ID))
	return newTask.ID, nil
}

// EditTask меняет только описание и дедлайн
func (s *TaskService) EditTask(ctx context.Context, id int, description string, year, month, day, hour, minute int) error {
	existing, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	in, err := task.ValidateInput(description, year, month, day, hour, minute)
	if err != nil {
		logger.Info("Service: Ошибка проверки ввода", zap.Error(err), zap.Int("task_id", id))
		return NewValidationError(err)
	}

	task.WithInput(in)(existing)

	if err := s.repo.Update(ctx, existing); err != nil {
		return s.wrap(err, id, "обновление задачи")
	}
	return nil
}

// CompleteTask необратим; повторный вызов ничего не пишет и возвращает AlreadyComplete
func (s *TaskService) CompleteTask(ctx context.Context, id int) (CompleteResult, error) {
	existing, err := s.getTask(ctx, id)
	if err != nil {
		return "", err
	}

	if existing.IsDone() {
		logger.Info("Service: Задача уже выполнена", zap.Int("task_id", id))
		return AlreadyComplete, nil
	}

	task.WithCompleted(task.FormatStamp(s.now()))(existing)

	if err := s.repo.Update(ctx, existing); err != nil {
		return "", s.wrap(err, id, "завершение задачи")
	}
	return Completed, nil
}

// SetNotes перезаписывает заметки; пустая строка их очищает
func (s *TaskService) SetNotes(ctx context.Context, id int, notes string) error {
	existing, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	task.WithNotes(notes)(existing)

	if err := s.repo.Update(ctx, existing); err != nil {
		return s.wrap(err, id, "обновление заметок")
	}
	return nil
}

func (s *TaskService) GetNotes(ctx context.Context, id int) (string, error) {
	existing, err := s.getTask(ctx, id)
	if err != nil {
		return "", err
	}
	return existing.Notes, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, id, "удаление задачи")
	}
	logger.Info("Service: Задача удалена", zap.Int("task_id", id))
	return nil
}

func (s *TaskService) ClearAll(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("очистка задач: %w", err)
	}
	logger.Info("Service: Все задачи удалены")
	return nil
}

func (s *TaskService) GetTask(ctx context.Context, id int) (*task.Task, error) {
	return s.getTask(ctx, id)
}

// ListTasks возвращает задачи в порядке id
func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetView(ctx context.Context, now time.Time) (view.View, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return view.View{}, err
	}
	return view.Project(tasks, now), nil
}

func (s *TaskService) getTask(ctx context.Context, id int) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, id, "получение задачи")
	}
	return t, nil
}

func (s *TaskService) wrap(err error, id int, operation string) error {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: Задача не найдена", zap.Int("target_id", id))
		return NewNotFound(id)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
