package inmemory

import (
	"context"
	"sync"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"

	"go.uber.org/zap"
)

// TaskStorage держит задачи в памяти процесса, порядок хранения - по id
type TaskStorage struct {
	tasks  []*task.Task
	nextID int
	mtx    *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		tasks:  []*task.Task{},
		nextID: 1,
		mtx:    &sync.RWMutex{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.ID = s.nextID
	s.nextID++

	s.tasks = append(s.tasks, clone(taskToCreate))
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, repo.ErrNotFound
	}
	return clone(s.tasks[i]), nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	i := s.indexOf(taskToUpdate.ID)
	if i < 0 {
		return repo.ErrNotFound
	}

	// created_date не меняется после создания
	updated := clone(taskToUpdate)
	updated.CreatedDate = s.tasks[i].CreatedDate
	s.tasks[i] = updated
	return nil
}

func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		res = append(res, clone(t))
	}
	return res, nil
}

// Delete удаляет задачу и перенумеровывает остальные 1..N под одной блокировкой
func (s *TaskStorage) Delete(ctx context.Context, id int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return repo.ErrNotFound
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.nextID = 1
	for _, t := range s.tasks {
		t.ID = s.nextID
		s.nextID++
	}

	logger.Info("Repository: Задачи перенумерованы", zap.Int("count", len(s.tasks)))
	return nil
}

func (s *TaskStorage) Clear(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.tasks = []*task.Task{}
	s.nextID = 1
	return nil
}

func (s *TaskStorage) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// наружу отдаём копии, чтобы вызывающий код не менял хранилище в обход Update
func clone(t *task.Task) *task.Task {
	c := *t
	if t.CompletedDate != nil {
		completed := *t.CompletedDate
		c.CompletedDate = &completed
	}
	return &c
}
