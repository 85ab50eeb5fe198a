package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"todoList/internal/models/task"
	"todoList/internal/repository"
	"todoList/internal/repository/task/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SQLiteTestSuite гоняет хранилище на настоящем файле во временной папке
type SQLiteTestSuite struct {
	suite.Suite
	storage *sqlite.Storage
	path    string
	ctx     context.Context
}

func (s *SQLiteTestSuite) SetupTest() {
	s.ctx = context.Background()

	s.path = filepath.Join(s.T().TempDir(), "todo_list.db")
	storage, err := sqlite.New(s.ctx, s.path)
	require.NoError(s.T(), err)
	require.NoError(s.T(), storage.Migrate(s.ctx))
	s.storage = storage
}

func (s *SQLiteTestSuite) TearDownTest() {
	if s.storage != nil {
		s.storage.Close()
	}
}

func TestSQLiteTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteTestSuite))
}

func (s *SQLiteTestSuite) create(description, date, clock string) *task.Task {
	t := task.New(
		task.WithDescription(description),
		task.WithDeadline(date, clock),
	)
	t.CreatedDate = "2024-12-31 09:00"
	require.NoError(s.T(), s.storage.Create(s.ctx, t))
	return t
}

func (s *SQLiteTestSuite) ids() []int {
	tasks, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)

	ids := make([]int, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// execExternal выполняет SQL через отдельное соединение с тем же файлом
func (s *SQLiteTestSuite) execExternal(query string) {
	db, err := sql.Open("sqlite", "file:"+s.path+"?_pragma=busy_timeout(5000)")
	require.NoError(s.T(), err)
	defer db.Close()

	_, err = db.ExecContext(s.ctx, query)
	require.NoError(s.T(), err)
}

func (s *SQLiteTestSuite) descriptions() []string {
	tasks, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)

	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Description)
	}
	return out
}

func (s *SQLiteTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

func (s *SQLiteTestSuite) TestStorage_MigrateTwice() {
	assert.NoError(s.T(), s.storage.Migrate(s.ctx))
}

func (s *SQLiteTestSuite) TestStorage_Create() {
	first := s.create("Buy milk", "2025-01-01", "10:00")
	second := s.create("Call mom", "2025-01-02", "11:30")

	assert.Equal(s.T(), 1, first.ID)
	assert.Equal(s.T(), 2, second.ID)

	got, err := s.storage.GetByID(s.ctx, first.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Buy milk", got.Description)
	assert.Equal(s.T(), task.PriorityMedium, got.Priority)
	assert.Equal(s.T(), task.StatusPending, got.Status)
	assert.Equal(s.T(), "2024-12-31 09:00", got.CreatedDate)
	assert.Nil(s.T(), got.CompletedDate)
	assert.Equal(s.T(), "2025-01-01", got.DeadlineDate)
	assert.Equal(s.T(), "10:00", got.DeadlineTime)
	assert.Equal(s.T(), "", got.Notes)
}

func (s *SQLiteTestSuite) TestStorage_GetByID_NotFound() {
	_, err := s.storage.GetByID(s.ctx, 42)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *SQLiteTestSuite) TestStorage_Update() {
	t := s.create("Buy milk", "2025-01-01", "10:00")

	task.WithCompleted("2025-01-01 09:00")(t)
	task.WithNotes("2% milk")(t)
	require.NoError(s.T(), s.storage.Update(s.ctx, t))

	got, err := s.storage.GetByID(s.ctx, t.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), task.StatusDone, got.Status)
	require.NotNil(s.T(), got.CompletedDate)
	assert.Equal(s.T(), "2025-01-01 09:00", *got.CompletedDate)
	assert.Equal(s.T(), "2% milk", got.Notes)
	assert.Equal(s.T(), "2024-12-31 09:00", got.CreatedDate)
}

func (s *SQLiteTestSuite) TestStorage_Update_NotFound() {
	t := task.New(task.WithDescription("ghost"))
	t.ID = 7

	err := s.storage.Update(s.ctx, t)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *SQLiteTestSuite) TestStorage_Delete_Compacts() {
	s.create("first", "2025-01-03", "10:00")
	second := s.create("second", "2025-01-01", "10:00")
	s.create("third", "2025-01-02", "10:00")
	s.create("fourth", "2025-01-04", "10:00")

	task.WithNotes("keep me")(second)
	task.WithCompleted("2025-01-01 08:00")(second)
	require.NoError(s.T(), s.storage.Update(s.ctx, second))

	require.NoError(s.T(), s.storage.Delete(s.ctx, 1))

	tasks, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 3)

	assert.Equal(s.T(), []int{1, 2, 3}, s.ids())
	assert.Equal(s.T(), "second", tasks[0].Description)
	assert.Equal(s.T(), "third", tasks[1].Description)
	assert.Equal(s.T(), "fourth", tasks[2].Description)

	// остальные поля переносятся без изменений
	assert.Equal(s.T(), "keep me", tasks[0].Notes)
	assert.Equal(s.T(), task.StatusDone, tasks[0].Status)
	require.NotNil(s.T(), tasks[0].CompletedDate)
	assert.Equal(s.T(), "2025-01-01 08:00", *tasks[0].CompletedDate)
	assert.Equal(s.T(), "2024-12-31 09:00", tasks[0].CreatedDate)
	assert.Equal(s.T(), "2025-01-01", tasks[0].DeadlineDate)

	next := s.create("fifth", "2025-01-05", "10:00")
	assert.Equal(s.T(), 4, next.ID)
}

func (s *SQLiteTestSuite) TestStorage_Delete_Middle() {
	s.create("a", "2025-01-01", "10:00")
	s.create("b", "2025-01-01", "10:00")
	s.create("c", "2025-01-01", "10:00")

	require.NoError(s.T(), s.storage.Delete(s.ctx, 2))

	tasks, err := s.storage.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 2)
	assert.Equal(s.T(), 1, tasks[0].ID)
	assert.Equal(s.T(), "a", tasks[0].Description)
	assert.Equal(s.T(), 2, tasks[1].ID)
	assert.Equal(s.T(), "c", tasks[1].Description)
}

func (s *SQLiteTestSuite) TestStorage_Delete_Last() {
	s.create("only", "2025-01-01", "10:00")

	require.NoError(s.T(), s.storage.Delete(s.ctx, 1))
	assert.Empty(s.T(), s.ids())

	next := s.create("again", "2025-01-01", "10:00")
	assert.Equal(s.T(), 1, next.ID)
}

func (s *SQLiteTestSuite) TestStorage_Delete_NotFound() {
	s.create("a", "2025-01-01", "10:00")
	s.create("b", "2025-01-01", "10:00")

	err := s.storage.Delete(s.ctx, 5)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
	assert.Equal(s.T(), []int{1, 2}, s.ids())
}

func (s *SQLiteTestSuite) TestStorage_Delete_RollsBackOnFailedReinsert() {
	s.create("a", "2025-01-01", "10:00")
	s.create("b", "2025-01-02", "10:00")
	s.create("boom", "2025-01-03", "10:00")

	s.execExternal(`CREATE TRIGGER reject_boom BEFORE INSERT ON tasks
		WHEN NEW.task = 'boom'
		BEGIN SELECT RAISE(ABORT, 'boom'); END`)

	err := s.storage.Delete(s.ctx, 1)
	require.Error(s.T(), err)
	assert.NotErrorIs(s.T(), err, repository.ErrNotFound)

	assert.Equal(s.T(), []int{1, 2, 3}, s.ids())
	assert.Equal(s.T(), []string{"a", "b", "boom"}, s.descriptions())

	s.execExternal(`DROP TRIGGER reject_boom`)
	next := s.create("c", "2025-01-04", "10:00")
	assert.Equal(s.T(), 4, next.ID)
}

func (s *SQLiteTestSuite) TestStorage_Clear_RollsBackOnFailure() {
	s.create("a", "2025-01-01", "10:00")
	s.create("b", "2025-01-02", "10:00")

	s.execExternal(`CREATE TRIGGER keep_b BEFORE DELETE ON tasks
		WHEN OLD.task = 'b'
		BEGIN SELECT RAISE(ABORT, 'keep b'); END`)

	require.Error(s.T(), s.storage.Clear(s.ctx))
	assert.Equal(s.T(), []int{1, 2}, s.ids())
	assert.Equal(s.T(), []string{"a", "b"}, s.descriptions())
}

func (s *SQLiteTestSuite) TestStorage_Clear() {
	s.create("a", "2025-01-01", "10:00")
	s.create("b", "2025-01-01", "10:00")

	require.NoError(s.T(), s.storage.Clear(s.ctx))
	assert.Empty(s.T(), s.ids())

	next := s.create("c", "2025-01-01", "10:00")
	assert.Equal(s.T(), 1, next.ID)
}

func (s *SQLiteTestSuite) TestStorage_Clear_Empty() {
	assert.NoError(s.T(), s.storage.Clear(s.ctx))
}

func (s *SQLiteTestSuite) TestStorage_Persistence() {
	path := filepath.Join(s.T().TempDir(), "reopen.db")

	first, err := sqlite.New(s.ctx, path)
	require.NoError(s.T(), err)
	require.NoError(s.T(), first.Migrate(s.ctx))

	t := task.New(task.WithDescription("persisted"), task.WithDeadline("2025-01-01", "10:00"))
	t.CreatedDate = "2024-12-31 09:00"
	require.NoError(s.T(), first.Create(s.ctx, t))
	first.Close()

	second, err := sqlite.New(s.ctx, path)
	require.NoError(s.T(), err)
	defer second.Close()
	require.NoError(s.T(), second.Migrate(s.ctx))

	got, err := second.GetByID(s.ctx, t.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "persisted", got.Description)
}
