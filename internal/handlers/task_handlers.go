package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"todoList/internal/handlers/dto"
	"todoList/internal/logger"

	"go.uber.org/zap"
)

const serviceName = "todo-list"

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// GetView отдаёт задачи, отсортированные по дедлайну, с тегами и сводкой.
// Параметр now (RFC3339) задаёт момент, относительно которого считается просрочка.
// Дедлайны хранятся в местном времени, поэтому now переводится в time.Local.
func (s *TaskHandler) GetView(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	now := time.Now()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Warn("HTTP: Ошибка получения параметра",
				zap.String("query", "now"),
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение now: ожидается RFC3339")
			return
		}
		now = parsed.In(time.Local)
	}

	v, err := s.TaskService.GetView(r.Context(), now)
	if err != nil {
		respondServiceError(w, r, err, "get_view")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(v.Rows)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromView(v))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задач")
	id, err := s.TaskService.AddTask(r.Context(), request.Description, request.Priority,
		request.Year, request.Month, request.Day, request.Hour, request.Minute)
	if err != nil {
		respondServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("id", id))
}

func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var request dto.EditTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	err := s.TaskService.EditTask(r.Context(), id, request.Description,
		request.Year, request.Month, request.Day, request.Hour, request.Minute)
	if err != nil {
		respondServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("id", id))
}

func (s *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	result, err := s.TaskService.CompleteTask(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "complete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача завершена",
		zap.Int("task_id", id),
		zap.String("result", string(result)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("result", result))
}

func (s *TaskHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	notes, err := s.TaskService.GetNotes(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "get_notes")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("id", id), toPayload("notes", notes))
}

func (s *TaskHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var request dto.NotesRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := s.TaskService.SetNotes(r.Context(), id, request.Notes); err != nil {
		respondServiceError(w, r, err, "set_notes")
		return
	}

	logger.Info("HTTP_OUT: Заметки сохранены",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("id", id))
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) ClearTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if err := s.TaskService.ClearAll(r.Context()); err != nil {
		respondServiceError(w, r, err, "clear_tasks")
		return
	}

	logger.Info("HTTP_OUT: Все задачи удалены",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("service", serviceName),
			toPayload("status", "unavailable"),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("service", serviceName),
		toPayload("status", "ok"),
	)
}

func idFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := parseID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}
