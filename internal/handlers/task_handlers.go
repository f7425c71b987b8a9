package handlers

import (
	"net/http"
	"strconv"
	"time"

	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/logger"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	base
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService, development bool) *TaskHandler {
	return &TaskHandler{
		base:        base{development: development},
		TaskService: taskService,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var filter task.Filter

	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "completed"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithErrors(w, http.StatusBadRequest, []string{"completed must be true or false"})
			return
		}
		filter.Completed = &completed
	}

	if raw := r.URL.Query().Get("goalId"); raw != "" {
		goalID, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "goalId"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithErrors(w, http.StatusBadRequest, []string{"goalId must be a valid id"})
			return
		}
		filter.GoalID = &goalID
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		h.fail(w, err, "Failed to fetch tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "task")
	if !ok {
		return
	}

	found, err := h.TaskService.GetTask(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to fetch task")
		return
	}
	responseWithData(w, http.StatusOK, found)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задачи")
	created, err := h.TaskService.CreateTask(r.Context(), request.ToTask())
	if err != nil {
		h.fail(w, err, "Failed to create task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "task")
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), id, request.Options()...)
	if err != nil {
		h.fail(w, err, "Failed to update task")
		return
	}
	responseWithData(w, http.StatusOK, updated)
}

func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "task")
	if !ok {
		return
	}

	toggled, err := h.TaskService.ToggleTask(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to toggle task")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи переключён",
		zap.String("task_id", id.String()),
		zap.Bool("completed", toggled.Completed))
	responseWithData(w, http.StatusOK, toggled)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "task")
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		h.fail(w, err, "Failed to delete task")
		return
	}
	responseWithData(w, http.StatusOK, struct{}{})
}
