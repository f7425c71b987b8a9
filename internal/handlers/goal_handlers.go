package handlers

import (
	"net/http"

	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/logger"

	"go.uber.org/zap"
)

type GoalHandler struct {
	base
	GoalService GoalService
}

func NewGoalHandler(goalService GoalService, development bool) *GoalHandler {
	return &GoalHandler{
		base:        base{development: development},
		GoalService: goalService,
	}
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	goals, err := h.GoalService.ListGoals(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to fetch goals")
		return
	}
	responseWithList(w, goals)
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "goal")
	if !ok {
		return
	}

	found, err := h.GoalService.GetGoal(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to fetch goal")
		return
	}
	responseWithData(w, http.StatusOK, found)
}

func (h *GoalHandler) GoalTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "goal")
	if !ok {
		return
	}

	tasks, err := h.GoalService.GoalTasks(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to fetch goal tasks")
		return
	}
	responseWithList(w, tasks)
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateGoalRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.GoalService.CreateGoal(r.Context(), request.ToGoal())
	if err != nil {
		h.fail(w, err, "Failed to create goal")
		return
	}

	logger.Info("HTTP_OUT: Цель создана", zap.String("goal_id", created.ID.String()))
	responseWithData(w, http.StatusCreated, created)
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "goal")
	if !ok {
		return
	}

	var request dto.UpdateGoalRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.GoalService.UpdateGoal(r.Context(), id, request.Options()...)
	if err != nil {
		h.fail(w, err, "Failed to update goal")
		return
	}
	responseWithData(w, http.StatusOK, updated)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "goal")
	if !ok {
		return
	}

	if err := h.GoalService.DeleteGoal(r.Context(), id); err != nil {
		h.fail(w, err, "Failed to delete goal")
		return
	}

	logger.Info("HTTP_OUT: Цель удалена", zap.String("goal_id", id.String()))
	responseWithData(w, http.StatusOK, struct{}{})
}
