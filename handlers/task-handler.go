package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
	"github.com/priyen27/taskflow360-backend/services"
)

// TaskRegistry is the slice of TaskService the handlers need.
type TaskRegistry interface {
	CreateTask(ctx context.Context, identity auth.Identity, in services.CreateTaskInput) (*models.Task, error)
	TasksByProject(ctx context.Context, identity auth.Identity, projectID string) ([]models.Task, error)
	TaskByID(ctx context.Context, identity auth.Identity, taskID string) (*models.Task, error)
	UpdateTask(ctx context.Context, identity auth.Identity, taskID string, patch services.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, identity auth.Identity, taskID string) error
}

type TaskHandler struct {
	Service TaskRegistry
}

func NewTaskHandler(service TaskRegistry) *TaskHandler {
	return &TaskHandler{Service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	task, err := h.Service.CreateTask(r.Context(), identity, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tasks, err := h.Service.TasksByProject(r.Context(), identity, mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.Service.TaskByID(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch services.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), identity, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Service.DeleteTask(r.Context(), identity, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted"})
}
