// Package http provides HTTP handlers for owner-scoped task CRUD.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/middleware"
	"github.com/avelichko/taskkeeper/internal/models"
)

// TaskService defines the interface for task operations required by
// the TaskHandler. Every operation on an existing task performs the
// ownership check internally.
type TaskService interface {
	Create(ctx context.Context, ownerID string, task models.Task) (*models.Task, error)
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Get(ctx context.Context, ownerID, id string) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, fields models.Task) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TaskHandler handles HTTP requests for the /tasks resource.
type TaskHandler struct {
	TaskService TaskService
}

// TaskRequest represents the JSON payload for creating or updating a task.
type TaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Deadline    *time.Time          `json:"deadline"`
}

// validate checks the request fields shared by create and update.
func (req *TaskRequest) validate() string {
	if req.Title == "" {
		return "title is required"
	}
	if req.Status != "" && !req.Status.Valid() {
		return "invalid status"
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return "invalid priority"
	}
	return ""
}

func (req *TaskRequest) toTask() models.Task {
	return models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	}
}

// writeTaskError maps service errors for an existing task to HTTP
// statuses: absent → 404, owned by somebody else → 403.
func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, common.ErrForbidden):
		http.Error(w, "not authorized to access this task", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	task, err := h.TaskService.Create(r.Context(), user.ID, req.toTask())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// List handles GET /tasks, returning all tasks of the authenticated user.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	tasks, err := h.TaskService.List(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	task, err := h.TaskService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /tasks/{id}, replacing the task's mutable fields.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	fields := req.toTask()
	if fields.Status == "" {
		fields.Status = models.StatusTodo
	}
	if fields.Priority == "" {
		fields.Priority = models.PriorityMedium
	}

	task, err := h.TaskService.Update(r.Context(), user.ID, chi.URLParam(r, "id"), fields)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	if err := h.TaskService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
