package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/models"
)

// TaskRepository defines the persistence operations needed by the TaskService.
type TaskRepository interface {
	// CreateTask persists a new task.
	CreateTask(ctx context.Context, task *models.Task) error
	// ListTasksByOwner retrieves all tasks belonging to the given owner.
	ListTasksByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	// GetTaskByID fetches a single task, or common.ErrNotFound.
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	// UpdateTask overwrites the mutable fields of an existing task.
	UpdateTask(ctx context.Context, task *models.Task) error
	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error
}

// TaskService implements task CRUD with per-owner access control.
type TaskService struct {
	repo TaskRepository
}

// NewTaskService constructs a TaskService with the provided TaskRepository.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create stores a new task owned by ownerID. Missing status and
// priority default to todo/medium.
func (s *TaskService) Create(ctx context.Context, ownerID string, task models.Task) (*models.Task, error) {
	task.ID = uuid.NewString()
	task.OwnerID = ownerID
	task.CreatedAt = time.Now().UTC()
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := s.repo.CreateTask(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns all tasks owned by ownerID.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	return s.repo.ListTasksByOwner(ctx, ownerID)
}

// getOwned fetches a task and checks ownership. Existence is checked
// first: a missing task is common.ErrNotFound, a task owned by
// somebody else is common.ErrForbidden. The order matters for the
// 404-vs-403 distinction at the HTTP layer.
func (s *TaskService) getOwned(ctx context.Context, ownerID, id string) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, common.ErrForbidden
	}
	return task, nil
}

// Get returns a single task if it exists and is owned by ownerID.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	return s.getOwned(ctx, ownerID, id)
}

// Update overwrites the task's title, description, status, priority,
// and deadline after the ownership check.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, fields models.Task) (*models.Task, error) {
	task, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Title = fields.Title
	task.Description = fields.Description
	task.Status = fields.Status
	task.Priority = fields.Priority
	task.Deadline = fields.Deadline

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task after the ownership check.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, id)
}
