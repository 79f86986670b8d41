package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/models"
)

// PostgresTaskRepository implements task persistence using a PostgreSQL database.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository with
// the given database connection.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

// CreateTask inserts a new task record.
func (r *PostgresTaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, title, description, status, priority, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, task.ID, task.OwnerID, task.Title, task.Description, task.Status, task.Priority, task.Deadline, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("CreateTask: %w", err)
	}
	return nil
}

// ListTasksByOwner fetches all tasks for the specified owner, newest first.
func (r *PostgresTaskRepository) ListTasksByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, title, description, status, priority, deadline, created_at
		  FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListTasksByOwner: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Deadline, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTasksByOwner: %w", err)
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task by ID.
// Returns common.ErrNotFound if no such task exists.
func (r *PostgresTaskRepository) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, status, priority, deadline, created_at
		  FROM tasks WHERE id = $1
	`, id).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Deadline, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("GetTaskByID: %w", err)
	}
	return &t, nil
}

// UpdateTask overwrites the mutable fields of an existing task.
func (r *PostgresTaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE tasks
		   SET title = $2, description = $3, status = $4, priority = $5, deadline = $6
		 WHERE id = $1
	`, task.ID, task.Title, task.Description, task.Status, task.Priority, task.Deadline)
	if err != nil {
		return fmt.Errorf("UpdateTask: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteTask removes the task with the given ID.
func (r *PostgresTaskRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteTask: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
