// Package models defines the core data structures for users and tasks.
package models

import "time"

// User represents an application user with credentials and profile fields.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user. Immutable after registration.
	Username string
	// Name is the optional display name.
	Name string
	// Email is the unique contact address.
	Email string
	// Phone is the optional contact number.
	Phone string
	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized or logged.
	PasswordHash string
	// CreatedAt is the registration timestamp (UTC).
	CreatedAt time.Time
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	// ID is the unique identifier for the task.
	ID string `json:"id"`
	// OwnerID references the user the task belongs to.
	OwnerID string `json:"owner_id"`
	// Title is the short task summary.
	Title string `json:"title"`
	// Description holds the free-form task body.
	Description string `json:"description"`
	// Status is the workflow state of the task.
	Status TaskStatus `json:"status"`
	// Priority ranks the task's urgency.
	Priority TaskPriority `json:"priority"`
	// Deadline is the optional due date.
	Deadline *time.Time `json:"deadline"`
	// CreatedAt is the creation timestamp (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// TaskStatus defines the set of valid task workflow states.
type TaskStatus string

const (
	// StatusTodo marks a task that has not been started.
	StatusTodo TaskStatus = "todo"
	// StatusInProgress marks a task being worked on.
	StatusInProgress TaskStatus = "in_progress"
	// StatusCompleted marks a finished task.
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the defined task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority defines the set of valid task priority levels.
type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Valid reports whether p is one of the defined task priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
