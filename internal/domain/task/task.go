package task

import (
	"errors"
	"time"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          string     `json:"_id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=120"`
	Description string     `json:"description" binding:"required,max=1000"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate" binding:"omitempty"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=120"`
	Description string     `json:"description" binding:"required,max=1000"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate" binding:"omitempty"`
}

// optional filter for listing a project's tasks
type ListTasksFilter struct {
	Status *string
}
