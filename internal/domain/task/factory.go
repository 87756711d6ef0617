package task

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(projectID string, req CreateTaskRequest) Task {
	now := time.Now().UTC()

	status := req.Status

	if status == "" {
		status = StatusTodo
	}

	priority := req.Priority

	// priority falls back to medium when the client leaves it out
	if priority == "" {
		priority = PriorityMedium
	}

	return Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
