package project

import (
	"errors"
	"time"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// ErrNotFound covers both true absence and another owner's project, so a
// caller can never tell the two apart.
var ErrNotFound = errors.New("project not found")

type Project struct {
	ID          string    `json:"_id"`
	OwnerID     string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"required,max=1000"`
	Status      string `json:"status" binding:"omitempty,oneof=active completed"`
}

// a full update payload, same shape as create.
type UpdateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"required,max=1000"`
	Status      string `json:"status" binding:"omitempty,oneof=active completed"`
}
