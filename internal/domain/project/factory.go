package project

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateProjectRequest) Project {
	now := time.Now().UTC()

	status := req.Status

	// status is optional on create, active is the fallback
	if status == "" {
		status = StatusActive
	}

	return Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
