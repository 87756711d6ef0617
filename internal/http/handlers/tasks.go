package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/domain/project"
	"github.com/ferrante/taskhub/internal/domain/task"
	"github.com/ferrante/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type TasksStore interface {
	Create(ctx context.Context, ownerID, projectID string, req task.CreateTaskRequest) (task.Task, error)
	ListByProject(ctx context.Context, projectID string, filter task.ListTasksFilter) ([]task.Task, error)
	GetByID(ctx context.Context, taskID, ownerID string) (task.Task, error)
	Update(ctx context.Context, taskID, ownerID string, req task.UpdateTaskRequest) (task.Task, error)
	Delete(ctx context.Context, taskID, ownerID string) error
}

// ProjectGetter is the slice of the projects store the task handlers need
// for the parent ownership check.
type ProjectGetter interface {
	GetByID(ctx context.Context, id, ownerID string) (project.Project, error)
}

type TasksHandler struct {
	repo     TasksStore
	projects ProjectGetter
}

func NewTasksHandler(repo TasksStore, projects ProjectGetter) *TasksHandler {
	return &TasksHandler{repo: repo, projects: projects}
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	projectID := ctx.Param("projectId")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// the parent must exist AND belong to the caller before any task is read
	_, err := h.projects.GetByID(cctx, projectID, ownerID)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	filter := task.ListTasksFilter{}

	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}

	tasks, err := h.repo.ListByProject(cctx, projectID, filter)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.repo.Create(cctx, ownerID, ctx.Param("projectId"), req)

	if err != nil {
		// covers both a missing project and someone else's project
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.repo.GetByID(cctx, ctx.Param("taskId"), ownerID)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	var req task.UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.repo.Update(cctx, ctx.Param("taskId"), ownerID, req)

	if err != nil {
		// a task id under someone else's project answers the same as a
		// missing task
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, ctx.Param("taskId"), ownerID)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
