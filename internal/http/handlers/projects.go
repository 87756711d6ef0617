package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ferrante/taskhub/internal/cache"
	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/domain/project"
	"github.com/ferrante/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ProjectsStore interface {
	Create(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error)
	GetByID(ctx context.Context, id, ownerID string) (project.Project, error)
	Update(ctx context.Context, id, ownerID string, req project.UpdateProjectRequest) (project.Project, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type ProjectsHandler struct {
	repo      ProjectsStore
	listCache *cache.ProjectListCache
}

func NewProjectsHandler(repo ProjectsStore, listCache *cache.ProjectListCache) *ProjectsHandler {
	return &ProjectsHandler{repo: repo, listCache: listCache}
}

func (h *ProjectsHandler) ListProjects(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	var cached []project.Project

	if h.listCache.Get(cctx, ownerID, &cached) {
		ctx.JSON(http.StatusOK, cached)
		return
	}

	projects, err := h.repo.ListByOwner(cctx, ownerID)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	h.listCache.Set(cctx, ownerID, projects)

	ctx.JSON(http.StatusOK, projects)
}

func (h *ProjectsHandler) CreateProject(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	var req project.CreateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.repo.Create(cctx, ownerID, req)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	h.listCache.Invalidate(cctx, ownerID)

	ctx.JSON(http.StatusCreated, p)
}

func (h *ProjectsHandler) GetProject(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, ctx.Param("id"), ownerID)

	if err != nil {
		// cross-owner access reads exactly like absence
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) UpdateProject(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	var req project.UpdateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.repo.Update(cctx, ctx.Param("id"), ownerID, req)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	h.listCache.Invalidate(cctx, ownerID)

	ctx.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) DeleteProject(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "INVALID_TOKEN", "Invalid token")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, ctx.Param("id"), ownerID)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, "Project not found")
			return
		}

		RespondInternal(ctx)
		return
	}

	h.listCache.Invalidate(cctx, ownerID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
