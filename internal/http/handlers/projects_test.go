package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ferrante/taskhub/internal/domain/project"
	"github.com/ferrante/taskhub/internal/domain/user"
	"github.com/ferrante/taskhub/internal/http/handlers"
	"github.com/google/uuid"
)

// Fake store implementing the handlers.ProjectsStore interface

type fakeProjectsRepo struct {
	createFn func(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error)
	listFn   func(ctx context.Context, ownerID string) ([]project.Project, error)
	getFn    func(ctx context.Context, id, ownerID string) (project.Project, error)
	updateFn func(ctx context.Context, id, ownerID string, req project.UpdateProjectRequest) (project.Project, error)
	deleteFn func(ctx context.Context, id, ownerID string) error
}

func (f *fakeProjectsRepo) Create(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error) {
	if f.createFn != nil {
		return f.createFn(ctx, ownerID, req)
	}

	return project.NewFromCreateRequest(ownerID, req), nil
}

func (f *fakeProjectsRepo) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	if f.listFn != nil {
		return f.listFn(ctx, ownerID)
	}

	return []project.Project{}, nil
}

func (f *fakeProjectsRepo) GetByID(ctx context.Context, id, ownerID string) (project.Project, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id, ownerID)
	}

	return project.Project{}, project.ErrNotFound
}

func (f *fakeProjectsRepo) Update(ctx context.Context, id, ownerID string, req project.UpdateProjectRequest) (project.Project, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, ownerID, req)
	}

	return project.Project{}, project.ErrNotFound
}

func (f *fakeProjectsRepo) Delete(ctx context.Context, id, ownerID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id, ownerID)
	}

	return project.ErrNotFound
}

func testOwner() user.User {
	return user.User{ID: uuid.NewString(), Email: "owner@example.com"}
}

func TestCreateProject(t *testing.T) {
	owner := testOwner()

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeProjectsRepo)
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"title":"P","description":"D","status":"active"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "status_defaults_to_active",
			body:           `{"title":"P","description":"D"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "validation_error",
			body:           `{"title":""}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "bad_status",
			body:           `{"title":"P","description":"D","status":"archived"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"title":"P","description":"D"}`,
			repoSetUp: func(f *fakeProjectsRepo) {
				f.createFn = func(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error) {
					return project.Project{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeProjectsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewProjectsHandler(repo, nil)

			r := setupRouter(http.MethodPost, "/api/projects", h.CreateProject, asIdentity(owner))

			w := doJSON(r, http.MethodPost, "/api/projects", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.name == "status_defaults_to_active" {
				var p project.Project

				if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
					t.Fatalf("bad response json: %v", err)
				}

				if p.Status != project.StatusActive {
					t.Fatalf("got status %q, want %q", p.Status, project.StatusActive)
				}
			}
		})
	}
}

func TestListProjectsReturnsBareArray(t *testing.T) {
	owner := testOwner()

	repo := &fakeProjectsRepo{
		listFn: func(ctx context.Context, ownerID string) ([]project.Project, error) {
			if ownerID != owner.ID {
				t.Errorf("listed with owner %q, want %q", ownerID, owner.ID)
			}

			return []project.Project{
				{ID: uuid.NewString(), OwnerID: ownerID, Title: "A", Status: project.StatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()},
				{ID: uuid.NewString(), OwnerID: ownerID, Title: "B", Status: project.StatusCompleted, CreatedAt: time.Now(), UpdatedAt: time.Now()},
			}, nil
		},
	}

	h := handlers.NewProjectsHandler(repo, nil)

	r := setupRouter(http.MethodGet, "/api/projects", h.ListProjects, asIdentity(owner))

	w := doJSON(r, http.MethodGet, "/api/projects", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var out []project.Project

	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("expected a bare array, got %s", w.Body.String())
	}

	if len(out) != 2 {
		t.Fatalf("got %d projects, want 2", len(out))
	}
}

// Cross-owner access must read exactly like a missing project.

func TestGetProjectNotFoundForOtherOwner(t *testing.T) {
	owner := testOwner()
	otherProject := project.Project{ID: uuid.NewString(), OwnerID: uuid.NewString(), Title: "theirs"}

	repo := &fakeProjectsRepo{
		getFn: func(ctx context.Context, id, ownerID string) (project.Project, error) {
			// the store is owner-scoped: someone else's row never comes back
			if id == otherProject.ID && ownerID == otherProject.OwnerID {
				return otherProject, nil
			}

			return project.Project{}, project.ErrNotFound
		},
	}

	h := handlers.NewProjectsHandler(repo, nil)

	r := setupRouter(http.MethodGet, "/api/projects/:id", h.GetProject, asIdentity(owner))

	w := doJSON(r, http.MethodGet, "/api/projects/"+otherProject.ID, "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	if strings.Contains(w.Body.String(), "Forbidden") || strings.Contains(w.Body.String(), "forbidden") {
		t.Fatalf("existence leaked: %s", w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "Project not found") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestUpdateProject(t *testing.T) {
	owner := testOwner()

	repo := &fakeProjectsRepo{
		updateFn: func(ctx context.Context, id, ownerID string, req project.UpdateProjectRequest) (project.Project, error) {
			return project.Project{ID: id, OwnerID: ownerID, Title: req.Title, Description: req.Description, Status: req.Status}, nil
		},
	}

	h := handlers.NewProjectsHandler(repo, nil)

	r := setupRouter(http.MethodPut, "/api/projects/:id", h.UpdateProject, asIdentity(owner))

	w := doJSON(r, http.MethodPut, "/api/projects/"+uuid.NewString(), `{"title":"New","description":"D","status":"completed"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var p project.Project

	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("bad response json: %v", err)
	}

	if p.Title != "New" || p.Status != project.StatusCompleted {
		t.Fatalf("unexpected project: %+v", p)
	}
}

func TestDeleteProject(t *testing.T) {
	owner := testOwner()

	t.Run("success", func(t *testing.T) {
		repo := &fakeProjectsRepo{
			deleteFn: func(ctx context.Context, id, ownerID string) error {
				return nil
			},
		}

		h := handlers.NewProjectsHandler(repo, nil)

		r := setupRouter(http.MethodDelete, "/api/projects/:id", h.DeleteProject, asIdentity(owner))

		w := doJSON(r, http.MethodDelete, "/api/projects/"+uuid.NewString(), "")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if !strings.Contains(w.Body.String(), "Project deleted successfully") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("not_found", func(t *testing.T) {
		repo := &fakeProjectsRepo{}

		h := handlers.NewProjectsHandler(repo, nil)

		r := setupRouter(http.MethodDelete, "/api/projects/:id", h.DeleteProject, asIdentity(owner))

		w := doJSON(r, http.MethodDelete, "/api/projects/"+uuid.NewString(), "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}
	})
}
