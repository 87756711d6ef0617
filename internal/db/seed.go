package db

import (
	"context"
	"errors"
	"time"

	"github.com/ferrante/taskhub/internal/config"
	"github.com/ferrante/taskhub/internal/domain/project"
	"github.com/ferrante/taskhub/internal/domain/task"
	"github.com/ferrante/taskhub/internal/domain/user"
	"github.com/ferrante/taskhub/internal/repo/postgres"
	"github.com/ferrante/taskhub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDemoData creates the demo account with two projects and their tasks.
// It is a no-op when the demo user already exists.
func SeedDemoData(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	// the login path looks up normalized emails only
	email := postgres.NormalizeEmail(cfg.SeedEmail)

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.SeedPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)

	if err != nil {
		return err
	}

	projects := []project.Project{
		{
			ID:          uuid.NewString(),
			OwnerID:     u.ID,
			Title:       "E-commerce Website",
			Description: "Build a modern e-commerce platform",
			Status:      project.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     u.ID,
			Title:       "Mobile App Development",
			Description: "Develop a cross-platform mobile app",
			Status:      project.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for _, p := range projects {
		_, err = pool.Exec(ctx,
			`INSERT INTO projects (id, owner_id, title, description, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.OwnerID, p.Title, p.Description, p.Status, p.CreatedAt, p.UpdatedAt,
		)

		if err != nil {
			return err
		}
	}

	due := func(s string) *time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return &t
	}

	tasks := []task.Task{
		{ProjectID: projects[0].ID, Title: "Setup project structure", Description: "Initialize the repo and folder layout", Status: task.StatusDone, Priority: task.PriorityHigh, DueDate: due("2024-01-15")},
		{ProjectID: projects[0].ID, Title: "Implement user authentication", Description: "Add login/register with JWT", Status: task.StatusInProgress, Priority: task.PriorityHigh, DueDate: due("2024-01-30")},
		{ProjectID: projects[0].ID, Title: "Build product catalog", Description: "Create product listing and detail pages", Status: task.StatusTodo, Priority: task.PriorityMedium, DueDate: due("2024-02-15")},
		{ProjectID: projects[1].ID, Title: "Project planning", Description: "Define requirements and create wireframes", Status: task.StatusDone, Priority: task.PriorityHigh, DueDate: due("2024-01-20")},
		{ProjectID: projects[1].ID, Title: "Design UI screens", Description: "Create mockups for the main screens", Status: task.StatusTodo, Priority: task.PriorityMedium, DueDate: due("2024-02-28")},
	}

	for _, t := range tasks {
		_, err = pool.Exec(ctx,
			`INSERT INTO tasks (id, project_id, title, description, status, priority, due_date, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			uuid.NewString(), t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, now, now,
		)

		if err != nil {
			return err
		}
	}

	return nil
}
