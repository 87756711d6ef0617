package postgres

import (
	"context"
	"errors"

	"github.com/ferrante/taskhub/internal/domain/project"
	"github.com/ferrante/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProjectsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProjectsRepo {
	return &ProjectsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProjectsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProjectsRepo) Create(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error) {
	p := project.NewFromCreateRequest(ownerID, req)

	err := r.observe("projects.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO projects(id, owner_id, title, description, status, created_at, updated_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.OwnerID, p.Title, p.Description, p.Status, p.CreatedAt, p.UpdatedAt)
		return err
	})

	if err != nil {
		return project.Project{}, err
	}

	return p, nil
}

func (r *ProjectsRepo) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	var out []project.Project

	err := r.observe("projects.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, owner_id, title, description, status, created_at, updated_at
			 FROM projects
			 WHERE owner_id = $1
			 ORDER BY created_at DESC`,
			ownerID)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]project.Project, 0)

		for rows.Next() {
			var p project.Project

			err = rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetByID is owner-scoped: another owner's project reads as not found.
func (r *ProjectsRepo) GetByID(ctx context.Context, id, ownerID string) (project.Project, error) {
	var p project.Project

	err := r.observe("projects.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, owner_id, title, description, status, created_at, updated_at
			 FROM projects
			 WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		).Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, err
	}

	return p, nil
}

func (r *ProjectsRepo) Update(ctx context.Context, id, ownerID string, req project.UpdateProjectRequest) (project.Project, error) {
	var p project.Project

	err := r.observe("projects.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE projects
				SET title = $3,
						description = $4,
						status = COALESCE(NULLIF($5, ''), status),
						updated_at = NOW()
			WHERE id = $1 AND owner_id = $2
			RETURNING id, owner_id, title, description, status, created_at, updated_at`,
			id,
			ownerID,
			req.Title,
			req.Description,
			req.Status,
		).Scan(
			&p.ID,
			&p.OwnerID,
			&p.Title,
			&p.Description,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})

	if err != nil {
		// no rows matching id + owner
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}

		return project.Project{}, err
	}

	return p, nil
}

// Delete removes an owned project and all of its tasks in one transaction,
// so no orphaned task can stay reachable.
func (r *ProjectsRepo) Delete(ctx context.Context, id, ownerID string) error {
	return r.observe("projects.delete", func() error {
		tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

		if err != nil {
			return err
		}

		defer func() { _ = tx.Rollback(ctx) }()

		// children first because of the FK; the rollback covers the case
		// where the project turns out not to be the caller's
		_, err = tx.Exec(ctx,
			`DELETE FROM tasks
			 WHERE project_id IN (SELECT id FROM projects WHERE id = $1 AND owner_id = $2)`,
			id, ownerID)

		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM projects WHERE id = $1 AND owner_id = $2`,
			id, ownerID)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return project.ErrNotFound
		}

		return tx.Commit(ctx)
	})
}
