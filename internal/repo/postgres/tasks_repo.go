package postgres

import (
	"context"
	"errors"

	"github.com/ferrante/taskhub/internal/domain/project"
	"github.com/ferrante/taskhub/internal/domain/task"
	"github.com/ferrante/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *TasksRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create inserts only when the parent project exists and belongs to the
// caller. The ownership check rides in the same statement, so there is no
// check-then-act window.
func (r *TasksRepo) Create(ctx context.Context, ownerID, projectID string, req task.CreateTaskRequest) (task.Task, error) {
	t := task.NewFromCreateRequest(projectID, req)

	var inserted int64

	err := r.observe("tasks.create", func() error {
		tag, err := r.pool.Exec(ctx,
			`INSERT INTO tasks(id, project_id, title, description, status, priority, due_date, created_at, updated_at)
			 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
			 WHERE EXISTS (
				SELECT 1 FROM projects WHERE id = $2 AND owner_id = $10
			 )`,
			t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CreatedAt, t.UpdatedAt, ownerID)

		if err != nil {
			return err
		}

		inserted = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return task.Task{}, err
	}

	if inserted == 0 {
		return task.Task{}, project.ErrNotFound
	}

	return t, nil
}

// ListByProject assumes the caller already ownership-checked the project.
func (r *TasksRepo) ListByProject(ctx context.Context, projectID string, filter task.ListTasksFilter) ([]task.Task, error) {
	query := `SELECT id, project_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE project_id = $1`

	args := []interface{}{projectID}

	if filter.Status != nil {
		query += ` AND status = $2`
		args = append(args, *filter.Status)
	}

	query += ` ORDER BY created_at DESC`

	var out []task.Task

	err := r.observe("tasks.list_by_project", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]task.Task, 0)

		for rows.Next() {
			var t task.Task

			err = rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)

			if err != nil {
				return err
			}

			out = append(out, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Update scopes the task id to projects owned by the caller. A task id
// belonging to someone else's project matches no rows, which defeats
// task-id substitution. Omitted status, priority and dueDate keep their
// stored values.
func (r *TasksRepo) Update(ctx context.Context, taskID, ownerID string, req task.UpdateTaskRequest) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE tasks
				SET title = $3,
						description = $4,
						status = COALESCE(NULLIF($5, ''), status),
						priority = COALESCE(NULLIF($6, ''), priority),
						due_date = COALESCE($7, due_date),
						updated_at = NOW()
			WHERE id = $1
				AND project_id IN (SELECT id FROM projects WHERE owner_id = $2)
			RETURNING id, project_id, title, description, status, priority, due_date, created_at, updated_at`,
			taskID,
			ownerID,
			req.Title,
			req.Description,
			req.Status,
			req.Priority,
			req.DueDate,
		).Scan(
			&t.ID,
			&t.ProjectID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.Priority,
			&t.DueDate,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) Delete(ctx context.Context, taskID, ownerID string) error {
	var deleted int64

	err := r.observe("tasks.delete", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM tasks
			 WHERE id = $1
				AND project_id IN (SELECT id FROM projects WHERE owner_id = $2)`,
			taskID, ownerID)

		if err != nil {
			return err
		}

		deleted = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if deleted == 0 {
		return task.ErrNotFound
	}

	return nil
}

func (r *TasksRepo) GetByID(ctx context.Context, taskID, ownerID string) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, project_id, title, description, status, priority, due_date, created_at, updated_at
			 FROM tasks
			 WHERE id = $1
				AND project_id IN (SELECT id FROM projects WHERE owner_id = $2)`,
			taskID, ownerID,
		).Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}
