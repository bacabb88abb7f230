package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/model"
)

// TaskRepo encapsulates all database queries related to tasks.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo constructs a TaskRepo with the provided DB handle.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create inserts a new task under its project.  On success the task's ID
// field is populated.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (project_id, name, description, status, progress, due_date, created_by, updated_by) VALUES (?,?,?,?,?,?,?,?)",
		t.ProjectID, t.Name, t.Description, t.Status, t.Progress, t.DueDate, t.CreatedBy, t.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a task by its ID.  ErrNotFound when absent.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (*model.Task, error) {
	const q = "SELECT id, project_id, name, description, status, progress, due_date, created_by, updated_by, created_at, updated_at FROM tasks WHERE id = ?"
	var t model.Task
	var due sql.NullTime
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.Status, &t.Progress,
		&due, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

// List returns all tasks ordered by creation time, newest first.
func (r *TaskRepo) List(ctx context.Context) ([]*model.Task, error) {
	const q = `SELECT id, project_id, name, description, status, progress, due_date, created_by, updated_by, created_at, updated_at
	           FROM tasks ORDER BY created_at DESC`
	return r.queryTasks(ctx, q)
}

// ListByProject returns all tasks of one project, newest first.
func (r *TaskRepo) ListByProject(ctx context.Context, projectID uint64) ([]*model.Task, error) {
	const q = `SELECT id, project_id, name, description, status, progress, due_date, created_by, updated_by, created_at, updated_at
	           FROM tasks WHERE project_id = ? ORDER BY created_at DESC`
	return r.queryTasks(ctx, q, projectID)
}

func (r *TaskRepo) queryTasks(ctx context.Context, q string, args ...any) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Task
	for rows.Next() {
		t := new(model.Task)
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.Status, &t.Progress,
			&due, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a task.  ErrNotFound when no row
// is affected.
func (r *TaskRepo) Update(ctx context.Context, id uint64, name, description, status string, progress int, dueDate *time.Time, updatedBy uint64) error {
	const q = `UPDATE tasks
	           SET name = ?, description = ?, status = ?, progress = ?, due_date = ?, updated_by = ?, updated_at = NOW()
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, status, progress, dueDate, updatedBy, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task and its assignment rows.
func (r *TaskRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tasks_users WHERE task_id=?", id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignUsers adds users to a task, skipping duplicates.
func (r *TaskRepo) AssignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error {
	if _, err := r.GetByID(ctx, taskID); err != nil {
		return err
	}
	for _, uid := range userIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO tasks_users (task_id, user_id) VALUES (?,?)",
			taskID, uid); err != nil {
			return err
		}
	}
	return nil
}

// IsOwner reports whether userID created the task.  A missing task is
// simply "not owner".
func (r *TaskRepo) IsOwner(ctx context.Context, taskID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM tasks WHERE id = ? AND created_by = ? LIMIT 1",
		taskID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
