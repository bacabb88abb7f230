// Package repository contains data access logic separated from HTTP
// handlers.  This file defines repository methods for projects: CRUD,
// member assignment and the ownership lookup the authorization core
// depends on.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskhive/taskhive/internal/model"
)

// ProjectRepo encapsulates all database queries related to projects.
type ProjectRepo struct {
	db *sql.DB
}

// NewProjectRepo constructs a ProjectRepo with the provided DB handle.
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create inserts a new project and assigns the creator as its first
// member.  On success the project's ID field is populated.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (name, description, status, progress, created_by, updated_by) VALUES (?,?,?,?,?,?)",
		p.Name, p.Description, p.Status, p.Progress, p.CreatedBy, p.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	// The creator is automatically a member of their own project.
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO projects_users (project_id, user_id) VALUES (?,?)", p.ID, p.CreatedBy)
	return err
}

// GetByID fetches a project by its ID.  ErrNotFound when absent.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (*model.Project, error) {
	const q = "SELECT id, name, description, status, progress, created_by, updated_by, created_at, updated_at FROM projects WHERE id = ?"
	var p model.Project
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.Progress,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects ordered by id.
func (r *ProjectRepo) List(ctx context.Context) ([]*model.Project, error) {
	const q = `SELECT id, name, description, status, progress, created_by, updated_by, created_at, updated_at
	           FROM projects ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Project
	for rows.Next() {
		p := new(model.Project)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.Progress,
			&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a project.  ErrNotFound when no
// row is affected.
func (r *ProjectRepo) Update(ctx context.Context, id uint64, name, description, status string, progress int, updatedBy uint64) error {
	const q = `UPDATE projects
	           SET name = ?, description = ?, status = ?, progress = ?, updated_by = ?, updated_at = NOW()
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, status, progress, updatedBy, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project and all dependent records (tasks, membership
// rows) inside a transaction to maintain integrity.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`DELETE tu FROM tasks_users tu JOIN tasks t ON t.id = tu.task_id WHERE t.project_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM projects_users WHERE project_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// AssignUsers adds users to a project's membership, skipping duplicates.
func (r *ProjectRepo) AssignUsers(ctx context.Context, projectID uint64, userIDs []uint64) error {
	if _, err := r.GetByID(ctx, projectID); err != nil {
		return err
	}
	for _, uid := range userIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO projects_users (project_id, user_id) VALUES (?,?)",
			projectID, uid); err != nil {
			return err
		}
	}
	return nil
}

// IsOwner reports whether userID created the project.  A missing project
// is simply "not owner"; the distinction never reaches the caller.
func (r *ProjectRepo) IsOwner(ctx context.Context, projectID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM projects WHERE id = ? AND created_by = ? LIMIT 1",
		projectID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
