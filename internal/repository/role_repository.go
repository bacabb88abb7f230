package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/taskhive/taskhive/internal/model"
)

// RoleRepo manages the role catalog.  Roles are seeded once at startup
// and rarely change afterwards.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Seed inserts any missing roles from the given names.  Existing rows are
// left untouched, so the call is idempotent.
func (r *RoleRepo) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.DB.ExecContext(ctx,
			"INSERT IGNORE INTO roles (name) VALUES (?)", name); err != nil {
			return err
		}
	}
	return nil
}

// List returns the full role catalog ordered by id.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Create inserts a new role.  Duplicate names yield ErrRoleExists.
func (r *RoleRepo) Create(ctx context.Context, name string) (model.Role, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Role{}, ErrRoleExists
		}
		return model.Role{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Role{}, err
	}
	return model.Role{ID: uint64(id), Name: name}, nil
}

// Rename changes a role's name.  ErrNotFound when no row matches.
func (r *RoleRepo) Rename(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE roles SET name=? WHERE id=?", name, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRoleExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a role and its assignments.
func (r *RoleRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM user_roles WHERE role_id=?", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM roles WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByName fetches one role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM roles WHERE name=? LIMIT 1", name).Scan(&role.ID, &role.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return role, ErrNotFound
	}
	return role, err
}
