package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/taskhive/taskhive/internal/model"
)

func newProjectRepo(t *testing.T) (*ProjectRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProjectRepo(db), mock
}

func TestProjectIsOwner(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectQuery("SELECT 1 FROM projects WHERE id = \\? AND created_by = \\? LIMIT 1").
		WithArgs(uint64(12), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	owns, err := repo.IsOwner(context.Background(), 12, 7)
	if err != nil {
		t.Fatalf("IsOwner: %v", err)
	}
	if !owns {
		t.Error("creator not recognized as owner")
	}
}

// Missing project and wrong creator both scan zero rows; both must
// resolve to "not owner" without error.
func TestProjectIsOwnerNoRow(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectQuery("SELECT 1 FROM projects").
		WithArgs(uint64(999), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	owns, err := repo.IsOwner(context.Background(), 999, 7)
	if err != nil {
		t.Fatalf("IsOwner: %v", err)
	}
	if owns {
		t.Error("no matching row reported as owner")
	}
}

func TestProjectIsOwnerQueryError(t *testing.T) {
	repo, mock := newProjectRepo(t)

	boom := errors.New("bad connection")
	mock.ExpectQuery("SELECT 1 FROM projects").
		WithArgs(uint64(12), uint64(7)).
		WillReturnError(boom)

	owns, err := repo.IsOwner(context.Background(), 12, 7)
	if owns {
		t.Error("query error reported as owner")
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want driver error", err)
	}
}

func TestProjectCreateAssignsCreator(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectExec("INSERT INTO projects ").
		WithArgs("Launch", "Q3 launch", model.ProjectStatusNotStarted, 0, uint64(7), uint64(7)).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO projects_users ").
		WithArgs(uint64(12), uint64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := &model.Project{Name: "Launch", Description: "Q3 launch", Status: model.ProjectStatusNotStarted, CreatedBy: 7}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 12 {
		t.Errorf("ID = %d, want 12", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestProjectGetByIDNotFound(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectQuery("SELECT id, name, description, status, progress").
		WithArgs(uint64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProjectGetByID(t *testing.T) {
	repo, mock := newProjectRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "description", "status", "progress", "created_by", "updated_by", "created_at", "updated_at"}).
		AddRow(12, "Launch", "Q3 launch", model.ProjectStatusInProgress, 40, 7, 9, now, now)
	mock.ExpectQuery("SELECT id, name, description, status, progress").
		WithArgs(uint64(12)).
		WillReturnRows(rows)

	p, err := repo.GetByID(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.Name != "Launch" || p.Status != model.ProjectStatusInProgress || p.Progress != 40 || p.CreatedBy != 7 {
		t.Errorf("project = %+v", p)
	}
}

func TestProjectUpdateNotFound(t *testing.T) {
	repo, mock := newProjectRepo(t)

	mock.ExpectExec("UPDATE projects").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 999, "n", "d", model.ProjectStatusCompleted, 100, 7)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
