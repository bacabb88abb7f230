package model

import "time"

// Task statuses.  Stored as plain strings in tasks.status.
const (
	TaskStatusTodo       = "To Do"
	TaskStatusInProgress = "In Progress"
	TaskStatusDone       = "Done"
)

// Task represents a row in the `tasks` table.  Every task belongs to a
// project (cascade-deleted with it) and CreatedBy is the recognized owner
// for ownership checks.  Assignment membership lives in `tasks_users`.
type Task struct {
	ID          uint64     // tasks.id
	ProjectID   uint64     // tasks.project_id
	Name        string     // tasks.name
	Description string     // tasks.description
	Status      string     // tasks.status
	Progress    int        // tasks.progress (0-100)
	DueDate     *time.Time // tasks.due_date (nullable)
	CreatedBy   uint64     // tasks.created_by (owner)
	UpdatedBy   uint64     // tasks.updated_by
	CreatedAt   time.Time  // tasks.created_at
	UpdatedAt   time.Time  // tasks.updated_at
}
