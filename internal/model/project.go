package model

import "time"

// Project statuses.  Stored as plain strings in projects.status.
const (
	ProjectStatusNotStarted = "Not Started"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
)

// Project represents a row in the `projects` table.  CreatedBy is the
// recognized owner for ownership checks; assignment membership lives in
// the `projects_users` join table.
type Project struct {
	ID          uint64    // projects.id
	Name        string    // projects.name
	Description string    // projects.description
	Status      string    // projects.status
	Progress    int       // projects.progress (0-100)
	CreatedBy   uint64    // projects.created_by (owner)
	UpdatedBy   uint64    // projects.updated_by
	CreatedAt   time.Time // projects.created_at
	UpdatedAt   time.Time // projects.updated_at
}
