// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notifications.
package queue

// UserRegisteredEvent is published when a new account is created.  It
// contains enough information for downstream consumers to send the
// welcome email without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
}
