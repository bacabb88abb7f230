package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are omitted
// here because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
// Roles is populated by joining through the `user_roles` table.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Email          – unique email address.
//  Name           – display name.
//  PasswordHash   – bcrypt hashed password; the plaintext never persists.
//  ProfilePicture – URL of the uploaded avatar (empty when unset).
//  Roles          – roles assigned to the user via user_roles.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64    // users.id
	Email          string    // users.email
	Name           string    // users.name
	PasswordHash   string    // users.password_hash
	ProfilePicture string    // users.profile_picture
	Roles          []Role    // joined from roles via user_roles
	CreatedAt      time.Time // users.created_at
	UpdatedAt      time.Time // users.updated_at
}

// RoleNames flattens the user's roles into their names, the shape token
// claims carry.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role represents a row in the `roles` table.  The catalog is seeded once
// at startup; role rows are rarely added or removed at runtime.
//
// Fields:
//  ID   – numeric identifier of the role.
//  Name – unique role name (e.g. Admin, Client, Member).
type Role struct {
	ID   uint64 // roles.id
	Name string // roles.name
}
