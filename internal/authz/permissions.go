// Package authz contains the authorization core: the permission catalog,
// the role→permission matrix, the ownership resolver and the request-time
// authorization pipeline.  Nothing in this package touches the database
// directly; storage access happens behind the ownership store interfaces.
package authz

// Permission is an atomic authorization capability.  The set is closed
// and defined entirely in code; permissions are never persisted.
type Permission string

const (
	PermViewProfile   Permission = "view_profile"
	PermUpdateProfile Permission = "update_profile"
	PermViewUsers     Permission = "view_users"
	PermViewUser      Permission = "view_user"
	PermUpdateUser    Permission = "update_user"
	PermRemoveUser    Permission = "remove_user"
	PermViewProject   Permission = "view_project"
	PermViewProjects  Permission = "view_projects"
	PermCreateProject Permission = "create_project"
	PermUpdateProject Permission = "update_project"
	PermRemoveProject Permission = "remove_project"
	PermViewTask      Permission = "view_task"
	PermViewTasks     Permission = "view_tasks"
	PermCreateTask    Permission = "create_task"
	PermUpdateTask    Permission = "update_task"
	PermRemoveTask    Permission = "remove_task"
	PermManageRoles   Permission = "manage_roles"

	// PermSuperOwner is a sentinel: holders skip per-resource ownership
	// checks entirely.
	PermSuperOwner Permission = "super_owner"
)

// Role names.  Roles are seeded into the database once at startup; the
// matrix below is keyed by these names.
const (
	RoleAdmin          = "Admin"
	RoleClient         = "Client"
	RoleMember         = "Member"
	RoleProjectManager = "ProjectManager"
	RoleTeamLead       = "TeamLead"
)

// AllRoles returns every role name known to the matrix, in seed order.
func AllRoles() []string {
	return []string{RoleAdmin, RoleClient, RoleMember, RoleProjectManager, RoleTeamLead}
}

// RolePermissions maps a role name to the permissions it grants.  The map
// is built once at init and never mutated afterwards; concurrent readers
// need no coordination.  A role name without an entry grants nothing;
// that is a resolution result, not an error.
var RolePermissions = map[string][]Permission{
	RoleAdmin: {
		PermViewProfile, PermUpdateProfile,
		PermViewUser, PermViewUsers, PermUpdateUser, PermRemoveUser,
		PermViewProject, PermViewProjects, PermCreateProject, PermUpdateProject, PermRemoveProject,
		PermViewTask, PermViewTasks, PermCreateTask, PermUpdateTask, PermRemoveTask,
		PermManageRoles,
		PermSuperOwner,
	},
	RoleClient: {
		PermViewProfile, PermUpdateProfile,
		PermViewProject,
	},
	RoleMember: {
		PermViewProfile, PermUpdateProfile,
		PermViewUser, PermViewUsers,
		PermViewTask, PermViewTasks,
	},
	RoleProjectManager: {
		PermViewProfile, PermUpdateProfile,
		PermViewUser, PermViewUsers, PermUpdateUser,
		PermViewProject, PermViewProjects, PermCreateProject, PermUpdateProject, PermRemoveProject,
		PermViewTask, PermViewTasks, PermCreateTask, PermUpdateTask, PermRemoveTask,
	},
	RoleTeamLead: {
		PermViewProfile, PermUpdateProfile,
		PermViewUser, PermViewUsers,
		PermViewProject, PermViewProjects,
		PermViewTask, PermViewTasks, PermCreateTask, PermUpdateTask,
	},
}

// PermissionSet is a deduplicated collection of permissions.
type PermissionSet map[Permission]struct{}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// PermissionsFor expands a list of role names into the union of the
// permissions those roles grant.  Unknown role names contribute nothing;
// there is no failure path.
func PermissionsFor(roleNames []string) PermissionSet {
	out := make(PermissionSet)
	for _, name := range roleNames {
		for _, p := range RolePermissions[name] {
			out[p] = struct{}{}
		}
	}
	return out
}

// HasAll reports whether every required permission is present in granted.
// An empty required set always passes.
func HasAll(granted PermissionSet, required []Permission) bool {
	for _, p := range required {
		if !granted.Has(p) {
			return false
		}
	}
	return true
}
