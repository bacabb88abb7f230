package authz

import "context"

// ResourceType tags the kind of resource an ownership check applies to.
// Adding a type means adding a constant and a branch in Resolver.Owns,
// a compile-time change rather than a runtime registration.
type ResourceType string

const (
	ResourceProject ResourceType = "project"
	ResourceTask    ResourceType = "task"
)

// OwnershipStore answers whether a user is the recognized owner of one
// resource.  Implementations live in the repository layer; the resolver
// holds no storage logic of its own.
type OwnershipStore interface {
	IsOwner(ctx context.Context, resourceID, userID uint64) (bool, error)
}

// Resolver dispatches ownership checks by resource type.  Unknown types
// and storage errors both resolve to "not owner": the policy here is
// strictly fail closed.
type Resolver struct {
	Projects OwnershipStore
	Tasks    OwnershipStore
}

// NewResolver builds a Resolver over the per-type ownership stores.
func NewResolver(projects, tasks OwnershipStore) *Resolver {
	return &Resolver{Projects: projects, Tasks: tasks}
}

// Owns reports whether userID owns the resource of the given type.  A
// nil store for a declared type, an unknown type, or a storage error all
// yield false.  The error is returned alongside so callers can log it,
// but the boolean is authoritative: an error never grants access.
func (r *Resolver) Owns(ctx context.Context, rt ResourceType, resourceID, userID uint64) (bool, error) {
	var store OwnershipStore
	switch rt {
	case ResourceProject:
		store = r.Projects
	case ResourceTask:
		store = r.Tasks
	default:
		return false, nil
	}
	if store == nil {
		return false, nil
	}
	owns, err := store.IsOwner(ctx, resourceID, userID)
	if err != nil {
		return false, err
	}
	return owns, nil
}
