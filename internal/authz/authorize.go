package authz

import (
	"context"
	"strconv"

	"github.com/taskhive/taskhive/internal/utils"
)

// OwnershipDescriptor is attached to a route at registration time.  It
// declares which resource type the ownership gate applies to and which
// request parameter carries the resource id.  Static data only; it is
// never derived from request content.
type OwnershipDescriptor struct {
	Resource  ResourceType // resource type to check
	ParamName string       // request parameter holding the resource id
}

// RouteAuthMetadata is the static authorization contract of one route.
// An empty RequiredPermissions slice makes the route authorization-exempt:
// a valid access token is still required, but no permission or ownership
// check runs.
type RouteAuthMetadata struct {
	RequiredPermissions []Permission
	Ownership           *OwnershipDescriptor
}

// Identity is the caller reconstructed from a verified access token.
// It lives for exactly one request.
type Identity struct {
	ID    uint64
	Email string
	Roles []string
}

// DenyReason classifies why a request was denied.
type DenyReason string

const (
	// DenyUnauthenticated: missing, malformed, expired or mis-signed
	// bearer token.
	DenyUnauthenticated DenyReason = "unauthenticated"
	// DenyForbidden: authenticated but lacking a required permission or
	// resource ownership.  Missing-resource and not-owner cases are
	// indistinguishable on purpose.
	DenyForbidden DenyReason = "forbidden"
)

// Decision is the terminal state of the pipeline for one request.
type Decision struct {
	Allowed  bool
	Reason   DenyReason // set only when Allowed is false
	Identity Identity   // set whenever authentication succeeded
}

func allow(id Identity) Decision            { return Decision{Allowed: true, Identity: id} }
func deny(r DenyReason, id Identity) Decision { return Decision{Reason: r, Identity: id} }

// Pipeline combines token verification, the permission catalog and the
// ownership resolver into a single allow/deny decision per request.  It
// holds only read-mostly state (the access secret and the resolver), so
// any number of requests may be authorized concurrently.
type Pipeline struct {
	Secret   utils.AccessSecret
	Resolver *Resolver
}

// NewPipeline builds an authorization pipeline.
func NewPipeline(secret utils.AccessSecret, resolver *Resolver) *Pipeline {
	return &Pipeline{Secret: secret, Resolver: resolver}
}

// Authorize runs the full decision for one request.  bearer is the raw
// token from the Authorization header (already stripped of the "Bearer "
// prefix); param looks up a request parameter by name and returns "" when
// absent.
//
// Ownership is evaluated after the coarse permission check and skipped
// for holders of the super_owner sentinel, so elevated roles never pay
// the extra lookup and regular roles stay scoped to resources they own.
func (p *Pipeline) Authorize(ctx context.Context, bearer string, meta RouteAuthMetadata, param func(string) string) Decision {
	// 1. Authenticate.
	cl, err := utils.VerifyAccessToken(p.Secret, bearer)
	if err != nil {
		return deny(DenyUnauthenticated, Identity{})
	}
	ident := Identity{ID: cl.UserID, Email: cl.Email, Roles: cl.Roles}

	// 2. Authorization-exempt route: valid token suffices.
	if len(meta.RequiredPermissions) == 0 {
		return allow(ident)
	}

	// 3–4. Expand roles and check the required set.
	granted := PermissionsFor(ident.Roles)
	if !HasAll(granted, meta.RequiredPermissions) {
		return deny(DenyForbidden, ident)
	}

	// 5. Ownership gate.
	if meta.Ownership != nil && !granted.Has(PermSuperOwner) {
		resourceID, err := strconv.ParseUint(param(meta.Ownership.ParamName), 10, 64)
		if err != nil {
			return deny(DenyForbidden, ident)
		}
		owns, err := p.Resolver.Owns(ctx, meta.Ownership.Resource, resourceID, ident.ID)
		if err != nil || !owns {
			// A storage error maps to deny, never to allow.
			return deny(DenyForbidden, ident)
		}
	}

	return allow(ident)
}
