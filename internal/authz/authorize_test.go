package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/taskhive/taskhive/internal/utils"
)

const pipelineSecret utils.AccessSecret = "pipeline-test-secret"

func bearerFor(t *testing.T, roles ...string) string {
	t.Helper()
	at, err := utils.NewAccessToken(pipelineSecret, utils.Claims{
		UserID: 7,
		Email:  "member@example.com",
		Roles:  roles,
	}, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return at.Token
}

func paramID(id string) func(string) string {
	return func(name string) string {
		if name == "id" {
			return id
		}
		return ""
	}
}

func noParam(string) string { return "" }

func TestAuthorize(t *testing.T) {
	ownedByCaller := NewResolver(fakeStore{owns: true}, fakeStore{owns: true})
	ownedByOther := NewResolver(fakeStore{owns: false}, fakeStore{owns: false})
	storeDown := NewResolver(fakeStore{err: errors.New("db down")}, nil)

	viewOwnProject := RouteAuthMetadata{
		RequiredPermissions: []Permission{PermViewProject},
		Ownership:           &OwnershipDescriptor{Resource: ResourceProject, ParamName: "id"},
	}

	cases := []struct {
		name     string
		bearer   func(t *testing.T) string
		meta     RouteAuthMetadata
		resolver *Resolver
		param    func(string) string
		allowed  bool
		reason   DenyReason
	}{
		{
			name:    "garbage token",
			bearer:  func(*testing.T) string { return "garbage" },
			meta:    RouteAuthMetadata{RequiredPermissions: []Permission{PermViewProfile}},
			param:   noParam,
			allowed: false,
			reason:  DenyUnauthenticated,
		},
		{
			name:    "exempt route needs only a valid token",
			bearer:  func(t *testing.T) string { return bearerFor(t) }, // no roles at all
			meta:    RouteAuthMetadata{},
			param:   noParam,
			allowed: true,
		},
		{
			name:    "missing permission",
			bearer:  func(t *testing.T) string { return bearerFor(t, RoleClient) },
			meta:    RouteAuthMetadata{RequiredPermissions: []Permission{PermRemoveUser}},
			param:   noParam,
			allowed: false,
			reason:  DenyForbidden,
		},
		{
			name:     "owner passes the ownership gate",
			bearer:   func(t *testing.T) string { return bearerFor(t, RoleClient) },
			meta:     viewOwnProject,
			resolver: ownedByCaller,
			param:    paramID("12"),
			allowed:  true,
		},
		{
			name:     "non-owner denied",
			bearer:   func(t *testing.T) string { return bearerFor(t, RoleClient) },
			meta:     viewOwnProject,
			resolver: ownedByOther,
			param:    paramID("12"),
			allowed:  false,
			reason:   DenyForbidden,
		},
		{
			name:     "super_owner skips the ownership gate",
			bearer:   func(t *testing.T) string { return bearerFor(t, RoleAdmin) },
			meta:     viewOwnProject,
			resolver: ownedByOther,
			param:    paramID("12"),
			allowed:  true,
		},
		{
			name:     "non-numeric id denied",
			bearer:   func(t *testing.T) string { return bearerFor(t, RoleClient) },
			meta:     viewOwnProject,
			resolver: ownedByCaller,
			param:    paramID("abc"),
			allowed:  false,
			reason:   DenyForbidden,
		},
		{
			name:     "missing id parameter denied",
			bearer:   func(t *testing.T) string { return bearerFor(t, RoleClient) },
			meta:     viewOwnProject,
			resolver: ownedByCaller,
			param:    noParam,
			allowed:  false,
			reason:   DenyForbidden,
		},
		{
			name:     "storage error denies, never allows",
			bearer:   func(t *testing.T) string { return bearerFor(t, RoleClient) },
			meta:     viewOwnProject,
			resolver: storeDown,
			param:    paramID("12"),
			allowed:  false,
			reason:   DenyForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(pipelineSecret, tc.resolver)
			d := p.Authorize(context.Background(), tc.bearer(t), tc.meta, tc.param)
			if d.Allowed != tc.allowed {
				t.Fatalf("Allowed = %v, want %v (reason %s)", d.Allowed, tc.allowed, d.Reason)
			}
			if !tc.allowed && d.Reason != tc.reason {
				t.Errorf("Reason = %s, want %s", d.Reason, tc.reason)
			}
			if tc.allowed && d.Identity.ID != 7 {
				t.Errorf("Identity.ID = %d, want 7", d.Identity.ID)
			}
		})
	}
}

// A refresh-signed token must never authenticate a request even when it
// carries valid claims.
func TestAuthorizeRejectsRefreshToken(t *testing.T) {
	rt, err := utils.NewRefreshToken(utils.RefreshSecret("refresh-side-secret"), utils.Claims{UserID: 7, Roles: []string{RoleAdmin}}, 60)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	p := NewPipeline(pipelineSecret, nil)
	d := p.Authorize(context.Background(), rt.Token, RouteAuthMetadata{}, noParam)
	if d.Allowed {
		t.Fatal("refresh token accepted on a protected route")
	}
	if d.Reason != DenyUnauthenticated {
		t.Errorf("Reason = %s, want %s", d.Reason, DenyUnauthenticated)
	}
}
