package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles routing

	"github.com/taskhive/taskhive/internal/authz"
	"github.com/taskhive/taskhive/internal/handler"
	"github.com/taskhive/taskhive/internal/middleware"
)

// Handlers groups every handler the router wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Projects *handler.ProjectHandler
	Tasks    *handler.TaskHandler
	Roles    *handler.RoleHandler
}

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the full API surface.  Every protected route
// declares its authorization contract as static RouteAuthMetadata right
// here, at registration time: required permissions and, where a route
// addresses one resource by id, an ownership descriptor naming the
// resource type and the path parameter that carries the id.  Nothing
// about authorization is ever derived from request content.
//
// limiter guards the credential endpoints; pass a no-op middleware when
// rate limiting is disabled.
func RegisterAPI(e *echo.Echo, h Handlers, p *authz.Pipeline, limiter echo.MiddlewareFunc) {
	// Unauthenticated session endpoints live under /v1/auth.
	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register, limiter)
	g.POST("/login", h.Auth.Login, limiter)
	g.POST("/refresh", h.Auth.Refresh, limiter)

	// authed builds the per-route authorization middleware.  A metadata
	// value with no required permissions means "valid token only".
	authed := func(perms ...authz.Permission) echo.MiddlewareFunc {
		return middleware.Authorize(p, authz.RouteAuthMetadata{RequiredPermissions: perms})
	}
	// owned is like authed but additionally gates the route on ownership
	// of the resource addressed by the :id parameter.  Holders of
	// super_owner skip the gate.
	owned := func(rt authz.ResourceType, perms ...authz.Permission) echo.MiddlewareFunc {
		return middleware.Authorize(p, authz.RouteAuthMetadata{
			RequiredPermissions: perms,
			Ownership:           &authz.OwnershipDescriptor{Resource: rt, ParamName: "id"},
		})
	}

	v1 := e.Group("/v1")

	// Current user.
	v1.GET("/me", h.Auth.Profile, authed())
	v1.PATCH("/me", h.Auth.UpdateProfile, authed(authz.PermUpdateProfile))
	v1.PATCH("/me/profile-picture", h.Users.UploadProfilePicture, authed(authz.PermUpdateProfile))

	// User management.
	v1.GET("/users", h.Users.List, authed(authz.PermViewUsers))
	v1.GET("/users/:id", h.Users.Get, authed(authz.PermViewUser))
	v1.PATCH("/users/:id", h.Users.Update, authed(authz.PermUpdateUser))
	v1.DELETE("/users/:id", h.Users.Delete, authed(authz.PermRemoveUser))

	// Projects.  Mutating id-routes carry an ownership descriptor: only
	// the project's creator (or a super_owner) passes.
	v1.GET("/projects", h.Projects.List, authed(authz.PermViewProjects))
	v1.POST("/projects", h.Projects.Create, authed(authz.PermCreateProject))
	v1.GET("/projects/:id", h.Projects.Get, owned(authz.ResourceProject, authz.PermViewProject))
	v1.PATCH("/projects/:id", h.Projects.Update, owned(authz.ResourceProject, authz.PermUpdateProject))
	v1.DELETE("/projects/:id", h.Projects.Delete, owned(authz.ResourceProject, authz.PermRemoveProject))
	v1.PATCH("/projects/:id/assign", h.Projects.Assign, owned(authz.ResourceProject, authz.PermUpdateProject))

	// Tasks.
	v1.GET("/tasks", h.Tasks.List, authed(authz.PermViewTasks))
	v1.POST("/tasks", h.Tasks.Create, authed(authz.PermCreateTask))
	v1.GET("/tasks/:id", h.Tasks.Get, authed(authz.PermViewTask))
	v1.PATCH("/tasks/:id", h.Tasks.Update, owned(authz.ResourceTask, authz.PermUpdateTask))
	v1.DELETE("/tasks/:id", h.Tasks.Delete, owned(authz.ResourceTask, authz.PermRemoveTask))
	v1.PATCH("/tasks/:id/assign", h.Tasks.Assign, owned(authz.ResourceTask, authz.PermUpdateTask))

	// Role catalog administration.
	v1.GET("/roles", h.Roles.List, authed(authz.PermManageRoles))
	v1.POST("/roles", h.Roles.Create, authed(authz.PermManageRoles))
	v1.PATCH("/roles/:id", h.Roles.Update, authed(authz.PermManageRoles))
	v1.DELETE("/roles/:id", h.Roles.Delete, authed(authz.PermManageRoles))
}
