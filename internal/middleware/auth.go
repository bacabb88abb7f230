package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/taskhive/taskhive/internal/authz"
)

// Context key under which the authenticated identity is stored.
const identityKey = "identity"

// Authorize returns an Echo middleware that runs the full authorization
// pipeline for one route: bearer extraction, token verification, the
// permission check and, when the metadata declares one, the ownership
// gate.  The metadata is static data attached at registration time.
//
// On allow the authenticated identity is injected into the request
// context for handlers to read via CurrentIdentity.  All authentication
// failures map to a single 401 envelope and all permission/ownership
// failures to a single 403 envelope, so responses leak nothing about
// which check failed or whether a resource exists.
func Authorize(p *authz.Pipeline, meta authz.RouteAuthMetadata) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Read the Authorization header.  A valid header starts with
			// "Bearer " followed by the token.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			d := p.Authorize(c.Request().Context(), raw, meta, c.Param)
			if !d.Allowed {
				switch d.Reason {
				case authz.DenyUnauthenticated:
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
				default:
					return c.JSON(http.StatusForbidden, echo.Map{"error": "not permitted"})
				}
			}

			c.Set(identityKey, d.Identity)
			return next(c)
		}
	}
}

// CurrentIdentity returns the authenticated identity stored by Authorize.
// The boolean is false on routes that never ran the middleware.
func CurrentIdentity(c echo.Context) (authz.Identity, bool) {
	ident, ok := c.Get(identityKey).(authz.Identity)
	return ident, ok
}
