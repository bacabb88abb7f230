package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/authz"
	"github.com/taskhive/taskhive/internal/utils"
)

const mwSecret utils.AccessSecret = "middleware-test-secret"

func protectedEcho(meta authz.RouteAuthMetadata) *echo.Echo {
	e := echo.New()
	p := authz.NewPipeline(mwSecret, nil)
	e.GET("/guarded", func(c echo.Context) error {
		ident, _ := CurrentIdentity(c)
		return c.JSON(http.StatusOK, echo.Map{"user_id": ident.ID})
	}, Authorize(p, meta))
	return e
}

func TestAuthorizeMiddleware(t *testing.T) {
	token := func(roles ...string) string {
		at, _ := utils.NewAccessToken(mwSecret, utils.Claims{UserID: 7, Roles: roles}, 15)
		return "Bearer " + at.Token
	}

	cases := []struct {
		name   string
		meta   authz.RouteAuthMetadata
		header string
		status int
	}{
		{
			name:   "missing header",
			meta:   authz.RouteAuthMetadata{},
			header: "",
			status: http.StatusUnauthorized,
		},
		{
			name:   "wrong scheme",
			meta:   authz.RouteAuthMetadata{},
			header: "Basic dXNlcjpwYXNz",
			status: http.StatusUnauthorized,
		},
		{
			name:   "valid token on exempt route",
			meta:   authz.RouteAuthMetadata{},
			header: token(),
			status: http.StatusOK,
		},
		{
			name:   "permission granted",
			meta:   authz.RouteAuthMetadata{RequiredPermissions: []authz.Permission{authz.PermViewProfile}},
			header: token(authz.RoleClient),
			status: http.StatusOK,
		},
		{
			name:   "permission missing",
			meta:   authz.RouteAuthMetadata{RequiredPermissions: []authz.Permission{authz.PermManageRoles}},
			header: token(authz.RoleClient),
			status: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := protectedEcho(tc.meta)
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestCurrentIdentityInjected(t *testing.T) {
	e := protectedEcho(authz.RouteAuthMetadata{})
	at, _ := utils.NewAccessToken(mwSecret, utils.Claims{UserID: 7}, 15)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"user_id\":7}\n" {
		t.Errorf("body = %q", got)
	}
}
