package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/utils"
)

func testCfg() config.Config {
	return config.Config{
		JWTSecret:        "access-secret",
		JWTExpirationMin: 15,
		RefreshSecret:    "refresh-secret",
		RefreshExpMin:    7 * 24 * 60,
		BcryptCost:       4,
	}
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAuthHandler(testCfg(), repository.NewUserRepo(db)), mock
}

func postJSON(target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func userRow(hash string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(
		[]string{"id", "email", "name", "password_hash", "profile_picture", "created_at", "updated_at"}).
		AddRow(42, "dev@example.com", "Dev", hash, "", now, now)
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, _ := utils.HashPassword("s3cret", 4)

	mock.ExpectQuery("SELECT id,email,name,password_hash").
		WithArgs("dev@example.com").
		WillReturnRows(userRow(hash))
	mock.ExpectQuery("SELECT r.id, r.name FROM roles r").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Client"))

	e := echo.New()
	req, rec := postJSON("/v1/auth/login", `{"email":"dev@example.com","password":"s3cret"}`)
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			ID    uint64   `json:"id"`
			Roles []string `json:"roles"`
		} `json:"user"`
		Access  struct{ Token string } `json:"access"`
		Refresh struct{ Token string } `json:"refresh"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.ID != 42 || len(resp.User.Roles) != 1 || resp.User.Roles[0] != "Client" {
		t.Errorf("user = %+v", resp.User)
	}

	// The two tokens must verify only against their own secrets.
	if _, err := utils.VerifyAccessToken("access-secret", resp.Access.Token); err != nil {
		t.Errorf("access token invalid: %v", err)
	}
	if _, err := utils.VerifyRefreshToken("refresh-secret", resp.Refresh.Token); err != nil {
		t.Errorf("refresh token invalid: %v", err)
	}
	if _, err := utils.VerifyAccessToken("access-secret", resp.Refresh.Token); err == nil {
		t.Error("refresh token verified as an access token")
	}
}

// Unknown email and wrong password must be byte-for-byte identical
// responses so login cannot probe which accounts exist.
func TestLoginUniformFailure(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, _ := utils.HashPassword("s3cret", 4)

	e := echo.New()

	mock.ExpectQuery("SELECT id,email,name,password_hash").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	reqA, recA := postJSON("/v1/auth/login", `{"email":"ghost@example.com","password":"whatever"}`)
	if err := h.Login(e.NewContext(reqA, recA)); err != nil {
		t.Fatalf("Login (unknown email): %v", err)
	}

	mock.ExpectQuery("SELECT id,email,name,password_hash").
		WithArgs("dev@example.com").
		WillReturnRows(userRow(hash))
	mock.ExpectQuery("SELECT r.id, r.name FROM roles r").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	reqB, recB := postJSON("/v1/auth/login", `{"email":"dev@example.com","password":"wrong"}`)
	if err := h.Login(e.NewContext(reqB, recB)); err != nil {
		t.Fatalf("Login (wrong password): %v", err)
	}

	if recA.Code != http.StatusUnauthorized || recB.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d; want both 401", recA.Code, recB.Code)
	}
	if recA.Body.String() != recB.Body.String() {
		t.Errorf("responses differ:\n%s\n%s", recA.Body.String(), recB.Body.String())
	}
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	rt, err := utils.NewRefreshToken("refresh-secret", utils.Claims{UserID: 42, Email: "dev@example.com", Roles: []string{"Client"}}, 60)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}

	e := echo.New()
	req, rec := postJSON("/v1/auth/refresh", `{"refresh_token":"`+rt.Token+`"}`)
	if err := h.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Access struct{ Token string } `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cl, err := utils.VerifyAccessToken("access-secret", resp.Access.Token)
	if err != nil {
		t.Fatalf("minted access token invalid: %v", err)
	}
	if cl.UserID != 42 || len(cl.Roles) != 1 || cl.Roles[0] != "Client" {
		t.Errorf("claims = %+v", cl)
	}
	// No rotation: the response carries no new refresh token.
	if strings.Contains(rec.Body.String(), "refresh") {
		t.Errorf("refresh response leaked a refresh token: %s", rec.Body.String())
	}
}

// An access token must not pass the refresh endpoint.
func TestRefreshRejectsAccessToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	at, _ := utils.NewAccessToken("access-secret", utils.Claims{UserID: 42}, 15)
	e := echo.New()
	req, rec := postJSON("/v1/auth/refresh", `{"refresh_token":"`+at.Token+`"}`)
	if err := h.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	req, rec := postJSON("/v1/auth/refresh", `{}`)
	if err := h.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
