package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/storage"
)

// UserHandler bundles dependencies for user management endpoints.
// Uploader may be nil, in which case profile picture uploads are
// rejected with 503.
type UserHandler struct {
	Users    *repository.UserRepo
	Uploader *storage.S3
}

func NewUserHandler(users *repository.UserRepo, uploader *storage.S3) *UserHandler {
	return &UserHandler{Users: users, Uploader: uploader}
}

type userDetail struct {
	ID             uint64   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	ProfilePicture string   `json:"profile_picture,omitempty"`
	Roles          []string `json:"roles"`
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userDetail, 0, len(users))
	for _, u := range users {
		out = append(out, userDetail{ID: u.ID, Email: u.Email, Name: u.Name, ProfilePicture: u.ProfilePicture, Roles: u.RoleNames()})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Get returns one user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": userDetail{ID: u.ID, Email: u.Email, Name: u.Name, ProfilePicture: u.ProfilePicture, Roles: u.RoleNames()},
	})
}

// Update changes a user's name, email or role assignments.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req struct {
		Name  string   `json:"name"`
		Email string   `json:"email"`
		Roles []string `json:"roles"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	name, email := u.Name, u.Email
	if strings.TrimSpace(req.Name) != "" {
		name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Email) != "" {
		email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if err := h.Users.UpdateProfile(ctx, id, name, email); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if req.Roles != nil {
		if err := h.Users.ReplaceRoles(ctx, id, req.Roles); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

// Delete removes a user.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// UploadProfilePicture stores the caller's avatar in the object store and
// records its URL.  Multipart field name: "file".
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	if h.Uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "file storage unavailable"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file unreadable"})
	}
	defer src.Close()

	key := fmt.Sprintf("profile-pictures/%d%s", ident.ID, strings.ToLower(filepath.Ext(fh.Filename)))
	url, err := h.Uploader.UploadFile(src, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfilePicture(ctx, ident.ID, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"profile_picture": url})
}

// parseID converts a path parameter into a numeric id.
func parseID(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}
