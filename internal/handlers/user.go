package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/anonto42/vidtube/backend/internal/uploads"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"github.com/labstack/echo/v4"
)

// UserHandler handles account and channel requests
type UserHandler struct {
	users  UserService
	stager *uploads.Stager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, stager *uploads.Stager) *UserHandler {
	return &UserHandler{users: users, stager: stager}
}

// RegisterUserRoutes registers account and channel routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth, limit echo.MiddlewareFunc) {
	g.POST("/register", h.Register, limit)
	g.GET("/current-user", h.GetCurrentUser, requireAuth)
	g.PATCH("/update-account", h.UpdateAccount, requireAuth)
	g.PATCH("/update-avatar", h.UpdateAvatar, requireAuth)
	g.PATCH("/update-cover-image", h.UpdateCoverImage, requireAuth)
	g.GET("/profile/:username", h.GetChannelProfile, requireAuth)
	g.GET("/watch-history", h.GetWatchHistory, requireAuth)
}

// Register creates an account from a multipart form with an avatar and an
// optional cover image
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	batch := h.stager.NewBatch()
	defer batch.Cleanup()

	avatarPath, err := batch.Save(c, "avatar", media.KindImage)
	if err != nil {
		return err
	}
	coverPath, err := batch.Save(c, "coverImage", media.KindImage)
	if err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), req, avatarPath, coverPath)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, user, "User Registered Successfully")
}

// GetCurrentUser returns the authenticated user
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	return response.OK(c, middleware.CurrentUser(c), "Current User Details")
}

// UpdateAccount changes username and email
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	var req models.UpdateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateAccount(c.Request().Context(), middleware.CurrentIdentity(c), req.Username, req.Email)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Account Details Updated Successfully")
}

// UpdateAvatar replaces the avatar
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	batch := h.stager.NewBatch()
	defer batch.Cleanup()

	path, err := batch.Save(c, "avatar", media.KindImage)
	if err != nil {
		return err
	}
	user, err := h.users.UpdateAvatar(c.Request().Context(), middleware.CurrentIdentity(c), path)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Avatar Updated Successfully")
}

// UpdateCoverImage replaces the cover image
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	batch := h.stager.NewBatch()
	defer batch.Cleanup()

	path, err := batch.Save(c, "coverImage", media.KindImage)
	if err != nil {
		return err
	}
	user, err := h.users.UpdateCoverImage(c.Request().Context(), middleware.CurrentIdentity(c), path)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Cover Image Updated Successfully")
}

// GetChannelProfile returns a channel with its subscription counts
func (h *UserHandler) GetChannelProfile(c echo.Context) error {
	profile, err := h.users.ChannelProfile(c.Request().Context(), c.Param("username"), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return response.OK(c, profile, "Channel Profile")
}

// GetWatchHistory returns the videos the current user watched
func (h *UserHandler) GetWatchHistory(c echo.Context) error {
	history, err := h.users.WatchHistory(c.Request().Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return response.OK(c, history, "Watch History fetched successfully")
}
