package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// PlaylistHandler handles HTTP requests related to playlists
type PlaylistHandler struct {
	playlists PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler
func NewPlaylistHandler(playlists PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// RegisterPlaylistRoutes registers playlist routes
func (h *PlaylistHandler) RegisterPlaylistRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/user-playlists/:userId", h.GetUserPlaylists)
	g.GET("/playlist/:playlistId", h.GetPlaylist)
	g.POST("/playlist/create-playlist", h.CreatePlaylist, requireAuth)
	g.POST("/playlist/:playlistId/video/:videoId", h.AddVideo, requireAuth)
	g.DELETE("/playlist/:playlistId/video/:videoId", h.RemoveVideo, requireAuth)
	g.PATCH("/playlist/:playlistId", h.UpdatePlaylist, requireAuth)
	g.DELETE("/playlist/:playlistId", h.DeletePlaylist, requireAuth)
}

// CreatePlaylist creates an empty playlist
func (h *PlaylistHandler) CreatePlaylist(c echo.Context) error {
	var req models.PlaylistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Create(c.Request().Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, playlist, "Playlist created successfully")
}

// GetUserPlaylists returns a user's playlists
func (h *PlaylistHandler) GetUserPlaylists(c echo.Context) error {
	playlists, err := h.playlists.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlists, "Playlist fetched successfully for the user")
}

// GetPlaylist returns one playlist
func (h *PlaylistHandler) GetPlaylist(c echo.Context) error {
	playlist, err := h.playlists.Get(c.Request().Context(), c.Param("playlistId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Playlist fetched successfully for this ID")
}

// AddVideo appends a video to a playlist
func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	playlist, err := h.playlists.AddVideo(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Video added successfully to playlist")
}

// RemoveVideo drops a video from a playlist
func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	playlist, err := h.playlists.RemoveVideo(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Video removed successfully from playlist")
}

// UpdatePlaylist renames a playlist
func (h *PlaylistHandler) UpdatePlaylist(c echo.Context) error {
	var req models.PlaylistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	playlist, err := h.playlists.Update(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("playlistId"), req)
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Playlist updated successfully")
}

// DeletePlaylist deletes a playlist
func (h *PlaylistHandler) DeletePlaylist(c echo.Context) error {
	playlist, err := h.playlists.Delete(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("playlistId"))
	if err != nil {
		return err
	}
	return response.OK(c, playlist, "Playlist deleted successfully")
}
