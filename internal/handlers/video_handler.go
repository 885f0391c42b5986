package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/anonto42/vidtube/backend/internal/uploads"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"github.com/labstack/echo/v4"
)

// VideoHandler handles HTTP requests related to videos
type VideoHandler struct {
	videos VideoService
	stager *uploads.Stager
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videos VideoService, stager *uploads.Stager) *VideoHandler {
	return &VideoHandler{videos: videos, stager: stager}
}

// RegisterVideoRoutes registers video routes. Viewing a video works
// anonymously; optionalAuth attaches the viewer when a token is sent.
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.GetVideos)
	g.GET("/:videoId", h.GetVideo, optionalAuth)
	g.POST("/publish-video", h.PublishVideo, requireAuth)
	g.PATCH("/:videoId", h.UpdateVideo, requireAuth)
	g.DELETE("/:videoId", h.DeleteVideo, requireAuth)
	g.PATCH("/toggle-publish-status/:videoId", h.TogglePublishStatus, requireAuth)
}

// GetVideos lists videos matching an optional title prefix
func (h *VideoHandler) GetVideos(c echo.Context) error {
	page, err := h.videos.List(c.Request().Context(), services.ListVideosParams{
		Query:    c.QueryParam("query"),
		SortBy:   c.QueryParam("sortBy"),
		SortType: c.QueryParam("sortType"),
		Page:     pageOptions(c),
	})
	if err != nil {
		return err
	}
	return response.OK(c, page, "Videos fetched successfully")
}

// PublishVideo uploads the video file from the multipart form
func (h *VideoHandler) PublishVideo(c echo.Context) error {
	var req models.VideoDetailsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	batch := h.stager.NewBatch()
	defer batch.Cleanup()

	path, err := batch.Save(c, "video", media.KindVideo)
	if err != nil {
		return err
	}

	video, err := h.videos.Publish(c.Request().Context(), middleware.CurrentIdentity(c), req, path)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, video, "Video created successfully")
}

// GetVideo returns a video and counts the view
func (h *VideoHandler) GetVideo(c echo.Context) error {
	video, err := h.videos.View(c.Request().Context(), c.Param("videoId"), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return response.OK(c, video, "Video fetched successfully and viewcount updated")
}

// UpdateVideo changes title and description and optionally swaps the file
func (h *VideoHandler) UpdateVideo(c echo.Context) error {
	var req models.VideoDetailsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	batch := h.stager.NewBatch()
	defer batch.Cleanup()

	path, err := batch.Save(c, "video", media.KindVideo)
	if err != nil {
		return err
	}

	video, replaced, err := h.videos.Update(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("videoId"), req, path)
	if err != nil {
		return err
	}
	if replaced {
		return response.OK(c, video, "Video details with file updated successfully")
	}
	return response.OK(c, video, "Video details updated successfully")
}

// DeleteVideo removes a video and its hosted file
func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	video, err := h.videos.Delete(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, video, "Video deleted successfully")
}

// TogglePublishStatus flips whether a video is published
func (h *VideoHandler) TogglePublishStatus(c echo.Context) error {
	video, err := h.videos.TogglePublish(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("videoId"))
	if err != nil {
		return err
	}
	return response.OK(c, video, "Video publish status toggled successfully")
}
