package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like/unlike HTTP requests
type LikeHandler struct {
	likes LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like routes. Every like route requires a user.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/video/:videoId", h.toggle(models.LikeTargetVideo, "videoId"))
	g.POST("/comment/:commentId", h.toggle(models.LikeTargetComment, "commentId"))
	g.POST("/tweet/:tweetId", h.toggle(models.LikeTargetTweet, "tweetId"))
	g.GET("/liked-videos", h.GetLikedVideos)
}

// toggle answers 201 when a like was created and 200 when one was removed.
func (h *LikeHandler) toggle(target models.LikeTarget, param string) echo.HandlerFunc {
	label := services.TargetLabel(target)
	return func(c echo.Context) error {
		like, liked, err := h.likes.Toggle(c.Request().Context(), middleware.CurrentIdentity(c), target, c.Param(param))
		if err != nil {
			return err
		}
		if liked {
			return response.JSON(c, http.StatusCreated, like, "Liked "+label)
		}
		return response.OK(c, like, "Unliked "+label)
	}
}

// GetLikedVideos returns one page of videos the current user liked
func (h *LikeHandler) GetLikedVideos(c echo.Context) error {
	page, err := h.likes.LikedVideos(c.Request().Context(), middleware.CurrentIdentity(c), pageOptions(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "All Liked Video fetched")
}
